// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/retr0h/backoffice/internal/api"
	"github.com/retr0h/backoffice/internal/api/health"
	"github.com/retr0h/backoffice/internal/audit"
	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/authtoken"
	"github.com/retr0h/backoffice/internal/backend"
	"github.com/retr0h/backoffice/internal/cli"
	"github.com/retr0h/backoffice/internal/cms"
	"github.com/retr0h/backoffice/internal/config"
	"github.com/retr0h/backoffice/internal/event"
	"github.com/retr0h/backoffice/internal/modules/core"
	"github.com/retr0h/backoffice/internal/route"
	"github.com/retr0h/backoffice/internal/session"
	"github.com/retr0h/backoffice/internal/telemetry"
	"github.com/retr0h/backoffice/internal/view"
)

// compositeLifecycle manages multiple Lifecycle components, starting them
// sequentially and stopping them concurrently.
type compositeLifecycle struct {
	components []cli.Lifecycle
}

func (c *compositeLifecycle) Start() {
	for _, comp := range c.components {
		comp.Start()
	}
}

func (c *compositeLifecycle) Stop(ctx context.Context) {
	var wg sync.WaitGroup
	for _, comp := range c.components {
		wg.Add(1)
		go func(lc cli.Lifecycle) {
			defer wg.Done()
			lc.Stop(ctx)
		}(comp)
	}
	wg.Wait()
}

// sessionGC runs the memory session store garbage collection on a cron
// schedule while the server is up.
type sessionGC struct {
	log      *slog.Logger
	store    *session.MemoryStore
	schedule string
}

func (g *sessionGC) Start() {
	if err := g.store.StartGC(g.schedule); err != nil {
		g.log.Error(
			"failed to schedule session garbage collection",
			slog.String("schedule", g.schedule),
			slog.String("error", err.Error()),
		)
	}
}

func (g *sessionGC) Stop(_ context.Context) {
	g.store.StopGC()
}

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the backend server",
	Long: `Start the backend server. It serves the backend below the configured
URI, the health probes, the metrics endpoint and, when enabled, the audit
API and CMS pages.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		startTime := time.Now()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			telemetry.ServiceName,
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		metricsHandler, metricsPath, shutdownMeter, err := telemetry.InitMeter(
			appConfig.Telemetry.Metrics,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize meter", err)
		}

		dispatchMetrics, err := telemetry.NewDispatchMetrics(nil)
		if err != nil {
			cli.LogFatal(logger, "failed to create dispatch metrics", err)
		}

		b, err := setupBackend(logger, appFs, appConfig)
		if err != nil {
			cli.LogFatal(logger, "failed to set up backend", err)
		}

		checker := &health.StoreChecker{
			Checks: map[string]func(ctx context.Context) error{},
		}
		components := []cli.Lifecycle{}
		var cleanupFns []func()

		sessionStore, gc, closeSessions := newSessionStore(logger, appConfig.Session, checker)
		if gc != nil {
			components = append(components, gc)
		}
		cleanupFns = append(cleanupFns, closeSessions)

		provider := newUserProvider(logger, b.registry, appConfig)
		authManager := auth.NewManager(
			logger,
			provider,
			authtoken.New(logger),
			appConfig.Server.Security.SigningKey,
			appConfig.Backend.SessionTTL,
		)

		dispatcher := backend.NewDispatcher(&backend.Services{
			Logger: logger,
			Views:  view.New(logger, b.fs),
			Lang:   b.translator,
			Events: event.New(logger),
			Sessions: session.NewManager(
				logger,
				sessionStore,
				session.Options{
					CookieName: appConfig.Session.CookieName,
					TTL:        appConfig.Session.TTL,
				},
			),
			Auth:    authManager,
			Metrics: dispatchMetrics,
			Config:  dispatcherConfig(appConfig),
		})
		resolver := route.NewResolver(logger, b.catalog, b.plugins)

		var pages api.PageRenderer
		if appConfig.CMS.Enabled {
			server := cms.New(logger, b.fs, appConfig.CMS.Path, appConfig.CMS.Theme)
			if err := server.Load(); err != nil {
				cli.LogFatal(logger, "failed to load cms pages", err)
			}
			pages = server
		}

		opts := []api.Option{api.WithTokenResolver(authManager)}
		if appConfig.Audit.Enabled {
			store, closeAudit := newAuditStore(logger, appConfig.Audit, checker)
			opts = append(opts, api.WithAuditStore(store))
			cleanupFns = append(cleanupFns, closeAudit)
		}

		sm := api.New(appConfig, logger, opts...)
		sm.RegisterHandlers(sm.GetHealthHandler(checker, startTime, buildVersion().GitVersion))
		sm.RegisterHandlers(sm.GetMetricsHandler(metricsHandler, metricsPath))
		sm.RegisterHandlers(sm.GetAuditHandler())
		sm.RegisterHandlers(sm.GetBackendHandler(resolver, dispatcher, pages))

		composite := &compositeLifecycle{
			components: append([]cli.Lifecycle{sm}, components...),
		}

		composite.Start()
		cli.RunServer(ctx, composite, append(cleanupFns, func() {
			_ = shutdownMeter(context.Background())
			_ = shutdownTracer(context.Background())
		})...)
	},
}

// dispatcherConfig maps the backend settings onto the dispatcher.
func dispatcherConfig(
	cfg config.Config,
) backend.Config {
	return backend.Config{
		URI:             cfg.Backend.URI,
		ForceSecure:     cfg.Backend.ForceSecure,
		CSRFProtection:  cfg.Backend.CSRFProtection,
		Debug:           cfg.Debug,
		LoginPath:       cfg.Backend.LoginURL,
		AuthCookie:      cfg.Backend.AuthCookie,
		LayoutPaths:     []string{core.LayoutPath},
		SystemViewPaths: []string{core.SystemViewPath},
	}
}

// newSessionStore creates the configured session store and registers its
// health check. The memory store comes with a garbage collection
// lifecycle.
func newSessionStore(
	log *slog.Logger,
	cfg config.Session,
	checker *health.StoreChecker,
) (session.Store, cli.Lifecycle, func()) {
	if cfg.Driver == "redis" {
		client := newRedisClient(cfg.Redis)
		checker.Checks["session"] = redisCheck(client)

		return session.NewRedisStore(log, client, cfg.Redis.Prefix, cfg.TTL),
			nil,
			func() { _ = client.Close() }
	}

	store := session.NewMemoryStore(log, cfg.TTL)
	var gc cli.Lifecycle
	if cfg.GCSchedule != "" {
		gc = &sessionGC{log: log, store: store, schedule: cfg.GCSchedule}
	}

	return store, gc, func() {}
}

// newAuditStore creates the configured audit store and registers its
// health check.
func newAuditStore(
	log *slog.Logger,
	cfg config.Audit,
	checker *health.StoreChecker,
) (audit.Store, func()) {
	if cfg.Driver == "redis" {
		client := newRedisClient(cfg.Redis)
		checker.Checks["audit"] = redisCheck(client)

		return audit.NewRedisStore(log, client, cfg.Redis.Prefix, int64(cfg.Size)),
			func() { _ = client.Close() }
	}

	return audit.NewMemoryStore(log, cfg.Size), func() {}
}

func redisCheck(
	client *redis.Client,
) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
