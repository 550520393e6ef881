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
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/afero"

	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/config"
	"github.com/retr0h/backoffice/internal/lang"
	"github.com/retr0h/backoffice/internal/modules/core"
	"github.com/retr0h/backoffice/internal/permission"
	"github.com/retr0h/backoffice/internal/plugin"
	"github.com/retr0h/backoffice/internal/route"
)

// backendBundle holds the registries shared by the backend and the
// commands that inspect it.
type backendBundle struct {
	fs         afero.Fs
	plugins    *plugin.Manager
	translator *lang.Translator
	registry   *permission.Registry
	catalog    *route.Catalog
}

// newBackendFs returns a filesystem reading from fsys and keeping writes
// in memory, so built-in views can be mounted without touching the disk.
func newBackendFs(
	fsys afero.Fs,
) afero.Fs {
	return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(fsys), afero.NewMemMapFs())
}

// setupBackend installs the core module and every plugin found below the
// configured plugins path.
func setupBackend(
	log *slog.Logger,
	fsys afero.Fs,
	cfg config.Config,
) (*backendBundle, error) {
	b := &backendBundle{
		fs:       newBackendFs(fsys),
		registry: permission.New(log),
		catalog:  route.NewCatalog(),
	}

	b.plugins = plugin.NewManager(log, b.fs, cfg.Plugins.Path, cfg.Plugins.Disabled)
	if err := b.plugins.LoadManifests(); err != nil {
		return nil, fmt.Errorf("load plugins: %w", err)
	}

	locale := cfg.Backend.DefaultLocale
	if locale == "" {
		locale = "en"
	}

	var err error
	b.translator, err = lang.New(log, locale)
	if err != nil {
		return nil, err
	}

	if err := core.New(log, b.plugins).Install(b.fs, b.translator, b.registry, b.catalog); err != nil {
		return nil, fmt.Errorf("install core module: %w", err)
	}

	for _, p := range b.plugins.List() {
		id := p.Identifier()
		dir := path.Join(b.plugins.Path(id), "lang")
		if ok, _ := afero.DirExists(b.fs, dir); !ok {
			continue
		}
		if err := b.translator.Load(b.fs, strings.ToLower(id), dir); err != nil {
			return nil, fmt.Errorf("load %s translations: %w", id, err)
		}
	}

	b.registry.AddSource(b.plugins.PermissionSource())
	b.catalog.AddPlugins(b.plugins)

	return b, nil
}

// authRoles converts the configured roles.
func authRoles(
	roles map[string]config.Role,
) []auth.Role {
	out := make([]auth.Role, 0, len(roles))
	for code, r := range roles {
		out = append(out, auth.Role{
			Code:           code,
			Name:           r.Name,
			Permissions:    r.Permissions,
			System:         r.System,
			IncludeOrphans: r.IncludeOrphans,
		})
	}

	return out
}

// authUsers converts the configured users.
func authUsers(
	users []config.User,
) []auth.User {
	out := make([]auth.User, 0, len(users))
	for _, u := range users {
		out = append(out, auth.User{
			Login:        u.Login,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			IsSuperUser:  u.SuperUser,
			Locale:       u.Locale,
			Permissions:  u.Permissions,
		})
	}

	return out
}

// newUserProvider builds the config backed user provider.
func newUserProvider(
	log *slog.Logger,
	registry *permission.Registry,
	cfg config.Config,
) *auth.ConfigProvider {
	roles := auth.NewRoles(registry, authRoles(cfg.Roles))
	return auth.NewConfigProvider(log, roles, authUsers(cfg.Users))
}

// newRedisClient connects to the configured server.
func newRedisClient(
	cfg config.Redis,
) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
