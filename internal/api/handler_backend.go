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

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/backoffice/internal/backend"
	"github.com/retr0h/backoffice/internal/cms"
	"github.com/retr0h/backoffice/internal/route"
)

// GetBackendHandler returns the backend mount for registration. Every
// method below the backend URI is resolved to a controller and dispatched.
// Paths no controller serves fall back to pages, then to the backend not
// found page. When pages is set it also serves the site root.
func (s *Server) GetBackendHandler(
	resolver RouteResolver,
	dispatcher *backend.Dispatcher,
	pages PageRenderer,
) []func(e *echo.Echo) {
	uri := "/" + strings.Trim(s.appConfig.Backend.URI, "/")
	h := &backendHandler{
		logger:     s.logger.With(slog.String("subsystem", "api.backend")),
		uri:        uri,
		resolver:   resolver,
		dispatcher: dispatcher,
		pages:      pages,
	}

	handlers := []func(e *echo.Echo){
		func(e *echo.Echo) {
			e.Any(uri, h.serveBackend)
			e.Any(uri+"/*", h.serveBackend)
		},
	}

	if pages != nil {
		handlers = append(handlers, func(e *echo.Echo) {
			e.GET("/*", h.servePage)
		})
	}

	return handlers
}

type backendHandler struct {
	logger     *slog.Logger
	uri        string
	resolver   RouteResolver
	dispatcher *backend.Dispatcher
	pages      PageRenderer
}

func (h *backendHandler) serveBackend(
	c echo.Context,
) error {
	p := strings.TrimPrefix(c.Request().URL.Path, h.uri)

	m, err := h.resolver.Resolve(p)
	if errors.Is(err, route.ErrPluginDisabled) {
		h.logger.Debug("plugin disabled", slog.String("path", p))
		return h.notFound(c)
	}
	if err != nil {
		return err
	}

	if m == nil {
		if h.pages != nil {
			return h.servePage(c)
		}
		return h.notFound(c)
	}

	resp, err := h.dispatcher.Dispatch(c, m.Controller, m.Action, m.Params)
	if err != nil {
		return err
	}

	return resp.Write(c)
}

func (h *backendHandler) servePage(
	c echo.Context,
) error {
	body, status, err := h.pages.Render(c.Request().URL.Path)
	if errors.Is(err, cms.ErrNotFound) {
		return h.notFound(c)
	}
	if err != nil {
		return err
	}

	return c.HTML(status, body)
}

func (h *backendHandler) notFound(
	c echo.Context,
) error {
	resp, err := h.dispatcher.NotFound(c)
	if err != nil {
		return err
	}

	if resp.Status == 0 {
		resp.Status = http.StatusNotFound
	}

	return resp.Write(c)
}
