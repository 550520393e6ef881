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

package backend

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/retr0h/backoffice/internal/session"
	"github.com/retr0h/backoffice/internal/view"
)

// MakeView renders the named view inside the controller layout.
func (c *Controller) MakeView(
	name string,
) (*Response, error) {
	body, err := c.viewScope().Render(name, c.mergedVars(nil))
	if err != nil {
		return nil, err
	}

	return c.makeViewContent(body)
}

// MakePartial renders a partial from the controller view paths.
func (c *Controller) MakePartial(
	name string,
	extra map[string]any,
) (string, error) {
	return c.viewScope().RenderPartial(name, c.mergedVars(extra))
}

// MakeLayoutPartial renders a partial from the layout paths.
func (c *Controller) MakeLayoutPartial(
	name string,
	extra map[string]any,
) (string, error) {
	return c.layoutScope().RenderPartial(name, c.mergedVars(extra))
}

// makeViewContent wraps body in the layout.
func (c *Controller) makeViewContent(
	body string,
) (*Response, error) {
	if c.layout == "" {
		return HTML(c.statusCode, body), nil
	}

	vars := c.mergedVars(map[string]any{
		"body": template.HTML(body), //nolint:gosec
	})

	out, err := c.layoutScope().Render(c.layout, vars)
	if err != nil {
		return nil, err
	}

	return HTML(c.statusCode, out), nil
}

// makeSystemView renders a view from the system view paths without a
// layout, e.g. "access_denied".
func (c *Controller) makeSystemView(
	name string,
	status int,
) (*Response, error) {
	scope := c.svc.Views.Scope(c.svc.Config.SystemViewPaths, c.templateFuncs())

	out, err := scope.Render(name, c.mergedVars(nil))
	if err != nil {
		return nil, err
	}

	return HTML(status, out), nil
}

func (c *Controller) viewScope() *view.Scope {
	return c.svc.Views.Scope(c.viewPaths, c.templateFuncs())
}

func (c *Controller) layoutScope() *view.Scope {
	paths := make([]string, 0, len(c.layoutPaths)+len(c.svc.Config.LayoutPaths))
	paths = append(paths, c.layoutPaths...)
	paths = append(paths, c.svc.Config.LayoutPaths...)

	return c.svc.Views.Scope(paths, c.templateFuncs())
}

func (c *Controller) mergedVars(
	extra map[string]any,
) map[string]any {
	out := make(map[string]any, len(c.vars)+len(extra)+4)
	out["pageTitle"] = c.Trans(c.pageTitle)
	out["controller"] = c.name
	out["action"] = c.ac.Action
	out["locale"] = c.locale
	if u := c.User(); u != nil {
		out["user"] = u
	}
	for k, v := range c.vars {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}

	return out
}

func (c *Controller) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"trans": func(key string, pairs ...string) string {
			return c.Trans(key, pairs...)
		},
		"backendURL": c.BackendURL,
		"csrfToken": func() (string, error) {
			if c.session == nil {
				return "", nil
			}
			return c.session.Token()
		},
		"flash": func() []session.Message {
			if c.session == nil {
				return nil
			}
			return c.Flash().All()
		},
		"hasAccess": func(codes ...string) bool {
			return c.auth.UserHasAccess(codes, false)
		},
		"lower": strings.ToLower,
	}
}

// notFound renders the not found page, or returns a NotFoundError in
// debug mode.
func (c *Controller) notFound(
	err error,
) (*Response, error) {
	if c.svc.Config.Debug {
		return nil, err
	}

	return c.makeSystemView("404", http.StatusNotFound)
}
