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

package core

import (
	"github.com/retr0h/backoffice/internal/backend"
)

// pluginSummary is a dashboard row.
type pluginSummary struct {
	Identifier string
	Name       string
}

func (m *Module) indexController(c *backend.Controller) error {
	c.RequirePermissions(PermissionAccessDashboard)
	c.Action("index", m.dashboard)

	return nil
}

func (m *Module) dashboard(
	c *backend.Controller,
	_ []string,
) (any, error) {
	c.SetPageTitle("backend::lang.dashboard.menu_label")
	c.Set("plugins", m.pluginSummaries())

	return nil, nil
}

func (m *Module) pluginSummaries() []pluginSummary {
	if m.plugins == nil {
		return nil
	}

	list := m.plugins.List()
	out := make([]pluginSummary, 0, len(list))
	for _, p := range list {
		name := p.Details().Name
		if name == "" {
			name = p.Identifier()
		}
		out = append(out, pluginSummary{
			Identifier: p.Identifier(),
			Name:       name,
		})
	}

	return out
}
