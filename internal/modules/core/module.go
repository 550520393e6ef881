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

// Package core is the built-in backend module. It serves sign in and
// sign out, the dashboard, and the layouts, system views and lang files
// every other controller renders with.
package core

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/spf13/afero"

	"github.com/retr0h/backoffice/internal/lang"
	"github.com/retr0h/backoffice/internal/permission"
	"github.com/retr0h/backoffice/internal/plugin"
	"github.com/retr0h/backoffice/internal/route"
	"github.com/retr0h/backoffice/internal/view"
)

// Owner is the permission owner of the core permissions.
const Owner = "Backend.Core"

// Core permission codes.
const (
	PermissionAccessDashboard   = "backend.access_dashboard"
	PermissionManageUsers       = "backend.manage_users"
	PermissionManagePreferences = "backend.manage_preferences"
	PermissionManagePlugins     = "backend.manage_plugins"
)

// Locations of the module files once installed.
const (
	Root           = "/modules/backend"
	LayoutPath     = Root + "/views/layouts"
	SystemViewPath = Root + "/views/system"
	LangPath       = Root + "/lang"
	// LoginPath is the sign in page below the backend URI.
	LoginPath = "backend/auth/signin"
)

//go:embed all:files
var files embed.FS

// PluginLister lists installed plugins for the dashboard.
type PluginLister interface {
	List() []plugin.Plugin
}

// Module installs the built-in backend controllers.
type Module struct {
	logger  *slog.Logger
	plugins PluginLister
}

// New creates the Module. plugins may be nil.
func New(
	logger *slog.Logger,
	plugins PluginLister,
) *Module {
	return &Module{
		logger:  logger.With(slog.String("subsystem", "module.core")),
		plugins: plugins,
	}
}

// Permissions returns the core permission definitions.
func Permissions() []permission.Definition {
	return []permission.Definition{
		{
			Code:  PermissionAccessDashboard,
			Label: "View the dashboard",
			Tab:   "System",
			Order: permission.Order(100),
		},
		{
			Code:  PermissionManageUsers,
			Label: "Manage other administrators",
			Tab:   "System",
			Order: permission.Order(200),
		},
		{
			Code:  PermissionManagePreferences,
			Label: "Manage backend preferences",
			Tab:   "System",
			Order: permission.Order(300),
		},
		{
			Code:  PermissionManagePlugins,
			Label: "Manage plugins",
			Tab:   "System",
			Order: permission.Order(400),
		},
	}
}

// Install copies the module files onto fsys, loads the "backend" lang
// namespace, registers the core permissions and adds the "backend/auth"
// and "backend/index" controllers to catalog.
func (m *Module) Install(
	fsys afero.Fs,
	translator *lang.Translator,
	registry *permission.Registry,
	catalog *route.Catalog,
) error {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		return fmt.Errorf("open module files: %w", err)
	}

	if err := view.Mount(fsys, Root, sub); err != nil {
		return fmt.Errorf("mount module files: %w", err)
	}

	if err := translator.Load(fsys, "backend", LangPath); err != nil {
		return fmt.Errorf("load backend lang: %w", err)
	}

	if err := registry.Register(Owner, Permissions()...); err != nil {
		return fmt.Errorf("register core permissions: %w", err)
	}

	catalog.Add("backend/auth", controllerPath("auth"), authController)
	catalog.Add("backend/index", controllerPath("index"), m.indexController)

	m.logger.Debug("installed backend module", slog.String("root", Root))

	return nil
}

func controllerPath(
	name string,
) string {
	return path.Join(Root, "views", "controllers", name)
}
