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

// Package plugin keeps track of installed plugins and what they contribute
// to the backend.
package plugin

import (
	"io/fs"

	"github.com/retr0h/backoffice/internal/backend"
	"github.com/retr0h/backoffice/internal/permission"
)

// ManifestFile is the manifest name looked up in every plugin directory.
const ManifestFile = "plugin.yaml"

// Details describes a plugin.
type Details struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Icon        string `yaml:"icon"`
	Homepage    string `yaml:"homepage"`
}

// Plugin is an installed plugin. Identifiers take the form "Author.Plugin".
type Plugin interface {
	Identifier() string
	Details() Details
}

// PermissionProvider is implemented by plugins that register permissions.
type PermissionProvider interface {
	RegisterPermissions() []permission.Definition
}

// ControllerProvider is implemented by plugins that serve backend
// controllers, keyed by lowercase controller name.
type ControllerProvider interface {
	RegisterControllers() map[string]backend.Constructor
}

// FileProvider is implemented by plugins shipping views and lang files.
// The files are mounted at the plugin path.
type FileProvider interface {
	Files() fs.FS
}

// Manifest is the content of a plugin.yaml file.
type Manifest struct {
	Identifier  string                  `yaml:"identifier"`
	Details     Details                 `yaml:",inline"`
	Permissions []permission.Definition `yaml:"permissions"`
}
