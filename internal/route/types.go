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

// Package route maps backend URL paths to controllers. Module controllers
// are tried first, then plugin controllers.
package route

import (
	"errors"

	"github.com/retr0h/backoffice/internal/backend"
)

// Defaults for missing URL segments.
const (
	DefaultModule     = "backend"
	DefaultController = "index"
	DefaultAction     = "index"
)

// ErrPluginDisabled is returned for a URL naming a disabled plugin.
var ErrPluginDisabled = errors.New("plugin is disabled")

// Entry is a controller known to the catalog.
type Entry struct {
	// Name is the lowercase controller key, e.g. "backend/auth" or
	// "acme/blog/posts".
	Name        string
	ViewPath    string
	Constructor backend.Constructor
}

// Locator finds controllers by key.
type Locator interface {
	Locate(key string) (Entry, bool)
}

// PluginChecker reports whether a plugin is disabled.
type PluginChecker interface {
	IsDisabled(id string) bool
}

// Match is a resolved route.
type Match struct {
	// Namespace is the module name or the plugin identifier.
	Namespace  string
	Controller *backend.Controller
	Action     string
	Params     []string
}
