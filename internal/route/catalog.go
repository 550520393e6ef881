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

package route

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/retr0h/backoffice/internal/backend"
)

// ControllerSource lists plugin controllers, keyed by plugin identifier
// then controller name, along with the directory of each plugin.
type ControllerSource interface {
	Controllers() map[string]map[string]backend.Constructor
	Path(id string) string
}

// Catalog is the set of routable controllers. Keys are matched
// case-insensitively.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// ensure Catalog implements Locator at compile time.
var _ Locator = (*Catalog)(nil)

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]Entry),
	}
}

// Add registers a controller under key, e.g. "backend/auth".
func (c *Catalog) Add(
	key string,
	viewPath string,
	ctor backend.Constructor,
) {
	key = strings.ToLower(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Name:        key,
		ViewPath:    viewPath,
		Constructor: ctor,
	}
}

// AddPlugins registers the controllers of every plugin in src under
// "author/plugin/controller". Their views live in
// "<plugin path>/controllers/<controller>".
func (c *Catalog) AddPlugins(
	src ControllerSource,
) {
	for id, controllers := range src.Controllers() {
		author, name, ok := strings.Cut(strings.ToLower(id), ".")
		if !ok {
			continue
		}
		for controller, ctor := range controllers {
			c.Add(
				path.Join(author, name, controller),
				path.Join(src.Path(id), "controllers", strings.ToLower(controller)),
				ctor,
			)
		}
	}
}

// Locate returns the controller registered under key.
func (c *Catalog) Locate(
	key string,
) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[strings.ToLower(key)]
	return e, ok
}

// Keys returns the registered keys, sorted.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
