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

package plugin

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/retr0h/backoffice/internal/backend"
	"github.com/retr0h/backoffice/internal/permission"
	"github.com/retr0h/backoffice/internal/view"
)

// Manager is the registry of installed plugins.
type Manager struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	fs       afero.Fs
	root     string
	plugins  map[string]Plugin
	disabled map[string]bool
}

// NewManager creates a Manager whose plugins live below root on fsys.
// Disabled identifiers are matched case-insensitively.
func NewManager(
	logger *slog.Logger,
	fsys afero.Fs,
	root string,
	disabled []string,
) *Manager {
	m := &Manager{
		logger:   logger.With(slog.String("subsystem", "plugin")),
		fs:       fsys,
		root:     root,
		plugins:  make(map[string]Plugin),
		disabled: make(map[string]bool, len(disabled)),
	}

	for _, id := range disabled {
		m.disabled[normalize(id)] = true
	}

	return m
}

// Register installs p. Files it ships are mounted at its path.
func (m *Manager) Register(
	p Plugin,
) error {
	id := normalize(p.Identifier())
	if _, _, ok := splitIdentifier(p.Identifier()); !ok {
		return fmt.Errorf("invalid plugin identifier %q", p.Identifier())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.plugins[id]; exists {
		return fmt.Errorf("plugin %q already registered", p.Identifier())
	}

	if fp, ok := p.(FileProvider); ok {
		if err := view.Mount(m.fs, m.pluginPath(p.Identifier()), fp.Files()); err != nil {
			return fmt.Errorf("mount plugin files: %w", err)
		}
	}

	m.plugins[id] = p

	m.logger.Debug("registered plugin", slog.String("plugin", p.Identifier()))

	return nil
}

// LoadManifests registers a plugin for every "<author>/<plugin>/plugin.yaml"
// below root that is not registered yet.
func (m *Manager) LoadManifests() error {
	if ok, _ := afero.DirExists(m.fs, m.root); !ok {
		m.logger.Debug("no plugins directory", slog.String("path", m.root))
		return nil
	}

	files, err := afero.Glob(m.fs, path.Join(m.root, "*", "*", ManifestFile))
	if err != nil {
		return fmt.Errorf("find plugin manifests: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := afero.ReadFile(m.fs, file)
		if err != nil {
			return fmt.Errorf("read manifest %q: %w", file, err)
		}

		var manifest Manifest
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("parse manifest %q: %w", file, err)
		}

		if manifest.Identifier == "" {
			dir := path.Dir(file)
			manifest.Identifier = IdentifierFor(path.Base(path.Dir(dir)), path.Base(dir))
		}

		if _, ok := m.Find(manifest.Identifier); ok {
			continue
		}

		if err := m.Register(&manifestPlugin{manifest: manifest}); err != nil {
			return err
		}
	}

	return nil
}

// Find returns the plugin with the identifier, matched case-insensitively.
func (m *Manager) Find(
	id string,
) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[normalize(id)]
	return p, ok
}

// IsDisabled reports whether the plugin has been disabled.
func (m *Manager) IsDisabled(
	id string,
) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.disabled[normalize(id)]
}

// Disable disables the plugin.
func (m *Manager) Disable(
	id string,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disabled[normalize(id)] = true
}

// Enable re-enables the plugin.
func (m *Manager) Enable(
	id string,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.disabled, normalize(id))
}

// List returns the enabled plugins sorted by identifier.
func (m *Manager) List() []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Plugin, 0, len(m.plugins))
	for id, p := range m.plugins {
		if !m.disabled[id] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return normalize(out[i].Identifier()) < normalize(out[j].Identifier())
	})

	return out
}

// Path returns the directory of the plugin below the plugins root.
func (m *Manager) Path(
	id string,
) string {
	return m.pluginPath(id)
}

// PermissionSource returns a permission.Source contributing the
// permissions of every enabled plugin.
func (m *Manager) PermissionSource() permission.Source {
	return func() []permission.Contribution {
		var out []permission.Contribution
		for _, p := range m.List() {
			pp, ok := p.(PermissionProvider)
			if !ok {
				continue
			}
			out = append(out, permission.Contribution{
				Owner:       p.Identifier(),
				Definitions: pp.RegisterPermissions(),
			})
		}
		return out
	}
}

// Controllers returns the controllers of every enabled plugin, keyed by
// plugin identifier then lowercase controller name.
func (m *Manager) Controllers() map[string]map[string]backend.Constructor {
	out := make(map[string]map[string]backend.Constructor)
	for _, p := range m.List() {
		cp, ok := p.(ControllerProvider)
		if !ok {
			continue
		}

		controllers := make(map[string]backend.Constructor)
		for name, ctor := range cp.RegisterControllers() {
			controllers[strings.ToLower(name)] = ctor
		}
		out[p.Identifier()] = controllers
	}

	return out
}

func (m *Manager) pluginPath(
	id string,
) string {
	author, name, _ := splitIdentifier(id)
	return path.Join(m.root, strings.ToLower(author), strings.ToLower(name))
}

func splitIdentifier(
	id string,
) (string, string, bool) {
	author, name, ok := strings.Cut(id, ".")
	if !ok || author == "" || name == "" || strings.Contains(name, ".") {
		return "", "", false
	}

	return author, name, true
}

func normalize(
	id string,
) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func ucfirst(
	s string,
) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// IdentifierFor builds the plugin identifier for URL segments such as
// "acme" and "blog".
func IdentifierFor(
	author string,
	name string,
) string {
	return ucfirst(author) + "." + ucfirst(name)
}

type manifestPlugin struct {
	manifest Manifest
}

func (p *manifestPlugin) Identifier() string {
	return p.manifest.Identifier
}

func (p *manifestPlugin) Details() Details {
	return p.manifest.Details
}

func (p *manifestPlugin) RegisterPermissions() []permission.Definition {
	return p.manifest.Permissions
}
