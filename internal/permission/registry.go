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

package permission

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/retr0h/backoffice/internal/apperr"
)

// ErrSealed is returned when registering after the registry was materialized.
var ErrSealed = errors.New("permission registry is sealed")

// ErrLoading is returned when a callback reads the registry it is
// registering into.
var ErrLoading = apperr.Configuration("permission registry cannot be read while it is loading")

// Registry stores permission definitions. It materializes once, on Seal or
// on the first read, by running the registered callbacks and sources and
// sorting the result. It is immutable afterwards except for Remove.
type Registry struct {
	logger *slog.Logger

	mu          sync.Mutex
	once        sync.Once
	callbacks   []func(*Registry)
	sources     []Source
	permissions []Permission
	sealed      bool
	roleIndex   map[string]map[string]bool

	// loading marks the registration-only registry handed to callbacks.
	loading bool
}

// New creates an empty Registry.
func New(
	logger *slog.Logger,
) *Registry {
	return &Registry{
		logger: logger,
	}
}

// RegisterCallback queues fn to run when the registry materializes. fn
// receives a registration-only registry: Register works, reads fail with
// ErrLoading.
func (r *Registry) RegisterCallback(
	fn func(*Registry),
) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.callbacks = append(r.callbacks, fn)
}

// AddSource queues a contribution source consulted after the callbacks.
func (r *Registry) AddSource(
	src Source,
) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sources = append(r.sources, src)
}

// Register appends the definitions for owner, filling in defaults. Duplicate
// codes are appended as well; see Duplicates.
func (r *Registry) Register(
	owner string,
	definitions ...Definition,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}

	for _, def := range definitions {
		r.permissions = append(r.permissions, newPermission(owner, def))
	}

	return nil
}

// Remove deletes every entry matching owner and code. It fails with a
// ConfigurationError before the registry is materialized; removing an absent
// entry is a no-op.
func (r *Registry) Remove(
	owner string,
	code string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sealed {
		return apperr.Configuration(
			"unable to remove permission %s.%s: permissions have not been loaded",
			owner,
			code,
		)
	}

	kept := r.permissions[:0]
	for _, p := range r.permissions {
		if p.Owner == owner && p.Code == code {
			continue
		}
		kept = append(kept, p)
	}
	r.permissions = kept
	r.roleIndex = nil

	return nil
}

// Seal materializes the registry. It is safe to call more than once.
func (r *Registry) Seal() {
	if r.loading {
		return
	}
	r.once.Do(r.materialize)
}

// readable reports whether reads are allowed, logging the misuse when a
// callback reads while the registry is loading.
func (r *Registry) readable() bool {
	if !r.loading {
		return true
	}

	r.logger.Error(
		"permission registry read from a registration callback",
		slog.String("error", ErrLoading.Error()),
	)

	return false
}

// IsSealed reports whether the registry has materialized.
func (r *Registry) IsSealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sealed
}

// List returns the permissions sorted by order. Equal orders keep their
// registration order.
func (r *Registry) List() []Permission {
	if !r.readable() {
		return nil
	}
	r.Seal()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Permission, len(r.permissions))
	copy(out, r.permissions)

	return out
}

// ListTabbed groups the sorted permissions by tab. Tabs appear in the order
// of their first permission.
func (r *Registry) ListTabbed() []TabGroup {
	var groups []TabGroup
	index := make(map[string]int)

	for _, p := range r.List() {
		i, ok := index[p.Tab]
		if !ok {
			i = len(groups)
			index[p.Tab] = i
			groups = append(groups, TabGroup{Tab: p.Tab})
		}
		groups[i].Permissions = append(groups[i].Permissions, p)
	}

	return groups
}

// Find returns the first permission with the given code.
func (r *Registry) Find(
	code string,
) (Permission, error) {
	if r.loading {
		return Permission{}, ErrLoading
	}

	for _, p := range r.List() {
		if p.Code == code {
			return p, nil
		}
	}

	return Permission{}, apperr.Application("permission %q is not registered", code)
}

// ListForRole returns the codes granted to role. Orphan permissions are
// included when includeOrphans is true. Unknown roles yield an empty set.
func (r *Registry) ListForRole(
	role string,
	includeOrphans bool,
) map[string]bool {
	if !r.readable() {
		return map[string]bool{}
	}
	r.Seal()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.roleIndex == nil {
		r.roleIndex = buildRoleIndex(r.permissions)
	}

	out := make(map[string]bool)
	for code := range r.roleIndex[role] {
		out[code] = true
	}

	if includeOrphans {
		for code := range r.roleIndex[WildcardRole] {
			out[code] = true
		}
	}

	return out
}

// HasPermissionsForRole reports whether any permission is explicitly scoped
// to role. Orphans do not count.
func (r *Registry) HasPermissionsForRole(
	role string,
) bool {
	return len(r.ListForRole(role, false)) > 0
}

// Duplicates returns the (owner, code) pairs registered more than once.
func (r *Registry) Duplicates() []Duplicate {
	if !r.readable() {
		return nil
	}
	r.Seal()

	r.mu.Lock()
	defer r.mu.Unlock()

	return findDuplicates(r.permissions)
}

func (r *Registry) materialize() {
	r.mu.Lock()
	callbacks := append([]func(*Registry){}, r.callbacks...)
	sources := append([]Source{}, r.sources...)
	r.mu.Unlock()

	for _, fn := range callbacks {
		view := &Registry{logger: r.logger, loading: true}
		fn(view)

		r.mu.Lock()
		r.permissions = append(r.permissions, view.permissions...)
		r.mu.Unlock()
	}

	for _, src := range sources {
		for _, c := range src() {
			_ = r.Register(c.Owner, c.Definitions...)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sort.SliceStable(r.permissions, func(i, j int) bool {
		return r.permissions[i].Order < r.permissions[j].Order
	})
	r.sealed = true

	for _, d := range findDuplicates(r.permissions) {
		r.logger.Warn(
			"duplicate permission registered",
			slog.String("owner", d.Owner),
			slog.String("code", d.Code),
			slog.Int("count", d.Count),
		)
	}
}

func newPermission(
	owner string,
	def Definition,
) Permission {
	p := Permission{
		Code:    def.Code,
		Owner:   owner,
		Label:   def.Label,
		Comment: def.Comment,
		Tab:     def.Tab,
		Order:   DefaultOrder,
	}
	if def.Order != nil {
		p.Order = *def.Order
	}
	if p.Tab == "" {
		p.Tab = DefaultTab
	}
	if len(def.Roles) > 0 {
		p.Roles = append([]string(nil), def.Roles...)
	}

	return p
}

func buildRoleIndex(
	permissions []Permission,
) map[string]map[string]bool {
	index := make(map[string]map[string]bool)
	add := func(role string, code string) {
		if index[role] == nil {
			index[role] = make(map[string]bool)
		}
		index[role][code] = true
	}

	for _, p := range permissions {
		if p.IsOrphan() {
			add(WildcardRole, p.Code)
			continue
		}
		for _, role := range p.Roles {
			add(role, p.Code)
		}
	}

	return index
}

func findDuplicates(
	permissions []Permission,
) []Duplicate {
	type key struct{ owner, code string }

	counts := make(map[key]int)
	var order []key
	for _, p := range permissions {
		k := key{p.Owner, p.Code}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}

	var out []Duplicate
	for _, k := range order {
		if counts[k] > 1 {
			out = append(out, Duplicate{Owner: k.owner, Code: k.code, Count: counts[k]})
		}
	}

	return out
}
