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

package auth

import (
	"github.com/retr0h/backoffice/internal/permission"
)

// Roles resolves role codes into granted permission codes.
type Roles struct {
	registry *permission.Registry
	roles    map[string]Role
}

// NewRoles creates a resolver over the configured roles. The registry is
// consulted for system roles only.
func NewRoles(
	registry *permission.Registry,
	roles []Role,
) *Roles {
	byCode := make(map[string]Role, len(roles))
	for _, r := range roles {
		byCode[r.Code] = r
	}

	return &Roles{
		registry: registry,
		roles:    byCode,
	}
}

// Find returns the role with the given code.
func (r *Roles) Find(
	code string,
) (Role, bool) {
	role, ok := r.roles[code]
	return role, ok
}

// Permissions returns the codes granted by the role. Unknown roles grant
// nothing.
func (r *Roles) Permissions(
	code string,
) map[string]bool {
	granted := map[string]bool{}

	role, ok := r.roles[code]
	if !ok {
		return granted
	}

	for _, p := range role.Permissions {
		granted[p] = true
	}

	if role.System && r.registry != nil {
		for p := range r.registry.ListForRole(role.Code, role.IncludeOrphans) {
			granted[p] = true
		}
	}

	return granted
}
