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

// Package permission holds the backend permission registry.
package permission

// Defaults applied to a Definition when it is registered.
const (
	// DefaultOrder is the sort order for definitions that do not set one.
	DefaultOrder = 500
	// DefaultTab groups definitions that do not name a tab.
	DefaultTab = "Misc"
	// WildcardRole is the role index bucket for definitions without roles.
	WildcardRole = "*"
)

// Definition is a partial permission as supplied by a module or plugin.
// Zero values are replaced by defaults on registration.
type Definition struct {
	Code    string   `yaml:"code"`
	Label   string   `yaml:"label"`
	Comment string   `yaml:"comment"`
	Tab     string   `yaml:"tab"`
	Roles   []string `yaml:"roles"`
	Order   *int     `yaml:"order"`
}

// Permission is a registered definition tagged with its owner.
type Permission struct {
	Code    string
	Owner   string
	Label   string
	Comment string
	Tab     string
	// Roles is nil for orphan permissions, which every role receives unless
	// orphans are excluded.
	Roles []string
	Order int
}

// IsOrphan reports whether the permission is not scoped to any role.
func (p Permission) IsOrphan() bool {
	return len(p.Roles) == 0
}

// Contribution is a batch of definitions supplied by one owner.
type Contribution struct {
	Owner       string
	Definitions []Definition
}

// Source supplies contributions when the registry is materialized, e.g. the
// installed plugins.
type Source func() []Contribution

// TabGroup is a tab and its permissions in sorted order.
type TabGroup struct {
	Tab         string
	Permissions []Permission
}

// Duplicate reports a code registered more than once under the same owner.
type Duplicate struct {
	Owner string
	Code  string
	Count int
}

// Order returns a pointer to n for use in Definition literals.
func Order(
	n int,
) *int {
	return &n
}
