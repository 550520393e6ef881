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

package auth_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/permission"
)

type RolesPublicTestSuite struct {
	suite.Suite

	registry *permission.Registry
}

func (s *RolesPublicTestSuite) SetupTest() {
	s.registry = permission.New(slog.Default())
	s.Require().NoError(s.registry.Register(
		"Acme.Blog",
		permission.Definition{Code: "acme.blog.publish", Roles: []string{"publisher"}},
		permission.Definition{Code: "acme.blog.access_posts"},
	))
}

func (s *RolesPublicTestSuite) TestPermissions() {
	roles := auth.NewRoles(s.registry, []auth.Role{
		{Code: "publisher", Permissions: []string{"backend.access_dashboard"}, System: true},
		{Code: "developer", System: true, IncludeOrphans: true},
		{Code: "custom", Permissions: []string{"acme.blog.publish"}},
	})

	tests := []struct {
		name string
		role string
		want map[string]bool
	}{
		{
			name: "when system role without orphans",
			role: "publisher",
			want: map[string]bool{
				"backend.access_dashboard": true,
				"acme.blog.publish":        true,
			},
		},
		{
			name: "when system role with orphans",
			role: "developer",
			want: map[string]bool{
				"acme.blog.access_posts": true,
			},
		},
		{
			name: "when custom role ignores the registry",
			role: "custom",
			want: map[string]bool{
				"acme.blog.publish": true,
			},
		},
		{
			name: "when role is unknown",
			role: "ghost",
			want: map[string]bool{},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, roles.Permissions(tt.role))
		})
	}
}

func (s *RolesPublicTestSuite) TestFind() {
	roles := auth.NewRoles(nil, []auth.Role{{Code: "publisher", Name: "Publisher"}})

	role, ok := roles.Find("publisher")
	s.True(ok)
	s.Equal("Publisher", role.Name)

	_, ok = roles.Find("ghost")
	s.False(ok)
}

func TestRolesPublicTestSuite(t *testing.T) {
	suite.Run(t, new(RolesPublicTestSuite))
}
