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

package backend_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/backoffice/internal/apperr"
	"github.com/retr0h/backoffice/internal/backend"
)

type ControllerPublicTestSuite struct {
	suite.Suite
}

func noopAction(*backend.Controller, []string) (any, error) {
	return nil, nil
}

type requiringBehavior struct {
	extended bool
}

func (b *requiringBehavior) Name() string {
	return "ListController"
}

func (b *requiringBehavior) RequiredProperties() []string {
	return []string{"listConfig"}
}

func (b *requiringBehavior) Extend(
	c *backend.Controller,
) error {
	b.extended = true
	c.ExtensionAction("index", noopAction)
	c.ExtensionAction("export", noopAction)
	return nil
}

func (s *ControllerPublicTestSuite) TestActionExists() {
	c, err := backend.New("acme/blog/posts", "", func(c *backend.Controller) error {
		c.Action("index", noopAction)
		c.Action("update", noopAction)
		c.Action("Preview", noopAction)
		c.Action("_partial", noopAction)
		c.InternalAction("reorder", noopAction)
		c.AddHiddenActions("UPDATE")
		return nil
	})
	s.Require().NoError(err)

	tests := []struct {
		name          string
		action        string
		allowInternal bool
		want          bool
	}{
		{name: "declared action", action: "index", want: true},
		{name: "empty name", action: "", want: false},
		{name: "leading underscore", action: "_partial", want: false},
		{name: "uppercase", action: "Preview", want: false},
		{name: "hidden case insensitively", action: "update", want: false},
		{name: "internal without allowance", action: "reorder", want: false},
		{name: "internal with allowance", action: "reorder", allowInternal: true, want: true},
		{name: "undeclared", action: "missing", allowInternal: true, want: false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, c.ActionExists(tt.action, tt.allowInternal))
		})
	}
}

func (s *ControllerPublicTestSuite) TestExtend() {
	tests := []struct {
		name         string
		setProperty  bool
		wantErr      bool
		wantKinds    map[string]backend.ActionKind
		wantExtended bool
	}{
		{
			name:    "missing required property",
			wantErr: true,
		},
		{
			name:        "behavior adds actions without overriding",
			setProperty: true,
			wantKinds: map[string]backend.ActionKind{
				"index":  backend.ActionPublic,
				"export": backend.ActionExtension,
			},
			wantExtended: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			b := &requiringBehavior{}
			_, err := backend.New("acme/blog/posts", "", func(c *backend.Controller) error {
				c.Action("index", noopAction)
				if tt.setProperty {
					c.SetProperty("listConfig", "config_list.yaml")
				}
				if err := c.Extend(b); err != nil {
					return err
				}
				for action, kind := range tt.wantKinds {
					s.Equal(kind, c.ActionKind(action), action)
				}
				s.Len(c.Behaviors(), 1)
				return nil
			})

			if tt.wantErr {
				var cfgErr *apperr.ConfigurationError
				s.ErrorAs(err, &cfgErr)
				s.False(b.extended)
				return
			}
			s.NoError(err)
			s.Equal(tt.wantExtended, b.extended)
		})
	}
}

func (s *ControllerPublicTestSuite) TestBindWidgetReplacesInPlace() {
	c, err := backend.New("acme/blog/posts", "", nil)
	s.Require().NoError(err)

	first := backend.NewWidget("list")
	c.BindWidget(first)
	c.BindWidget(backend.NewWidget("filter"))
	replacement := backend.NewWidget("list")
	c.BindWidget(replacement)

	widgets := c.Widgets()
	s.Require().Len(widgets, 2)
	s.Same(replacement, widgets[0])
	s.Equal("filter", widgets[1].Alias())

	got, ok := c.Widget("list")
	s.True(ok)
	s.Same(replacement, got)

	_, ok = c.Widget("toolbar")
	s.False(ok)
}

func (s *ControllerPublicTestSuite) TestViewPathsAreUnique() {
	c, err := backend.New("acme/blog/posts", "/views/posts", nil)
	s.Require().NoError(err)

	c.AddViewPath("/views/widgets", "/views/posts")
	c.AddViewPath("/views/widgets")

	s.Equal([]string{"/views/posts", "/views/widgets"}, c.ViewPaths())
}

func (s *ControllerPublicTestSuite) TestActionKindString() {
	s.Equal("none", backend.ActionNone.String())
	s.Equal("public", backend.ActionPublic.String())
	s.Equal("internal", backend.ActionInternal.String())
	s.Equal("extension", backend.ActionExtension.String())
}

func TestControllerPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerPublicTestSuite))
}
