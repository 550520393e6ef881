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

package view_test

import (
	"html/template"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/backoffice/internal/view"
)

type RendererPublicTestSuite struct {
	suite.Suite

	fs  afero.Fs
	sut *view.Renderer
}

func (s *RendererPublicTestSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()

	files := map[string]string{
		"/widgets/list/_list.htm":       `<ul>{{ range .items }}<li>{{ . }}</li>{{ end }}</ul>`,
		"/controllers/posts/index.htm":  `<h1>{{ .title }}</h1>{{ partial "list" }}`,
		"/controllers/posts/_list.htm":  `<ol>{{ len .items }}</ol>`,
		"/controllers/posts/edit.htm":   `{{ shout .title }}`,
		"/controllers/posts/x/_row.htm": `<tr>{{ .id }}</tr>`,
		"/controllers/posts/broken.htm": `{{ .title `,
		"/controllers/posts/nested.htm": `{{ partial "x/row" (dict "id" 7) }}`,
	}
	for name, body := range files {
		s.Require().NoError(afero.WriteFile(s.fs, name, []byte(body), 0o644))
	}

	s.sut = view.New(slog.Default(), s.fs, view.WithFuncs(template.FuncMap{
		"shout": strings.ToUpper,
	}))
}

func (s *RendererPublicTestSuite) TestRender() {
	dict := template.FuncMap{
		"dict": func(kv ...any) map[string]any {
			m := map[string]any{}
			for i := 0; i+1 < len(kv); i += 2 {
				m[kv[i].(string)] = kv[i+1]
			}
			return m
		},
	}

	tests := []struct {
		name        string
		paths       []string
		view        string
		vars        map[string]any
		want        string
		expectError bool
		errContains string
	}{
		{
			name:  "when view renders a partial from the same path",
			paths: []string{"/controllers/posts", "/widgets/list"},
			view:  "index",
			vars:  map[string]any{"title": "Posts", "items": []string{"a", "b"}},
			want:  "<h1>Posts</h1><ol>2</ol>",
		},
		{
			name:  "when renderer funcs are available",
			paths: []string{"/controllers/posts"},
			view:  "edit",
			vars:  map[string]any{"title": "hello"},
			want:  "HELLO",
		},
		{
			name:  "when partial gets extra vars and lives in a subdirectory",
			paths: []string{"/controllers/posts"},
			view:  "nested",
			want:  "<tr>7</tr>",
		},
		{
			name:        "when view is missing",
			paths:       []string{"/controllers/posts"},
			view:        "missing",
			expectError: true,
			errContains: "view not found",
		},
		{
			name:        "when view does not parse",
			paths:       []string{"/controllers/posts"},
			view:        "broken",
			expectError: true,
			errContains: "parse view",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := s.sut.Scope(tt.paths, dict).Render(tt.view, tt.vars)
			if tt.expectError {
				s.Error(err)
				s.Contains(err.Error(), tt.errContains)
				return
			}
			s.NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func (s *RendererPublicTestSuite) TestRenderPartialPathOrder() {
	vars := map[string]any{"items": []string{"a"}}

	got, err := s.sut.Scope([]string{"/widgets/list", "/controllers/posts"}, nil).RenderPartial("list", vars)
	s.NoError(err)
	s.Equal("<ul><li>a</li></ul>", got)

	got, err = s.sut.Scope([]string{"/controllers/posts", "/widgets/list"}, nil).RenderPartial("list", vars)
	s.NoError(err)
	s.Equal("<ol>1</ol>", got)
}

func (s *RendererPublicTestSuite) TestHasPartial() {
	scope := s.sut.Scope([]string{"/controllers/posts"}, nil)

	s.True(scope.HasPartial("list"))
	s.True(scope.HasPartial("x/row"))
	s.False(scope.HasPartial("index"))
	s.Equal([]string{"/controllers/posts"}, scope.Paths())
}

func (s *RendererPublicTestSuite) TestPartialFile() {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "when plain name", in: "list", want: "_list.htm"},
		{name: "when nested name", in: "list/toolbar", want: "list/_toolbar.htm"},
		{name: "when leading slash", in: "/list", want: "_list.htm"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, view.PartialFile(tt.in))
		})
	}
}

func (s *RendererPublicTestSuite) TestMount() {
	src := fstest.MapFS{
		"views/index.htm":   {Data: []byte("hi")},
		"lang/en/lang.yaml": {Data: []byte("a: b")},
	}

	s.NoError(view.Mount(s.fs, "/modules/backend", src))

	data, err := afero.ReadFile(s.fs, "/modules/backend/views/index.htm")
	s.NoError(err)
	s.Equal("hi", string(data))

	ok, err := afero.Exists(s.fs, "/modules/backend/lang/en/lang.yaml")
	s.NoError(err)
	s.True(ok)
}

func TestRendererPublicTestSuite(t *testing.T) {
	suite.Run(t, new(RendererPublicTestSuite))
}
