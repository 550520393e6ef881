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

	"github.com/retr0h/backoffice/internal/backend"
)

type HandlerPublicTestSuite struct {
	suite.Suite
}

func (s *HandlerPublicTestSuite) TestValidHandlerName() {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "page handler", input: "onSave", want: true},
		{name: "widget handler", input: "widgetAlias::onDelete", want: true},
		{name: "digits and underscores", input: "on_x::onSave2_all", want: true},
		{name: "lowercase after on", input: "onsave", want: false},
		{name: "missing on prefix", input: "notAHandler", want: false},
		{name: "bare on", input: "on", want: false},
		{name: "empty alias", input: "::onSave", want: false},
		{name: "trailing garbage", input: "onSave()", want: false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, backend.ValidHandlerName(tt.input))
		})
	}
}

func (s *HandlerPublicTestSuite) TestValidPartialName() {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "simple", input: "list", want: true},
		{name: "hyphen and digits", input: "my_list-1", want: true},
		{name: "nested", input: "list/toolbar", want: true},
		{name: "double slash", input: "a//b", want: false},
		{name: "leading hyphen", input: "-bad", want: false},
		{name: "uppercase", input: "List", want: false},
		{name: "leading slash", input: "/list", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, backend.ValidPartialName(tt.input))
		})
	}
}

func (s *HandlerPublicTestSuite) TestParsePartialList() {
	tests := []struct {
		name    string
		header  string
		want    []string
		wantErr bool
	}{
		{
			name:   "empty header",
			header: "",
		},
		{
			name:   "ampersand separated",
			header: "list&toolbar",
			want:   []string{"list", "toolbar"},
		},
		{
			name:   "empty items are skipped",
			header: "&list&&",
			want:   []string{"list"},
		},
		{
			name:    "one invalid item fails the list",
			header:  "list&a//b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := backend.ParsePartialList(tt.header)

			if tt.wantErr {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func TestHandlerPublicTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerPublicTestSuite))
}
