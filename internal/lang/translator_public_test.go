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

package lang_test

import (
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/backoffice/internal/lang"
)

type TranslatorPublicTestSuite struct {
	suite.Suite

	fs  afero.Fs
	sut *lang.Translator
}

func (s *TranslatorPublicTestSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()

	s.Require().NoError(afero.WriteFile(s.fs, "/lang/en/lang.yaml", []byte(`
page:
  untitled: Untitled
  access_denied:
    label: Access denied
ajax_handler:
  not_found: "AJAX handler ':name' was not found."
widget:
  not_bound: "A widget with class name ':name' has not been bound to the controller"
  not_bound_names: "Widgets :names are unbound"
`), 0o644))
	s.Require().NoError(afero.WriteFile(s.fs, "/lang/fr/lang.yaml", []byte(`
page:
  untitled: Sans titre
`), 0o644))
	s.Require().NoError(afero.WriteFile(s.fs, "/lang/fr/README.md", []byte(`ignored`), 0o644))

	t, err := lang.New(slog.Default(), "en")
	s.Require().NoError(err)
	s.Require().NoError(t.Load(s.fs, "backend", "/lang"))
	s.sut = t
}

func (s *TranslatorPublicTestSuite) TestGet() {
	tests := []struct {
		name    string
		locale  string
		key     string
		replace map[string]string
		want    string
	}{
		{
			name:   "when key exists in locale",
			locale: "fr",
			key:    "backend::lang.page.untitled",
			want:   "Sans titre",
		},
		{
			name:   "when region falls back to base language",
			locale: "fr-CA",
			key:    "backend::lang.page.untitled",
			want:   "Sans titre",
		},
		{
			name:   "when key missing in locale falls back",
			locale: "fr",
			key:    "backend::lang.page.access_denied.label",
			want:   "Access denied",
		},
		{
			name:   "when locale is unknown",
			locale: "xx-invalid-",
			key:    "backend::lang.page.untitled",
			want:   "Untitled",
		},
		{
			name:   "when key is missing everywhere",
			locale: "en",
			key:    "backend::lang.nope",
			want:   "backend::lang.nope",
		},
		{
			name:    "when placeholders are replaced",
			locale:  "en",
			key:     "backend::lang.ajax_handler.not_found",
			replace: map[string]string{"name": "onSave"},
			want:    "AJAX handler 'onSave' was not found.",
		},
		{
			name:    "when placeholder names share a prefix",
			locale:  "en",
			key:     "backend::lang.widget.not_bound_names",
			replace: map[string]string{"name": "x", "names": "list, form"},
			want:    "Widgets list, form are unbound",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, s.sut.Get(tt.locale, tt.key, tt.replace))
		})
	}
}

func (s *TranslatorPublicTestSuite) TestMatch() {
	tests := []struct {
		name        string
		preferences []string
		want        string
	}{
		{
			name:        "when preference is supported",
			preferences: []string{"fr"},
			want:        "fr",
		},
		{
			name:        "when accept-language header prefers french",
			preferences: []string{"fr-CH, fr;q=0.9, en;q=0.8"},
			want:        "fr",
		},
		{
			name:        "when nothing matches",
			preferences: []string{"ja"},
			want:        "en",
		},
		{
			name:        "when no preferences",
			preferences: nil,
			want:        "en",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, s.sut.Match(tt.preferences...))
		})
	}
}

func (s *TranslatorPublicTestSuite) TestLocalesAndHas() {
	s.Equal([]string{"en", "fr"}, s.sut.Locales())
	s.True(s.sut.Has("fr", "backend::lang.page.access_denied.label"))
	s.False(s.sut.Has("fr", "backend::lang.nope"))
}

func (s *TranslatorPublicTestSuite) TestLoadMissingDir() {
	s.NoError(s.sut.Load(s.fs, "acme", "/does/not/exist"))
}

func (s *TranslatorPublicTestSuite) TestLoadInvalidYAML() {
	s.Require().NoError(afero.WriteFile(s.fs, "/bad/en/lang.yaml", []byte("a: [unclosed"), 0o644))

	err := s.sut.Load(s.fs, "bad", "/bad")
	s.Error(err)
	s.Contains(err.Error(), "parse lang file")
}

func (s *TranslatorPublicTestSuite) TestNewInvalidFallback() {
	_, err := lang.New(slog.Default(), "not a locale!")
	s.Error(err)
}

func TestTranslatorPublicTestSuite(t *testing.T) {
	suite.Run(t, new(TranslatorPublicTestSuite))
}
