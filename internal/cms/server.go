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

// Package cms serves theme pages for URLs the backend does not handle.
package cms

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/retr0h/backoffice/internal/view"
)

// NotFoundURL is the page rendered with a 404 status for unknown URLs.
const NotFoundURL = "/404"

// settingsSeparator divides the page settings from the page markup.
const settingsSeparator = "=="

// ErrNotFound is returned when neither the page nor a 404 page exists.
var ErrNotFound = errors.New("cms page not found")

// Page is a theme page.
type Page struct {
	URL    string `yaml:"url"`
	Layout string `yaml:"layout"`
	Title  string `yaml:"title"`
	// File is the page file below the theme.
	File   string `yaml:"-"`
	markup string
}

// Server renders the pages of one theme. Pages live in
// "<root>/<theme>/pages", layouts in "<root>/<theme>/layouts" and partials
// in "<root>/<theme>/partials".
type Server struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	fs       afero.Fs
	themeDir string
	views    *view.Renderer
	pages    map[string]*Page
}

// New creates a Server for theme below root.
func New(
	logger *slog.Logger,
	fsys afero.Fs,
	root string,
	theme string,
) *Server {
	return &Server{
		logger:   logger.With(slog.String("subsystem", "cms")),
		fs:       fsys,
		themeDir: path.Join(root, theme),
		views:    view.New(logger, fsys),
		pages:    make(map[string]*Page),
	}
}

// Load reads every page of the theme. Pages without a url setting are
// served at their file path, so "pages/blog/index.htm" serves "/blog".
func (s *Server) Load() error {
	dir := path.Join(s.themeDir, "pages")
	if ok, _ := afero.DirExists(s.fs, dir); !ok {
		s.logger.Debug("theme has no pages", slog.String("path", dir))
		return nil
	}

	pages := make(map[string]*Page)
	err := afero.Walk(s.fs, dir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || path.Ext(file) != view.Extension {
			return nil
		}

		page, err := s.parse(dir, file)
		if err != nil {
			return err
		}
		if existing, ok := pages[page.URL]; ok {
			return fmt.Errorf("pages %q and %q share url %q", existing.File, page.File, page.URL)
		}
		pages[page.URL] = page

		return nil
	})
	if err != nil {
		return fmt.Errorf("load cms pages: %w", err)
	}

	s.mu.Lock()
	s.pages = pages
	s.mu.Unlock()

	s.logger.Info("loaded cms pages", slog.Int("count", len(pages)))

	return nil
}

// URLs returns the URLs of the loaded pages, sorted.
func (s *Server) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls := make([]string, 0, len(s.pages))
	for u := range s.pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	return urls
}

// Find returns the page served at url.
func (s *Server) Find(
	url string,
) (*Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pages[cleanURL(url)]
	return p, ok
}

// Render renders the page at url and returns it with its status. Unknown
// URLs render the 404 page with a 404 status.
func (s *Server) Render(
	url string,
) (string, int, error) {
	if page, ok := s.Find(url); ok {
		out, err := s.render(page, url)
		return out, http.StatusOK, err
	}

	if page, ok := s.Find(NotFoundURL); ok {
		out, err := s.render(page, url)
		return out, http.StatusNotFound, err
	}

	return "", http.StatusNotFound, ErrNotFound
}

func (s *Server) render(
	page *Page,
	url string,
) (string, error) {
	scope := s.views.Scope(
		[]string{path.Join(s.themeDir, "layouts"), path.Join(s.themeDir, "partials")},
		nil,
	)

	vars := map[string]any{
		"page":  page,
		"title": page.Title,
		"url":   url,
	}

	body, err := scope.RenderSource(page.File, page.markup, vars)
	if err != nil {
		return "", err
	}

	if page.Layout == "" {
		return body, nil
	}

	vars["body"] = template.HTML(body) //nolint:gosec
	return scope.Render(page.Layout, vars)
}

func (s *Server) parse(
	dir string,
	file string,
) (*Page, error) {
	data, err := afero.ReadFile(s.fs, file)
	if err != nil {
		return nil, fmt.Errorf("read page %q: %w", file, err)
	}

	page := &Page{}
	markup := data
	if settings, rest, ok := bytes.Cut(data, []byte("\n"+settingsSeparator+"\n")); ok {
		if err := yaml.Unmarshal(settings, page); err != nil {
			return nil, fmt.Errorf("parse page settings %q: %w", file, err)
		}
		markup = rest
	}

	page.File = strings.TrimPrefix(file, s.themeDir+"/")
	page.markup = string(markup)

	if page.URL == "" {
		rel := strings.TrimSuffix(strings.TrimPrefix(file, dir), view.Extension)
		page.URL = strings.TrimSuffix(rel, "/index")
	}
	page.URL = cleanURL(page.URL)

	return page, nil
}

func cleanURL(
	url string,
) string {
	url = "/" + strings.Trim(url, "/")
	return path.Clean(url)
}
