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

// Package view renders views and partials found on a list of view paths.
package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Extension is the file extension of views and partials.
const Extension = ".htm"

// ErrNotFound is returned when no view path holds the requested template.
var ErrNotFound = errors.New("view not found")

// Renderer loads templates from a filesystem.
type Renderer struct {
	fs     afero.Fs
	logger *slog.Logger
	funcs  template.FuncMap
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFuncs adds template functions available to every render.
func WithFuncs(
	funcs template.FuncMap,
) Option {
	return func(r *Renderer) {
		for k, v := range funcs {
			r.funcs[k] = v
		}
	}
}

// New creates a Renderer over fsys.
func New(
	logger *slog.Logger,
	fsys afero.Fs,
	opts ...Option,
) *Renderer {
	r := &Renderer{
		fs:     fsys,
		logger: logger.With(slog.String("subsystem", "view")),
		funcs:  template.FuncMap{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Fs returns the filesystem the renderer reads from.
func (r *Renderer) Fs() afero.Fs {
	return r.fs
}

// Scope returns a view scope searching paths in order, with extra
// template functions for this scope only.
func (r *Renderer) Scope(
	paths []string,
	funcs template.FuncMap,
) *Scope {
	merged := make(template.FuncMap, len(r.funcs)+len(funcs)+1)
	for k, v := range r.funcs {
		merged[k] = v
	}
	for k, v := range funcs {
		merged[k] = v
	}

	return &Scope{
		r:     r,
		paths: append([]string(nil), paths...),
		funcs: merged,
	}
}

// Scope renders views from an ordered list of view paths.
type Scope struct {
	r     *Renderer
	paths []string
	funcs template.FuncMap
}

// Paths returns the view paths of the scope.
func (s *Scope) Paths() []string {
	return append([]string(nil), s.paths...)
}

// Locate returns the first file named name on the view paths.
func (s *Scope) Locate(
	name string,
) (string, bool) {
	for _, dir := range s.paths {
		file := path.Join(dir, name)
		if ok, _ := afero.Exists(s.r.fs, file); ok {
			return file, true
		}
	}

	return "", false
}

// Render renders the view "<name>.htm".
func (s *Scope) Render(
	name string,
	vars map[string]any,
) (string, error) {
	file, ok := s.Locate(name + Extension)
	if !ok {
		return "", fmt.Errorf("%w: %q in %v", ErrNotFound, name, s.paths)
	}

	return s.renderFile(file, vars)
}

// RenderPartial renders the partial name, stored with a leading
// underscore, so "list/toolbar" reads "list/_toolbar.htm".
func (s *Scope) RenderPartial(
	name string,
	vars map[string]any,
) (string, error) {
	file, ok := s.Locate(PartialFile(name))
	if !ok {
		return "", fmt.Errorf("%w: partial %q in %v", ErrNotFound, name, s.paths)
	}

	return s.renderFile(file, vars)
}

// HasPartial reports whether the partial exists on the view paths.
func (s *Scope) HasPartial(
	name string,
) bool {
	_, ok := s.Locate(PartialFile(name))
	return ok
}

// PartialFile returns the file name of a partial.
func PartialFile(
	name string,
) string {
	dir, base := path.Split(strings.TrimPrefix(name, "/"))
	return dir + "_" + base + Extension
}

func (s *Scope) renderFile(
	file string,
	vars map[string]any,
) (string, error) {
	src, err := afero.ReadFile(s.r.fs, file)
	if err != nil {
		return "", fmt.Errorf("read view %q: %w", file, err)
	}

	return s.RenderSource(file, string(src), vars)
}

// RenderSource renders template source that did not come from a view
// path, such as the body of a CMS page. name is used in errors.
func (s *Scope) RenderSource(
	name string,
	src string,
	vars map[string]any,
) (string, error) {
	funcs := make(template.FuncMap, len(s.funcs)+1)
	for k, v := range s.funcs {
		funcs[k] = v
	}
	funcs["partial"] = func(partial string, extra ...map[string]any) (template.HTML, error) {
		merged := make(map[string]any, len(vars))
		for k, v := range vars {
			merged[k] = v
		}
		for _, e := range extra {
			for k, v := range e {
				merged[k] = v
			}
		}

		out, err := s.RenderPartial(partial, merged)
		// Rendered output was escaped by its own template.
		return template.HTML(out), err //nolint:gosec
	}

	tmpl, err := template.New(path.Base(name)).Funcs(funcs).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse view %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render view %q: %w", name, err)
	}

	s.r.logger.Debug("rendered view", slog.String("file", name))

	return buf.String(), nil
}

// Mount copies the files of src below root on dst.
func Mount(
	dst afero.Fs,
	root string,
	src fs.FS,
) error {
	return fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		target := path.Join(root, p)
		if d.IsDir() {
			return dst.MkdirAll(target, 0o755)
		}

		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}

		return afero.WriteFile(dst, target, data, 0o644)
	})
}
