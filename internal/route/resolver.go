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

package route

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/retr0h/backoffice/internal/backend"
	"github.com/retr0h/backoffice/internal/plugin"
)

// Resolver turns backend URL paths into controllers.
type Resolver struct {
	logger  *slog.Logger
	locator Locator
	plugins PluginChecker
}

// NewResolver creates a Resolver. plugins may be nil when no plugins are
// installed.
func NewResolver(
	logger *slog.Logger,
	locator Locator,
	plugins PluginChecker,
) *Resolver {
	return &Resolver{
		logger:  logger.With(slog.String("subsystem", "route")),
		locator: locator,
		plugins: plugins,
	}
}

// Resolve resolves p, the path below the backend URI. It tries
// "module/controller/action/params..." and then
// "author/plugin/controller/action/params...". A nil Match means nothing
// could serve the path.
func (r *Resolver) Resolve(
	p string,
) (*Match, error) {
	p = strings.Trim(p, "/")
	if !safePath(p) {
		r.logger.Debug("rejected unsafe route", slog.String("path", p))
		return nil, nil
	}

	var segments []string
	if p != "" {
		segments = strings.Split(p, "/")
	}

	module := strings.ToLower(segment(segments, 0, DefaultModule))
	controller := strings.ToLower(segment(segments, 1, DefaultController))
	action := ParseAction(segment(segments, 2, DefaultAction))

	m, err := r.find(module, module+"/"+controller, action, tail(segments, 3))
	if err != nil || m != nil {
		return m, err
	}

	if len(segments) < 2 {
		return nil, nil
	}

	id := plugin.IdentifierFor(segments[0], segments[1])
	if r.plugins != nil && r.plugins.IsDisabled(id) {
		return nil, fmt.Errorf("%w: %s", ErrPluginDisabled, id)
	}

	controller = strings.ToLower(segment(segments, 2, DefaultController))
	action = ParseAction(segment(segments, 3, DefaultAction))
	key := strings.ToLower(segments[0] + "/" + segments[1] + "/" + controller)

	return r.find(id, key, action, tail(segments, 4))
}

// find builds the controller registered under key and matches it when
// action exists.
func (r *Resolver) find(
	namespace string,
	key string,
	action string,
	params []string,
) (*Match, error) {
	if !safePath(key) {
		return nil, nil
	}

	entry, ok := r.locator.Locate(key)
	if !ok {
		return nil, nil
	}

	c, err := backend.New(entry.Name, entry.ViewPath, entry.Constructor)
	if err != nil {
		return nil, err
	}

	if !c.ActionExists(action, false) {
		r.logger.Debug(
			"action not found",
			slog.String("controller", entry.Name),
			slog.String("action", action),
		)
		return nil, nil
	}

	return &Match{
		Namespace:  namespace,
		Controller: c,
		Action:     action,
		Params:     params,
	}, nil
}

// ParseAction maps a URL segment to an action name: "sign-in" becomes
// "sign_in".
func ParseAction(
	s string,
) string {
	return strings.ReplaceAll(s, "-", "_")
}

// safePath rejects paths that could escape the controller namespace.
func safePath(
	p string,
) bool {
	return !strings.Contains(p, "..") &&
		!strings.Contains(p, "./") &&
		!strings.Contains(p, "//")
}

func segment(
	segments []string,
	i int,
	fallback string,
) string {
	if i < len(segments) && segments[i] != "" {
		return segments[i]
	}

	return fallback
}

func tail(
	segments []string,
	from int,
) []string {
	if from >= len(segments) {
		return []string{}
	}

	return append([]string(nil), segments[from:]...)
}
