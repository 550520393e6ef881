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

// Package lang translates namespaced message keys such as
// "backend::lang.page.untitled" into the active locale.
package lang

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Translator holds message catalogs per locale.
type Translator struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	fallback string
	catalogs map[string]map[string]string
	matcher  language.Matcher
	tags     []language.Tag
}

// New creates a Translator falling back to the given locale.
func New(
	logger *slog.Logger,
	fallback string,
) (*Translator, error) {
	tag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("parse fallback locale %q: %w", fallback, err)
	}

	t := &Translator{
		logger:   logger.With(slog.String("subsystem", "lang")),
		fallback: tag.String(),
		catalogs: make(map[string]map[string]string),
	}
	t.rebuildMatcher()

	return t, nil
}

// Fallback returns the fallback locale.
func (t *Translator) Fallback() string {
	return t.fallback
}

// Load reads every "<dir>/<locale>/<group>.yaml" file from fsys and
// registers its messages as "<namespace>::<group>.<path>".
func (t *Translator) Load(
	fsys afero.Fs,
	namespace string,
	dir string,
) error {
	if ok, _ := afero.DirExists(fsys, dir); !ok {
		t.logger.Debug("no lang directory", slog.String("dir", dir))
		return nil
	}

	locales, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read lang dir %q: %w", dir, err)
	}

	for _, locale := range locales {
		if !locale.IsDir() {
			continue
		}

		localeDir := path.Join(dir, locale.Name())
		files, err := afero.ReadDir(fsys, localeDir)
		if err != nil {
			return fmt.Errorf("read lang dir %q: %w", localeDir, err)
		}

		for _, f := range files {
			ext := path.Ext(f.Name())
			if f.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}

			data, err := afero.ReadFile(fsys, path.Join(localeDir, f.Name()))
			if err != nil {
				return fmt.Errorf("read lang file: %w", err)
			}

			var messages map[string]any
			if err := yaml.Unmarshal(data, &messages); err != nil {
				return fmt.Errorf("parse lang file %q: %w", path.Join(localeDir, f.Name()), err)
			}

			group := strings.TrimSuffix(f.Name(), ext)
			if err := t.Add(locale.Name(), namespace+"::"+group, messages); err != nil {
				return err
			}
		}
	}

	return nil
}

// Add registers nested messages for locale under prefix.
func (t *Translator) Add(
	locale string,
	prefix string,
	messages map[string]any,
) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}

	flat := make(map[string]string)
	flatten(prefix, messages, flat)

	t.mu.Lock()
	defer t.mu.Unlock()

	catalog, ok := t.catalogs[tag.String()]
	if !ok {
		catalog = make(map[string]string, len(flat))
		t.catalogs[tag.String()] = catalog
	}
	for k, v := range flat {
		catalog[k] = v
	}
	t.rebuildMatcher()

	return nil
}

// Get translates key for locale, replacing ":name" placeholders. Missing
// keys fall back to the base language, then the fallback locale, and
// finally to the key itself.
func (t *Translator) Get(
	locale string,
	key string,
	replace map[string]string,
) string {
	t.mu.RLock()
	msg, ok := t.lookup(locale, key)
	t.mu.RUnlock()

	if !ok {
		return key
	}

	if len(replace) == 0 {
		return msg
	}

	// Longer names first so ":name" does not clobber ":names".
	names := make([]string, 0, len(replace))
	for name := range replace {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	for _, name := range names {
		msg = strings.ReplaceAll(msg, ":"+name, replace[name])
	}

	return msg
}

// Has reports whether key is translated in locale or a fallback.
func (t *Translator) Has(
	locale string,
	key string,
) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.lookup(locale, key)
	return ok
}

// Match returns the best supported locale for the given preferences, which
// may be locale codes or Accept-Language header values.
func (t *Translator) Match(
	preferences ...string,
) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, idx := language.MatchStrings(t.matcher, preferences...)
	return t.tags[idx].String()
}

// Locales returns the locales with a catalog, sorted.
func (t *Translator) Locales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.catalogs))
	for locale := range t.catalogs {
		out = append(out, locale)
	}
	sort.Strings(out)

	return out
}

func (t *Translator) lookup(
	locale string,
	key string,
) (string, bool) {
	for _, candidate := range t.candidates(locale) {
		if msg, ok := t.catalogs[candidate][key]; ok {
			return msg, true
		}
	}

	return "", false
}

func (t *Translator) candidates(
	locale string,
) []string {
	out := make([]string, 0, 3)

	if tag, err := language.Parse(locale); err == nil {
		out = append(out, tag.String())
		if base, conf := tag.Base(); conf != language.No && base.String() != tag.String() {
			out = append(out, base.String())
		}
	}

	return append(out, t.fallback)
}

// rebuildMatcher must be called with the write lock held.
func (t *Translator) rebuildMatcher() {
	others := make([]string, 0, len(t.catalogs))
	for locale := range t.catalogs {
		if locale != t.fallback {
			others = append(others, locale)
		}
	}
	sort.Strings(others)

	// The first tag is the matcher default.
	tags := []language.Tag{language.MustParse(t.fallback)}
	for _, locale := range others {
		tags = append(tags, language.MustParse(locale))
	}

	t.tags = tags
	t.matcher = language.NewMatcher(tags)
}

func flatten(
	prefix string,
	in map[string]any,
	out map[string]string,
) {
	for k, v := range in {
		key := prefix + "." + k
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
