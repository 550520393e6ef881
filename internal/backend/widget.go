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

package backend

// Widget is a component bound to a controller for one request, exposing
// its own handlers.
type Widget interface {
	// Alias is the name the widget is bound under.
	Alias() string
	// Handler returns the named handler of the widget.
	Handler(name string) (HandlerFunc, bool)
	// Vars are merged into the controller view variables when one of the
	// widget handlers runs.
	Vars() map[string]any
	// ViewPaths are appended to the controller view paths when one of the
	// widget handlers runs.
	ViewPaths() []string
}

// BaseWidget is a Widget built from handler functions.
type BaseWidget struct {
	alias     string
	handlers  map[string]HandlerFunc
	vars      map[string]any
	viewPaths []string
}

// NewWidget creates a widget bound under alias.
func NewWidget(
	alias string,
	viewPaths ...string,
) *BaseWidget {
	return &BaseWidget{
		alias:     alias,
		handlers:  make(map[string]HandlerFunc),
		vars:      make(map[string]any),
		viewPaths: viewPaths,
	}
}

// On declares a handler.
func (w *BaseWidget) On(
	name string,
	fn HandlerFunc,
) *BaseWidget {
	w.handlers[name] = fn
	return w
}

// Set assigns a widget variable.
func (w *BaseWidget) Set(
	key string,
	value any,
) *BaseWidget {
	w.vars[key] = value
	return w
}

// Alias returns the alias of the widget.
func (w *BaseWidget) Alias() string {
	return w.alias
}

// Handler returns the named handler.
func (w *BaseWidget) Handler(
	name string,
) (HandlerFunc, bool) {
	fn, ok := w.handlers[name]
	return fn, ok
}

// Vars returns the widget variables.
func (w *BaseWidget) Vars() map[string]any {
	return w.vars
}

// ViewPaths returns the widget view paths.
func (w *BaseWidget) ViewPaths() []string {
	return w.viewPaths
}
