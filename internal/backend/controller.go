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

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/backoffice/internal/apperr"
	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/session"
)

// ActionContext is the routing state of a controller for one request.
type ActionContext struct {
	Action              string
	Params              []string
	HiddenActions       map[string]bool
	PublicActions       map[string]bool
	RequiredPermissions []string
}

type action struct {
	fn   ActionFunc
	kind ActionKind
}

// Controller serves one backend request. Constructors declare its actions
// and handlers, then the Dispatcher runs it.
type Controller struct {
	name string
	ac   ActionContext

	actions    map[string]action
	handlers   map[string]HandlerFunc
	behaviors  []Behavior
	properties map[string]any

	widgets     []Widget
	widgetIndex map[string]int

	viewPaths     []string
	layoutPaths   []string
	layout        string
	vars          map[string]any
	pageTitle     string
	assets        []string
	statusCode    int
	suppressView  bool
	fatalError    error
	beforeDisplay []func(c *Controller) error

	svc     *Services
	echo    echo.Context
	session *session.Session
	auth    *auth.Session
	locale  string
}

// New builds a controller named name, e.g. "backend/auth" or
// "acme/blog/posts", whose views live in viewPath.
func New(
	name string,
	viewPath string,
	ctor Constructor,
) (*Controller, error) {
	c := &Controller{
		name: name,
		ac: ActionContext{
			HiddenActions: make(map[string]bool),
			PublicActions: make(map[string]bool),
		},
		actions:     make(map[string]action),
		handlers:    make(map[string]HandlerFunc),
		properties:  make(map[string]any),
		widgetIndex: make(map[string]int),
		layout:      "default",
		vars:        make(map[string]any),
		statusCode:  http.StatusOK,
	}

	if viewPath != "" {
		c.viewPaths = []string{viewPath}
	}

	if ctor != nil {
		if err := ctor(c); err != nil {
			return nil, fmt.Errorf("construct controller %s: %w", name, err)
		}
	}

	return c, nil
}

// Name returns the controller name.
func (c *Controller) Name() string {
	return c.name
}

// Action declares a routable page action.
func (c *Controller) Action(
	name string,
	fn ActionFunc,
) {
	c.actions[name] = action{fn: fn, kind: ActionPublic}
}

// InternalAction declares an action that is only callable internally.
func (c *Controller) InternalAction(
	name string,
	fn ActionFunc,
) {
	c.actions[name] = action{fn: fn, kind: ActionInternal}
}

// ExtensionAction declares a routable action on behalf of a behavior.
// Actions declared by the controller itself take precedence.
func (c *Controller) ExtensionAction(
	name string,
	fn ActionFunc,
) {
	if _, exists := c.actions[name]; exists {
		return
	}

	c.actions[name] = action{fn: fn, kind: ActionExtension}
}

// Handler declares a handler available to every action.
func (c *Controller) Handler(
	name string,
	fn HandlerFunc,
) {
	c.handlers[name] = fn
}

// ActionHandler declares a handler that only serves the given action. It
// takes precedence over a global handler of the same name.
func (c *Controller) ActionHandler(
	actionName string,
	name string,
	fn HandlerFunc,
) {
	c.handlers[actionName+"_"+name] = fn
}

// AddPublicActions lets guests reach the named actions.
func (c *Controller) AddPublicActions(
	names ...string,
) {
	for _, n := range names {
		c.ac.PublicActions[n] = true
	}
}

// AddHiddenActions makes the named actions unroutable.
func (c *Controller) AddHiddenActions(
	names ...string,
) {
	for _, n := range names {
		c.ac.HiddenActions[strings.ToLower(n)] = true
	}
}

// RequirePermissions restricts non-public actions to users holding at
// least one of the codes.
func (c *Controller) RequirePermissions(
	codes ...string,
) {
	c.ac.RequiredPermissions = append(c.ac.RequiredPermissions, codes...)
}

// BeforeDisplay registers a hook run after the gates pass and before any
// handler or action.
func (c *Controller) BeforeDisplay(
	fn func(c *Controller) error,
) {
	c.beforeDisplay = append(c.beforeDisplay, fn)
}

// SetProperty sets a controller property read by behaviors.
func (c *Controller) SetProperty(
	key string,
	value any,
) {
	c.properties[key] = value
}

// Property returns a controller property.
func (c *Controller) Property(
	key string,
) (any, bool) {
	v, ok := c.properties[key]
	return v, ok
}

// ActionContext returns a copy of the routing state.
func (c *Controller) ActionContext() ActionContext {
	out := ActionContext{
		Action:              c.ac.Action,
		Params:              append([]string(nil), c.ac.Params...),
		HiddenActions:       make(map[string]bool, len(c.ac.HiddenActions)),
		PublicActions:       make(map[string]bool, len(c.ac.PublicActions)),
		RequiredPermissions: append([]string(nil), c.ac.RequiredPermissions...),
	}
	for k, v := range c.ac.HiddenActions {
		out.HiddenActions[k] = v
	}
	for k, v := range c.ac.PublicActions {
		out.PublicActions[k] = v
	}

	return out
}

// ActionKind returns how the named action was declared.
func (c *Controller) ActionKind(
	name string,
) ActionKind {
	a, ok := c.actions[name]
	if !ok {
		return ActionNone
	}

	return a.kind
}

// ActionExists reports whether name may be invoked as an action. Names
// that are empty, start with "_", contain uppercase letters or are hidden
// never exist. Internal actions exist only when allowInternal is set.
func (c *Controller) ActionExists(
	name string,
	allowInternal bool,
) bool {
	if name == "" || strings.HasPrefix(name, "_") || name != strings.ToLower(name) {
		return false
	}

	if c.ac.HiddenActions[strings.ToLower(name)] {
		return false
	}

	switch c.ActionKind(name) {
	case ActionPublic, ActionExtension:
		return true
	case ActionInternal:
		return allowInternal
	default:
		return false
	}
}

// Extend composes a behavior into the controller. Properties the behavior
// requires must be set beforehand.
func (c *Controller) Extend(
	b Behavior,
) error {
	if req, ok := b.(PropertyRequirer); ok {
		for _, prop := range req.RequiredProperties() {
			if _, ok := c.properties[prop]; !ok {
				return apperr.Configuration(
					"controller %s must define property %q used by behavior %s",
					c.name,
					prop,
					b.Name(),
				)
			}
		}
	}

	if err := b.Extend(c); err != nil {
		return err
	}

	c.behaviors = append(c.behaviors, b)

	return nil
}

// Behaviors returns the behaviors composed into the controller in order.
func (c *Controller) Behaviors() []Behavior {
	return append([]Behavior(nil), c.behaviors...)
}

// BindWidget binds w under its alias. Rebinding an alias replaces the
// widget in place.
func (c *Controller) BindWidget(
	w Widget,
) {
	if idx, ok := c.widgetIndex[w.Alias()]; ok {
		c.widgets[idx] = w
		return
	}

	c.widgetIndex[w.Alias()] = len(c.widgets)
	c.widgets = append(c.widgets, w)
}

// Widget returns the widget bound under alias.
func (c *Controller) Widget(
	alias string,
) (Widget, bool) {
	idx, ok := c.widgetIndex[alias]
	if !ok {
		return nil, false
	}

	return c.widgets[idx], true
}

// Widgets returns the bound widgets in binding order.
func (c *Controller) Widgets() []Widget {
	return append([]Widget(nil), c.widgets...)
}

// AddViewPath appends view paths searched after the existing ones.
func (c *Controller) AddViewPath(
	paths ...string,
) {
	for _, p := range paths {
		if p == "" || containsString(c.viewPaths, p) {
			continue
		}
		c.viewPaths = append(c.viewPaths, p)
	}
}

// ViewPaths returns the view paths in search order.
func (c *Controller) ViewPaths() []string {
	return append([]string(nil), c.viewPaths...)
}

// AddLayoutPath prepends a layout path searched before the backend ones.
func (c *Controller) AddLayoutPath(
	paths ...string,
) {
	c.layoutPaths = append(c.layoutPaths, paths...)
}

// SetLayout selects the layout wrapping page views. An empty name renders
// views without a layout.
func (c *Controller) SetLayout(
	name string,
) {
	c.layout = name
}

// Set assigns a view variable.
func (c *Controller) Set(
	key string,
	value any,
) {
	c.vars[key] = value
}

// Vars returns the view variables.
func (c *Controller) Vars() map[string]any {
	return c.vars
}

// SetPageTitle sets the page title, a lang key or plain text.
func (c *Controller) SetPageTitle(
	title string,
) {
	c.pageTitle = title
}

// PageTitle returns the page title.
func (c *Controller) PageTitle() string {
	return c.pageTitle
}

// SetStatusCode sets the status of rendered page responses.
func (c *Controller) SetStatusCode(
	status int,
) {
	c.statusCode = status
}

// AddAsset registers a frontend asset path the page needs.
func (c *Controller) AddAsset(
	paths ...string,
) {
	for _, p := range paths {
		if !containsString(c.assets, p) {
			c.assets = append(c.assets, p)
		}
	}
}

// Assets returns the registered asset paths.
func (c *Controller) Assets() []string {
	return append([]string(nil), c.assets...)
}

// HandleError records err as the fatal error of the page.
func (c *Controller) HandleError(
	err error,
) {
	c.fatalError = err
	c.vars["fatalError"] = err.Error()
}

// FatalError returns the recorded fatal error.
func (c *Controller) FatalError() error {
	return c.fatalError
}

// Context returns the request context.
func (c *Controller) Context() context.Context {
	if c.echo == nil {
		return context.Background()
	}

	return c.echo.Request().Context()
}

// Echo returns the echo context of the request.
func (c *Controller) Echo() echo.Context {
	return c.echo
}

// Services returns the shared services.
func (c *Controller) Services() *Services {
	return c.svc
}

// Session returns the visitor session.
func (c *Controller) Session() *session.Session {
	return c.session
}

// Flash returns the flash bag of the session.
func (c *Controller) Flash() *session.Flash {
	return c.session.Flash()
}

// Auth returns the authentication state of the request.
func (c *Controller) Auth() *auth.Session {
	return c.auth
}

// User returns the signed in user or nil.
func (c *Controller) User() *auth.User {
	return c.auth.User()
}

// Locale returns the locale used to translate this request.
func (c *Controller) Locale() string {
	return c.locale
}

// Trans translates key in the request locale. Replacements are given as
// name, value pairs.
func (c *Controller) Trans(
	key string,
	pairs ...string,
) string {
	var replace map[string]string
	if len(pairs) > 1 {
		replace = make(map[string]string, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			replace[pairs[i]] = pairs[i+1]
		}
	}

	return c.svc.Lang.Get(c.locale, key, replace)
}

// Input returns a form or query value.
func (c *Controller) Input(
	name string,
) string {
	return c.echo.FormValue(name)
}

// IsAjax reports whether the request was sent by XMLHttpRequest.
func (c *Controller) IsAjax() bool {
	return c.echo.Request().Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest"
}

// IsPost reports whether the request method is POST.
func (c *Controller) IsPost() bool {
	return c.echo.Request().Method == http.MethodPost
}

// BackendURL returns the absolute backend path of p.
func (c *Controller) BackendURL(
	p string,
) string {
	return strings.TrimRight(c.svc.Config.URI, "/") + "/" + strings.TrimLeft(p, "/")
}

func containsString(
	list []string,
	s string,
) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
