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

// Package backend runs backend controllers: it gates each request on CSRF,
// HTTPS, authentication and permissions, resolves which handler or page
// action serves it, and shapes the result into a response.
package backend

import (
	"context"
	"log/slog"

	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/event"
	"github.com/retr0h/backoffice/internal/lang"
	"github.com/retr0h/backoffice/internal/session"
	"github.com/retr0h/backoffice/internal/view"
)

// Request headers and form fields read by the dispatcher.
const (
	// HandlerHeader names the AJAX handler to run.
	HandlerHeader = "X-October-Request-Handler"
	// PartialsHeader lists the partials to render, separated by "&".
	PartialsHeader = "X-October-Request-Partials"
	// CSRFHeader carries the CSRF token of AJAX requests.
	CSRFHeader = "X-CSRF-TOKEN"
	// HandlerField names the postback handler of a form submission.
	HandlerField = "_handler"
	// TokenField carries the CSRF token of a form submission.
	TokenField = "_token"
)

// Reserved keys of an AJAX response payload.
const (
	ResultKey       = "result"
	RedirectKey     = "X_OCTOBER_REDIRECT"
	AssetsKey       = "X_OCTOBER_ASSETS"
	ErrorFieldsKey  = "X_OCTOBER_ERROR_FIELDS"
	FlashPartialKey = "#layout-flash-messages"
)

// Events fired while dispatching.
const (
	// EventBeforeDisplay receives the controller, action and params. A
	// non-nil result replaces the response.
	EventBeforeDisplay = "backend.page.beforeDisplay"
	// EventBeforeRunHandler receives the controller and handler name. A
	// non-nil result is used as the handler result.
	EventBeforeRunHandler = "backend.ajax.beforeRunHandler"
)

// Echo context keys set for authenticated requests.
const (
	ContextKeyUser = "backend.user"
	ContextKeyRole = "backend.role"
)

// Dispatch outcomes reported to the DispatchRecorder.
const (
	OutcomeCSRFRejected    = "csrf_rejected"
	OutcomeHTTPSRedirect   = "https_redirect"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
	OutcomeIntercepted     = "intercepted"
	OutcomeAjax            = "ajax"
	OutcomePostback        = "postback"
	OutcomePage            = "page"
	OutcomeError           = "error"
)

// ActionKind tells how an action became callable.
type ActionKind int

const (
	// ActionNone means no such action is declared.
	ActionNone ActionKind = iota
	// ActionPublic is declared by the controller and routable.
	ActionPublic
	// ActionInternal is declared by the controller but only callable when
	// internal calls are allowed.
	ActionInternal
	// ActionExtension is contributed by a behavior and routable.
	ActionExtension
)

// String returns the kind name.
func (k ActionKind) String() string {
	switch k {
	case ActionPublic:
		return "public"
	case ActionInternal:
		return "internal"
	case ActionExtension:
		return "extension"
	default:
		return "none"
	}
}

// Constructor declares the actions, handlers and settings of a controller.
// It runs once for every request on a fresh Controller.
type Constructor func(c *Controller) error

// ActionFunc is a page action. A nil result renders the view named after
// the action.
type ActionFunc func(
	c *Controller,
	params []string,
) (any, error)

// HandlerFunc is an AJAX or postback handler.
type HandlerFunc func(c *Controller) (any, error)

// DispatchRecorder counts dispatch outcomes.
type DispatchRecorder interface {
	RecordDispatch(
		ctx context.Context,
		controller string,
		outcome string,
	)
}

// Config holds the backend settings used by the dispatcher.
type Config struct {
	// URI is the path prefix of the backend, e.g. "/backend".
	URI string
	// ForceSecure redirects plain HTTP page requests to HTTPS.
	ForceSecure bool
	// CSRFProtection enables CSRF token verification.
	CSRFProtection bool
	// Debug reports detailed errors instead of generic pages.
	Debug bool
	// LoginPath is the backend path guests are redirected to.
	LoginPath string
	// AuthCookie is the name of the cookie holding the identity token.
	AuthCookie string
	// LayoutPaths are searched for layouts and layout partials.
	LayoutPaths []string
	// SystemViewPaths are searched for the access denied and not found
	// views.
	SystemViewPaths []string
}

// Services are the process-wide collaborators shared by every controller.
type Services struct {
	Logger   *slog.Logger
	Views    *view.Renderer
	Lang     *lang.Translator
	Events   *event.Bus
	Sessions *session.Manager
	Auth     *auth.Manager
	Metrics  DispatchRecorder
	Config   Config
}
