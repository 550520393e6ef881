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
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/backoffice/internal/apperr"
	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/session"
)

// Dispatcher runs controllers: it binds the request state, applies the
// CSRF, HTTPS, authentication and permission gates, and then runs the AJAX
// handler, postback handler or page action the request asks for.
type Dispatcher struct {
	logger *slog.Logger
	svc    *Services
}

// NewDispatcher creates a Dispatcher over the shared services.
func NewDispatcher(
	svc *Services,
) *Dispatcher {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
		svc.Logger = logger
	}

	return &Dispatcher{
		logger: logger.With(slog.String("subsystem", "dispatcher")),
		svc:    svc,
	}
}

// Services returns the services shared by every controller.
func (d *Dispatcher) Services() *Services {
	return d.svc
}

// Dispatch runs action of c for the request in ectx. Gate failures are
// returned as responses. Handler errors are returned for the transport
// layer to render.
func (d *Dispatcher) Dispatch(
	ectx echo.Context,
	c *Controller,
	action string,
	params []string,
) (*Response, error) {
	d.bind(ectx, c, action, params)

	resp, outcome, err := d.run(c)
	if err != nil {
		outcome = OutcomeError
	}

	if d.svc.Metrics != nil {
		d.svc.Metrics.RecordDispatch(c.Context(), c.name, outcome)
	}

	return resp, err
}

// NotFound renders the not found page for a request that no controller
// serves.
func (d *Dispatcher) NotFound(
	ectx echo.Context,
) (*Response, error) {
	c, err := New("backend/notfound", "", nil)
	if err != nil {
		return nil, err
	}
	d.bind(ectx, c, "", nil)

	return c.makeSystemView("404", http.StatusNotFound)
}

func (d *Dispatcher) bind(
	ectx echo.Context,
	c *Controller,
	action string,
	params []string,
) {
	c.svc = d.svc
	c.echo = ectx
	c.ac.Action = action
	c.ac.Params = params

	ctx := ectx.Request().Context()

	var sessionID string
	if cookie, err := ectx.Cookie(d.svc.Sessions.CookieName()); err == nil {
		sessionID = cookie.Value
	}
	c.session = d.svc.Sessions.Load(ctx, sessionID)
	c.writeSessionCookie()

	c.auth = auth.Anonymous()
	if d.svc.Auth != nil && d.svc.Config.AuthCookie != "" {
		if cookie, err := ectx.Cookie(d.svc.Config.AuthCookie); err == nil {
			c.auth = d.svc.Auth.Resume(ctx, cookie.Value)
		}
	}

	c.locale = d.svc.Lang.Match(ectx.Request().Header.Get("Accept-Language"))

	if u := c.auth.User(); u != nil {
		ectx.Set(ContextKeyUser, u.Login)
		ectx.Set(ContextKeyRole, u.Role)
	}
}

func (d *Dispatcher) run(
	c *Controller,
) (*Response, string, error) {
	logger := d.logger.With(
		slog.String("controller", c.name),
		slog.String("action", c.ac.Action),
	)

	if !d.verifyCSRF(c) {
		logger.Debug("csrf rejected")
		return Text(http.StatusForbidden, c.Trans("backend::lang.page.invalid_token.label")),
			OutcomeCSRFRejected, nil
	}

	if d.svc.Config.ForceSecure && !c.IsAjax() && c.echo.Scheme() != "https" {
		logger.Debug("https redirect")
		req := c.echo.Request()
		return Redirect("https://" + req.Host + req.RequestURI), OutcomeHTTPSRedirect, nil
	}

	if !c.ac.PublicActions[c.ac.Action] {
		if !c.auth.IsAuthenticated() {
			logger.Debug("unauthenticated")
			if c.IsAjax() {
				return Text(http.StatusForbidden, c.Trans("backend::lang.page.access_denied.label")),
					OutcomeUnauthenticated, nil
			}

			if err := c.session.Put(session.IntendedKey, c.echo.Request().RequestURI); err != nil {
				return nil, "", err
			}
			return Redirect(c.BackendURL(d.svc.Config.LoginPath)), OutcomeUnauthenticated, nil
		}

		if len(c.ac.RequiredPermissions) > 0 && !c.auth.UserHasAnyAccess(c.ac.RequiredPermissions) {
			logger.Debug("permission denied", slog.String("user", c.User().Login))
			resp, err := c.makeSystemView("access_denied", http.StatusForbidden)
			return resp, OutcomeForbidden, err
		}
	}

	for _, hook := range c.beforeDisplay {
		if err := hook(c); err != nil {
			return nil, "", err
		}
	}

	if d.svc.Events != nil {
		result, err := d.svc.Events.Until(c.Context(), EventBeforeDisplay, c, c.ac.Action, c.ac.Params)
		if err != nil {
			return nil, "", err
		}
		if result != nil {
			return toResponse(result), OutcomeIntercepted, nil
		}
	}

	if u := c.User(); u != nil && u.Locale != "" {
		c.locale = d.svc.Lang.Match(u.Locale)
	}

	req := c.echo.Request()

	if handler := req.Header.Get(HandlerHeader); handler != "" && c.IsAjax() && c.IsPost() {
		resp, err := c.execAjaxHandlers(handler)
		return resp, OutcomeAjax, err
	}

	if c.IsPost() && !c.IsAjax() {
		if handler := c.Input(HandlerField); handler != "" {
			resp, err := c.execPostbackHandler(handler)
			return resp, OutcomePostback, err
		}
	}

	resp, err := c.execPageAction(c.ac.Action, c.ac.Params)
	return resp, OutcomePage, err
}

// verifyCSRF checks the request token against the session token. Safe
// methods are not checked.
func (d *Dispatcher) verifyCSRF(
	c *Controller,
) bool {
	if !d.svc.Config.CSRFProtection {
		return true
	}

	switch c.echo.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	token := c.Input(TokenField)
	if token == "" {
		token = c.echo.Request().Header.Get(CSRFHeader)
	}

	return c.session.VerifyToken(token)
}

// execPostbackHandler runs a form handler. Results without content fall
// through to the page action.
func (c *Controller) execPostbackHandler(
	name string,
) (*Response, error) {
	if !ValidHandlerName(name) {
		return nil, apperr.Validation("invalid handler name: "+name, nil)
	}

	result, found, err := c.runHandler(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.Application(
			"%s",
			c.Trans("backend::lang.ajax_handler.not_found", "name", name),
		)
	}

	if !isEmptyResult(result) {
		return toResponse(result), nil
	}

	c.suppressView = false
	return c.execPageAction(c.ac.Action, c.ac.Params)
}

// SignIn makes user the signed in user of the visitor. The session is
// renewed and the URL the visitor was originally headed to is returned,
// or the backend root when there is none.
func (c *Controller) SignIn(
	user *auth.User,
	token string,
) (string, error) {
	intended := c.session.Pull(session.IntendedKey)

	if err := c.session.Invalidate(); err != nil {
		return "", err
	}
	c.writeSessionCookie()

	c.echo.SetCookie(&http.Cookie{
		Name:     c.svc.Config.AuthCookie,
		Value:    token,
		Path:     c.cookiePath(),
		HttpOnly: true,
		Secure:   c.echo.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})

	c.auth = auth.NewSession(user)
	c.echo.Set(ContextKeyUser, user.Login)
	c.echo.Set(ContextKeyRole, user.Role)

	if intended == "" {
		intended = c.BackendURL("")
	}

	return intended, nil
}

// SignOut forgets the signed in user and renews the session.
func (c *Controller) SignOut() error {
	c.echo.SetCookie(&http.Cookie{
		Name:     c.svc.Config.AuthCookie,
		Value:    "",
		Path:     c.cookiePath(),
		MaxAge:   -1,
		HttpOnly: true,
	})

	c.auth = auth.Anonymous()

	if err := c.session.Invalidate(); err != nil {
		return err
	}
	c.writeSessionCookie()

	return nil
}

func (c *Controller) writeSessionCookie() {
	cookie := &http.Cookie{
		Name:     c.svc.Sessions.CookieName(),
		Value:    c.session.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.echo.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	}
	if ttl := c.svc.Sessions.Options().TTL; ttl > 0 {
		cookie.Expires = time.Now().Add(ttl)
	}

	c.echo.SetCookie(cookie)
}

func (c *Controller) cookiePath() string {
	if c.svc.Config.URI == "" {
		return "/"
	}

	return c.svc.Config.URI
}
