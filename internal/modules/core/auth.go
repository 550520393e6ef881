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

package core

import (
	"errors"
	"strings"

	"github.com/retr0h/backoffice/internal/apperr"
	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/backend"
)

func authController(c *backend.Controller) error {
	c.AddPublicActions("signin", "signout")
	c.SetLayout("auth")

	c.Action("signin", signin)
	c.Action("signout", signout)
	c.ActionHandler("signin", "onSignin", onSignin)

	return nil
}

func signin(
	c *backend.Controller,
	_ []string,
) (any, error) {
	if c.Auth().IsAuthenticated() {
		return backend.Redirect(c.BackendURL("")), nil
	}

	c.SetPageTitle("backend::lang.account.sign_in")
	c.Set("login", c.Input("login"))

	return nil, nil
}

func signout(
	c *backend.Controller,
	_ []string,
) (any, error) {
	if err := c.SignOut(); err != nil {
		return nil, err
	}

	c.Flash().Success(c.Trans("backend::lang.account.signed_out"))

	return backend.Redirect(c.BackendURL(LoginPath)), nil
}

// onSignin checks the submitted credentials and signs the user in,
// redirecting to the page the visitor first asked for.
func onSignin(
	c *backend.Controller,
) (any, error) {
	if c.Services().Auth == nil {
		return nil, apperr.Configuration("backend authentication is not configured")
	}

	login := strings.TrimSpace(c.Input("login"))
	password := c.Input("password")
	if login == "" || password == "" {
		return rejectSignin(c, "backend::lang.auth.login_required")
	}

	user, token, err := c.Services().Auth.Attempt(c.Context(), login, password)
	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidCredentials):
		return rejectSignin(c, "backend::lang.auth.invalid_login")
	case err != nil:
		return nil, err
	}

	intended, err := c.SignIn(user, token)
	if err != nil {
		return nil, err
	}

	return backend.Redirect(intended), nil
}

// rejectSignin reports a failed sign in as field errors to AJAX requests
// and as a flash message on the re-rendered form otherwise.
func rejectSignin(
	c *backend.Controller,
	key string,
) (any, error) {
	msg := c.Trans(key)
	if c.IsAjax() {
		return nil, apperr.Validation(msg, map[string]string{"login": msg})
	}

	c.Flash().Error(msg)

	return nil, nil
}
