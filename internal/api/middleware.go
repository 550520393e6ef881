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

package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/backoffice/internal/backend"
)

// bearerMiddleware authenticates the sign in token in the Authorization
// header and requires one of permissions when any are given. The user and
// role are stored under the backend context keys for audit logging.
func bearerMiddleware(
	tokens TokenResolver,
	permissions ...string,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error: "Bearer token required",
				})
			}

			if tokens == nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error: "Invalid token",
				})
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			sess := tokens.Resume(c.Request().Context(), token)
			if !sess.IsAuthenticated() {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error: "Invalid token",
				})
			}

			user := sess.User()
			c.Set(backend.ContextKeyUser, user.Login)
			c.Set(backend.ContextKeyRole, user.Role)

			if len(permissions) > 0 && !sess.UserHasAnyAccess(permissions) {
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Error: "Insufficient permissions. Required: " + strings.Join(permissions, ", "),
				})
			}

			return next(c)
		}
	}
}
