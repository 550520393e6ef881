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

// Package authtoken issues and validates the signed tokens that identify a
// backend user between requests.
package authtoken

import (
	"log/slog"

	"github.com/golang-jwt/jwt/v4"
)

// Issuer is stamped into every token this package generates.
const Issuer = "backoffice"

// Token generates and validates backend session tokens.
type Token struct {
	logger *slog.Logger
}

// CustomClaims carries the backend identity inside a JWT.
type CustomClaims struct {
	// Role is the role code of the user, empty for role-less users.
	Role string `json:"role,omitempty" validate:"omitempty,role_code"`
	// Superuser marks accounts that bypass every permission check.
	Superuser bool `json:"superuser,omitempty"`

	jwt.RegisteredClaims

	// Login is copied from the subject claim after validation.
	Login string `json:"-"`
}
