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

// Package auth resolves the backend user behind a request and answers
// permission checks for it.
package auth

import (
	"context"
	"errors"
)

// Override values for User.Permissions.
const (
	// Grant adds a permission on top of the role.
	Grant = 1
	// Deny removes a permission granted by the role.
	Deny = -1
)

var (
	// ErrUserNotFound is returned when no user matches a login.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when a password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Role is a named set of permissions assigned to users.
type Role struct {
	Code string
	Name string
	// Permissions are granted explicitly by the role.
	Permissions []string
	// System roles additionally receive every registered permission scoped
	// to their code.
	System bool
	// IncludeOrphans grants system roles the permissions that are not
	// scoped to any role.
	IncludeOrphans bool
}

// User is a backend account.
type User struct {
	Login        string
	Email        string
	PasswordHash string
	Role         string
	IsSuperUser  bool
	Locale       string
	// Permissions overrides the role, keyed by code with Grant or Deny.
	Permissions map[string]int

	merged map[string]int
}

// UserProvider looks up and authenticates backend users.
type UserProvider interface {
	// FindByLogin returns the user with the given login or ErrUserNotFound.
	FindByLogin(
		ctx context.Context,
		login string,
	) (*User, error)
	// Authenticate returns the user when password matches, otherwise
	// ErrInvalidCredentials.
	Authenticate(
		ctx context.Context,
		login string,
		password string,
	) (*User, error)
}
