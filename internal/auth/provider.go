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

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ensure ConfigProvider implements UserProvider at compile time.
var _ UserProvider = (*ConfigProvider)(nil)

// ConfigProvider serves users declared in the configuration file.
type ConfigProvider struct {
	logger *slog.Logger
	roles  *Roles
	users  map[string]User
}

// NewConfigProvider creates a provider for the given users. Logins are
// matched case-insensitively.
func NewConfigProvider(
	logger *slog.Logger,
	roles *Roles,
	users []User,
) *ConfigProvider {
	byLogin := make(map[string]User, len(users))
	for _, u := range users {
		byLogin[strings.ToLower(u.Login)] = u
	}

	return &ConfigProvider{
		logger: logger.With(slog.String("subsystem", "auth")),
		roles:  roles,
		users:  byLogin,
	}
}

// FindByLogin returns a copy of the user with its permissions merged.
func (p *ConfigProvider) FindByLogin(
	_ context.Context,
	login string,
) (*User, error) {
	u, ok := p.users[strings.ToLower(login)]
	if !ok {
		return nil, ErrUserNotFound
	}

	user := u
	user.Merge(p.roles.Permissions(user.Role))

	return &user, nil
}

// Authenticate verifies the password against the stored bcrypt hash.
func (p *ConfigProvider) Authenticate(
	ctx context.Context,
	login string,
	password string,
) (*User, error) {
	user, err := p.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			p.logger.Debug("unknown login", slog.String("login", login))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		p.logger.Debug("password mismatch", slog.String("login", login))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// HashPassword returns the bcrypt hash of password for use in the
// configuration file.
func HashPassword(
	password string,
) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
