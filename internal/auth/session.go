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
	"log/slog"
	"time"

	"github.com/retr0h/backoffice/internal/authtoken"
)

// TokenManager issues and validates signed identity tokens.
type TokenManager interface {
	Generate(
		signingKey string,
		login string,
		role string,
		superuser bool,
		ttl time.Duration,
	) (string, error)
	Validate(
		tokenString string,
		signingKey string,
	) (*authtoken.CustomClaims, error)
}

// Manager authenticates users and resumes sessions from tokens.
type Manager struct {
	logger     *slog.Logger
	provider   UserProvider
	tokens     TokenManager
	signingKey string
	ttl        time.Duration
}

// NewManager creates a Manager. A zero ttl issues tokens without expiry.
func NewManager(
	logger *slog.Logger,
	provider UserProvider,
	tokens TokenManager,
	signingKey string,
	ttl time.Duration,
) *Manager {
	return &Manager{
		logger:     logger.With(slog.String("subsystem", "auth")),
		provider:   provider,
		tokens:     tokens,
		signingKey: signingKey,
		ttl:        ttl,
	}
}

// Attempt authenticates the credentials and returns the user together with
// a token identifying it on later requests.
func (m *Manager) Attempt(
	ctx context.Context,
	login string,
	password string,
) (*User, string, error) {
	user, err := m.provider.Authenticate(ctx, login, password)
	if err != nil {
		return nil, "", err
	}

	token, err := m.tokens.Generate(m.signingKey, user.Login, user.Role, user.IsSuperUser, m.ttl)
	if err != nil {
		return nil, "", err
	}

	m.logger.Info("user signed in", slog.String("login", user.Login))

	return user, token, nil
}

// Resume returns the session identified by token. Missing, invalid or
// stale tokens yield an anonymous session.
func (m *Manager) Resume(
	ctx context.Context,
	token string,
) *Session {
	if token == "" {
		return Anonymous()
	}

	claims, err := m.tokens.Validate(token, m.signingKey)
	if err != nil {
		m.logger.Debug("rejected token", slog.String("error", err.Error()))
		return Anonymous()
	}

	user, err := m.provider.FindByLogin(ctx, claims.Login)
	if err != nil {
		m.logger.Debug(
			"token user unavailable",
			slog.String("login", claims.Login),
			slog.String("error", err.Error()),
		)
		return Anonymous()
	}

	return NewSession(user)
}

// Session is the authentication state of one request.
type Session struct {
	user *User
}

// Anonymous returns a session without a user.
func Anonymous() *Session {
	return &Session{}
}

// NewSession returns a session authenticated as user.
func NewSession(
	user *User,
) *Session {
	return &Session{user: user}
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.user != nil
}

// User returns the signed in user or nil.
func (s *Session) User() *User {
	if s == nil {
		return nil
	}

	return s.user
}

// UserHasAccess reports whether the signed in user holds the codes.
// Anonymous sessions never have access.
func (s *Session) UserHasAccess(
	codes []string,
	requireAll bool,
) bool {
	if !s.IsAuthenticated() {
		return false
	}

	return s.user.HasAccess(codes, requireAll)
}

// UserHasAnyAccess reports whether the signed in user holds one of codes.
func (s *Session) UserHasAnyAccess(
	codes []string,
) bool {
	return s.UserHasAccess(codes, false)
}
