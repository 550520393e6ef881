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

package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Manager loads sessions from a Store.
type Manager struct {
	logger *slog.Logger
	store  Store
	opts   Options
}

// NewManager creates a Manager over store.
func NewManager(
	logger *slog.Logger,
	store Store,
	opts Options,
) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "backoffice_session"
	}

	return &Manager{
		logger: logger.With(slog.String("subsystem", "session")),
		store:  store,
		opts:   opts,
	}
}

// CookieName returns the name of the session id cookie.
func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Options returns the manager options.
func (m *Manager) Options() Options {
	return m.opts
}

// Load returns the session with the given id and extends its lifetime.
// An empty or malformed id starts a new session.
func (m *Manager) Load(
	ctx context.Context,
	id string,
) *Session {
	sess := &Session{
		ctx:    ctx,
		logger: m.logger,
		store:  m.store,
		id:     id,
	}

	if _, err := uuid.Parse(id); err != nil {
		sess.id = uuid.NewString()
		sess.fresh = true

		return sess
	}

	if err := m.store.Touch(ctx, id); err != nil {
		m.logger.Warn(
			"failed to extend session lifetime",
			slog.String("error", err.Error()),
		)
	}

	return sess
}

// Session is the state of one visitor, bound to the request context.
type Session struct {
	ctx    context.Context
	logger *slog.Logger
	store  Store
	id     string
	fresh  bool
	flash  *Flash
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// IsNew reports whether the session was started by this request.
func (s *Session) IsNew() bool {
	return s.fresh
}

// Get returns the value of key, or "" when absent.
func (s *Session) Get(
	key string,
) string {
	v, err := s.store.Get(s.ctx, s.id, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn(
				"failed to read session",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return ""
	}

	return v
}

// Has reports whether key holds a non-empty value.
func (s *Session) Has(
	key string,
) bool {
	return s.Get(key) != ""
}

// Put stores value under key.
func (s *Session) Put(
	key string,
	value string,
) error {
	return s.store.Put(s.ctx, s.id, key, value)
}

// Forget removes key.
func (s *Session) Forget(
	key string,
) error {
	return s.store.Forget(s.ctx, s.id, key)
}

// Pull returns the value of key and removes it.
func (s *Session) Pull(
	key string,
) string {
	v := s.Get(key)
	if v != "" {
		if err := s.Forget(key); err != nil {
			s.logger.Warn(
				"failed to forget session key",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	return v
}

// Invalidate destroys the stored session and continues under a new id.
func (s *Session) Invalidate() error {
	if err := s.store.Destroy(s.ctx, s.id); err != nil {
		return err
	}

	s.id = uuid.NewString()
	s.fresh = true
	s.flash = nil

	return nil
}

// Token returns the CSRF token of the session, creating it on first use.
func (s *Session) Token() (string, error) {
	if token := s.Get(TokenKey); token != "" {
		return token, nil
	}

	token := uuid.NewString()
	if err := s.Put(TokenKey, token); err != nil {
		return "", err
	}

	return token, nil
}

// VerifyToken reports whether candidate equals the CSRF token of the
// session. Sessions without a token never verify.
func (s *Session) VerifyToken(
	candidate string,
) bool {
	token := s.Get(TokenKey)
	if token == "" || candidate == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(candidate)) == 1
}

// Flash returns the flash bag of the session.
func (s *Session) Flash() *Flash {
	if s.flash == nil {
		s.flash = &Flash{session: s}
	}

	return s.flash
}
