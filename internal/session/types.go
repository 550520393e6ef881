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

// Package session keeps per-visitor state between backend requests.
package session

import (
	"context"
	"errors"
	"time"
)

// Reserved session keys.
const (
	// TokenKey holds the CSRF token.
	TokenKey = "_token"
	// FlashKey holds pending flash messages.
	FlashKey = "_flash"
	// IntendedKey holds the URL a guest was redirected away from.
	IntendedKey = "url.intended"
)

// ErrNotFound is returned by Store.Get for a missing key.
var ErrNotFound = errors.New("session key not found")

// Store persists session values keyed by session id.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(
		ctx context.Context,
		id string,
		key string,
	) (string, error)
	// Put stores value under key and refreshes the session lifetime.
	Put(
		ctx context.Context,
		id string,
		key string,
		value string,
	) error
	// Forget removes key from the session.
	Forget(
		ctx context.Context,
		id string,
		key string,
	) error
	// Destroy removes the whole session.
	Destroy(
		ctx context.Context,
		id string,
	) error
	// Touch extends the lifetime of a live session by the idle timeout.
	// Missing sessions are left alone.
	Touch(
		ctx context.Context,
		id string,
	) error
}

// Options configures a Manager.
type Options struct {
	// CookieName is the name of the session id cookie.
	CookieName string
	// TTL is the idle lifetime of a session.
	TTL time.Duration
}
