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

// Package audit records the backend requests of signed in users.
package audit

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get for an unknown entry.
var ErrNotFound = errors.New("audit entry not found")

// Entry represents a single audit log record.
type Entry struct {
	// ID is the unique identifier for this audit entry.
	ID string `json:"id"`
	// Timestamp is when the request was processed.
	Timestamp time.Time `json:"timestamp"`
	// User is the login of the signed in backend user.
	User string `json:"user"`
	// Role is the role code of the user.
	Role string `json:"role,omitempty"`
	// Method is the HTTP method (GET, POST, PUT, DELETE).
	Method string `json:"method"`
	// Path is the request URL path.
	Path string `json:"path"`
	// Handler is the AJAX or postback handler that ran, if any.
	Handler string `json:"handler,omitempty"`
	// SourceIP is the client's IP address.
	SourceIP string `json:"source_ip"`
	// ResponseCode is the HTTP response status code.
	ResponseCode int `json:"response_code"`
	// DurationMs is the request processing time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
	// TraceID links the entry to the request trace, when tracing is on.
	TraceID string `json:"trace_id,omitempty"`
}

// Store persists audit entries.
type Store interface {
	// Write persists entry.
	Write(
		ctx context.Context,
		entry Entry,
	) error
	// Get returns the entry with id or ErrNotFound.
	Get(
		ctx context.Context,
		id string,
	) (*Entry, error)
	// List returns entries newest first with the total count.
	List(
		ctx context.Context,
		limit int,
		offset int,
	) ([]Entry, int, error)
}
