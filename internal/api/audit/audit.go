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

// Package audit serves the recorded backend audit entries as JSON.
package audit

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	auditstore "github.com/retr0h/backoffice/internal/audit"
)

// Path is the collection path of the audit API.
const Path = "/api/audit"

// Audit serves audit entries from a store.
type Audit struct {
	Store  auditstore.Store
	logger *slog.Logger
}

// ErrorResponse is the body of failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse is one page of entries, newest first.
type ListResponse struct {
	TotalItems int                `json:"total_items"`
	Items      []auditstore.Entry `json:"items"`
}

// ListParams are the query parameters of the list endpoint.
type ListParams struct {
	Limit  *int `query:"limit"  validate:"omitempty,min=1,max=100"`
	Offset *int `query:"offset" validate:"omitempty,min=0"`
}

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	store auditstore.Store,
) *Audit {
	return &Audit{
		Store:  store,
		logger: logger.With(slog.String("subsystem", "api.audit")),
	}
}

// RegisterHandlers mounts the endpoints on e behind mw.
func (a *Audit) RegisterHandlers(
	e *echo.Echo,
	mw ...echo.MiddlewareFunc,
) {
	g := e.Group(Path, mw...)
	g.GET("", a.GetAuditLogs)
	g.GET("/:id", a.GetAuditLogByID)
}
