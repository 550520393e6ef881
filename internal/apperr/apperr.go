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

// Package apperr defines the error taxonomy shared by the backend packages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigurationError reports a programming or wiring mistake, such as a
// controller referencing an unbound widget. It is fatal for the request.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// ValidationError is a recoverable, user-facing error. Fields maps a field
// name to its message and may be empty.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ApplicationError is a recoverable, user-facing error without field detail.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// NotFoundError reports an unresolved route or action.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// AjaxError carries a structured payload for an AJAX client alongside the
// status the transport layer should use.
type AjaxError struct {
	Status  int
	Payload map[string]any
}

func (e *AjaxError) Error() string {
	return fmt.Sprintf("ajax error (status %d)", e.Status)
}

// Configuration returns a formatted ConfigurationError.
func Configuration(
	format string,
	args ...any,
) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// Validation returns a ValidationError with optional field messages.
func Validation(
	message string,
	fields map[string]string,
) error {
	return &ValidationError{Message: message, Fields: fields}
}

// Application returns a formatted ApplicationError.
func Application(
	format string,
	args ...any,
) error {
	return &ApplicationError{Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a formatted NotFoundError.
func NotFound(
	format string,
	args ...any,
) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// StatusCode maps an error from the taxonomy to an HTTP status.
func StatusCode(
	err error,
) int {
	var (
		ajaxErr  *AjaxError
		valErr   *ValidationError
		appErr   *ApplicationError
		notFound *NotFoundError
	)

	switch {
	case errors.As(err, &ajaxErr):
		return ajaxErr.Status
	case errors.As(err, &valErr), errors.As(err, &appErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsUserFacing reports whether the error message is safe to show outside
// debug mode.
func IsUserFacing(
	err error,
) bool {
	var (
		valErr   *ValidationError
		appErr   *ApplicationError
		notFound *NotFoundError
	)

	return errors.As(err, &valErr) || errors.As(err, &appErr) || errors.As(err, &notFound)
}
