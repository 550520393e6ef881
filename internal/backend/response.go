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

package backend

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is a complete transport response produced by the dispatcher or
// returned directly by an action or handler.
type Response struct {
	Status int
	// Body is written as HTML unless ContentType says otherwise.
	Body        string
	ContentType string
	// Payload, when set, is written as JSON instead of Body.
	Payload any
	// Location, when set, makes the response a redirect.
	Location string
	Headers  map[string]string
}

// HTML returns an HTML response.
func HTML(
	status int,
	body string,
) *Response {
	return &Response{Status: status, Body: body, ContentType: echo.MIMETextHTMLCharsetUTF8}
}

// Text returns a plain text response.
func Text(
	status int,
	body string,
) *Response {
	return &Response{Status: status, Body: body, ContentType: echo.MIMETextPlainCharsetUTF8}
}

// JSON returns a JSON response.
func JSON(
	status int,
	payload any,
) *Response {
	return &Response{Status: status, Payload: payload}
}

// Redirect returns a redirect to location.
func Redirect(
	location string,
) *Response {
	return &Response{Status: http.StatusFound, Location: location}
}

// IsRedirect reports whether the response redirects.
func (r *Response) IsRedirect() bool {
	return r.Location != ""
}

// Write sends the response through echo.
func (r *Response) Write(
	c echo.Context,
) error {
	for k, v := range r.Headers {
		c.Response().Header().Set(k, v)
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	switch {
	case r.IsRedirect():
		if status < 300 || status > 399 {
			status = http.StatusFound
		}
		return c.Redirect(status, r.Location)
	case r.Payload != nil:
		return c.JSON(status, r.Payload)
	default:
		contentType := r.ContentType
		if contentType == "" {
			contentType = echo.MIMETextHTMLCharsetUTF8
		}
		return c.Blob(status, contentType, []byte(r.Body))
	}
}

// toResponse converts an arbitrary result into a response: responses pass
// through, strings become HTML and anything else becomes JSON.
func toResponse(
	result any,
) *Response {
	switch r := result.(type) {
	case *Response:
		return r
	case string:
		return HTML(http.StatusOK, r)
	default:
		return JSON(http.StatusOK, r)
	}
}

// isEmptyResult reports whether a handler result carries no content of
// its own.
func isEmptyResult(
	result any,
) bool {
	switch r := result.(type) {
	case nil:
		return true
	case bool:
		return true
	case string:
		return r == ""
	case map[string]any:
		return len(r) == 0
	default:
		return false
	}
}
