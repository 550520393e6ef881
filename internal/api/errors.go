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

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/backoffice/internal/apperr"
	"github.com/retr0h/backoffice/internal/backend"
)

// httpErrorHandler renders errors that reach echo. Echo errors keep their
// status and message. Backend errors map to a status through apperr, and
// their message is only shown when it is user facing or debug is on.
func httpErrorHandler(
	logger *slog.Logger,
	debug bool,
) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			message string
			httpErr *echo.HTTPError
			ajaxErr *apperr.AjaxError
		)

		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = http.StatusText(status)
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		case errors.As(err, &ajaxErr):
			writeError(c, logger, ajaxErr.Status, ajaxErr.Payload, err)
			return
		default:
			status = apperr.StatusCode(err)
			message = http.StatusText(status)
			if debug || apperr.IsUserFacing(err) {
				message = err.Error()
			}
		}

		if isXHR(c) {
			writeError(c, logger, status, ErrorResponse{Error: message}, err)
			return
		}

		if status >= http.StatusInternalServerError {
			logger.Error(
				"request failed",
				slog.String("path", c.Request().URL.Path),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.String(status, message)
		}
		if err != nil {
			logger.Error("failed to write error response", slog.String("error", err.Error()))
		}
	}
}

func writeError(
	c echo.Context,
	logger *slog.Logger,
	status int,
	payload any,
	cause error,
) {
	if status >= http.StatusInternalServerError {
		logger.Error(
			"request failed",
			slog.String("path", c.Request().URL.Path),
			slog.String("error", cause.Error()),
		)
	}

	if err := c.JSON(status, payload); err != nil {
		logger.Error("failed to write error response", slog.String("error", err.Error()))
	}
}

func isXHR(
	c echo.Context,
) bool {
	h := c.Request().Header
	return h.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest" ||
		h.Get(backend.HandlerHeader) != ""
}
