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

package health

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetHealth liveness probe. It always answers while the process serves.
func (h *Health) GetHealth(
	c echo.Context,
) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// GetHealthReady readiness probe. It answers 200 when the dependencies
// are reachable.
func (h *Health) GetHealthReady(
	c echo.Context,
) error {
	if h.Checker == nil {
		return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
	}

	if err := h.Checker.CheckHealth(c.Request().Context()); err != nil {
		h.logger.Warn("not ready", slog.String("error", err.Error()))

		errMsg := err.Error()
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
			Error:  &errMsg,
		})
	}

	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
