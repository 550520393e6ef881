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

// Package health provides the health probe handlers.
package health

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// Probe paths.
const (
	LivenessPath  = "/health"
	ReadinessPath = "/health/ready"
	DetailedPath  = "/health/detailed"
)

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	checker Checker,
	startTime time.Time,
	version string,
) *Health {
	return &Health{
		Checker:   checker,
		StartTime: startTime,
		Version:   version,
		logger:    logger.With(slog.String("subsystem", "health")),
	}
}

// RegisterHandlers mounts the probes on e. detailed guards the detailed
// probe, which reports internals.
func (h *Health) RegisterHandlers(
	e *echo.Echo,
	detailed ...echo.MiddlewareFunc,
) {
	e.GET(LivenessPath, h.GetHealth)
	e.GET(ReadinessPath, h.GetHealthReady)
	e.GET(DetailedPath, h.GetHealthDetailed, detailed...)
}
