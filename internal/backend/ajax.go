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
	"log/slog"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/retr0h/backoffice/internal/apperr"
)

// FlashPartial is the layout partial that renders pending flash messages.
const FlashPartial = "flash_messages"

var partialNamePattern = regexp.MustCompile(`^[a-z0-9_][a-z0-9_\-/]*$`)

// ValidPartialName reports whether name may be requested as a partial.
func ValidPartialName(
	name string,
) bool {
	return partialNamePattern.MatchString(name) && !strings.Contains(name, "//")
}

// ParsePartialList splits the partials header on "&" and validates every
// item. Empty items are ignored.
func ParsePartialList(
	header string,
) ([]string, error) {
	var partials []string
	for _, item := range strings.Split(header, "&") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !ValidPartialName(item) {
			return nil, apperr.Validation("invalid partial name: "+item, nil)
		}
		partials = append(partials, item)
	}

	return partials, nil
}

// execAjaxHandlers runs the handler named by the request header and builds
// the AJAX payload. A ValidationError raised by the handler becomes an
// AjaxError carrying the error fields and the flash messages.
func (c *Controller) execAjaxHandlers(
	name string,
) (*Response, error) {
	if !ValidHandlerName(name) {
		return nil, apperr.Validation("invalid handler name: "+name, nil)
	}

	partials, err := ParsePartialList(c.echo.Request().Header.Get(PartialsHeader))
	if err != nil {
		return nil, err
	}

	resp, err := c.ajaxPayload(name, partials)
	if err != nil {
		if ve, ok := isValidation(err); ok {
			return nil, c.ajaxValidationError(ve)
		}
		return nil, err
	}

	return resp, nil
}

func (c *Controller) ajaxPayload(
	name string,
	partials []string,
) (*Response, error) {
	result, found, err := c.runHandler(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.Application(
			"%s",
			c.Trans("backend::lang.ajax_handler.not_found", "name", name),
		)
	}

	payload := make(map[string]any, len(partials)+2)
	for _, p := range partials {
		out, err := c.MakePartial(p, nil)
		if err != nil {
			return nil, err
		}
		payload[p] = out
	}

	if resp, ok := result.(*Response); ok && resp.IsRedirect() {
		payload[RedirectKey] = resp.Location
		result = nil
	} else if c.session != nil && c.Flash().Check() {
		out, err := c.MakeLayoutPartial(FlashPartial, nil)
		if err != nil {
			return nil, err
		}
		payload[FlashPartialKey] = out
	}

	if len(c.assets) > 0 {
		payload[AssetsKey] = c.Assets()
	}

	switch r := result.(type) {
	case nil, bool:
	case map[string]any:
		for k, v := range r {
			payload[k] = v
		}
	case string:
		payload[ResultKey] = r
	default:
		if !mergeStringMap(payload, r) {
			return toResponse(r), nil
		}
	}

	return JSON(http.StatusOK, payload), nil
}

// mergeStringMap copies the entries of any map keyed by strings into
// payload. It reports false when v is not such a map.
func mergeStringMap(
	payload map[string]any,
	v any,
) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return false
	}

	iter := rv.MapRange()
	for iter.Next() {
		payload[iter.Key().String()] = iter.Value().Interface()
	}

	return true
}

func (c *Controller) ajaxValidationError(
	ve *apperr.ValidationError,
) error {
	fields := ve.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	payload := map[string]any{
		ErrorFieldsKey: fields,
	}

	if c.session != nil {
		c.Flash().Error(ve.Message)
	}

	out, err := c.MakeLayoutPartial(FlashPartial, nil)
	if err != nil {
		c.svc.Logger.Warn(
			"flash partial failed",
			slog.String("controller", c.name),
			slog.String("error", err.Error()),
		)
	} else {
		payload[FlashPartialKey] = out
	}

	return &apperr.AjaxError{Status: http.StatusOK, Payload: payload}
}
