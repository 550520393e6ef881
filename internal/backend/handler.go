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
	"errors"
	"regexp"
	"strings"

	"github.com/retr0h/backoffice/internal/apperr"
)

// AjaxFallbackHandler succeeds without doing anything when nothing else
// handles it.
const AjaxFallbackHandler = "onAjax"

// UntitledPage is the lang key used when an action sets no title.
const UntitledPage = "backend::lang.page.untitled"

var handlerNamePattern = regexp.MustCompile(`^(?:\w+::)?on[A-Z]\w*$`)

// ValidHandlerName reports whether name is a handler name such as "onSave"
// or "list::onDelete".
func ValidHandlerName(
	name string,
) bool {
	return handlerNamePattern.MatchString(name)
}

// runHandler resolves and runs the named handler. It tries, in order, the
// beforeRunHandler event, then for "alias::name" the bound widget, and
// otherwise the action handler, the global handler and every bound widget.
// found is false when nothing handled the name.
func (c *Controller) runHandler(
	name string,
) (result any, found bool, err error) {
	if c.svc.Events != nil {
		intercepted, err := c.svc.Events.Until(c.Context(), EventBeforeRunHandler, c, name)
		if err != nil {
			return nil, false, err
		}
		if intercepted != nil {
			return intercepted, true, nil
		}
	}

	if alias, handlerName, ok := strings.Cut(name, "::"); ok {
		c.pageAction()

		if c.fatalError != nil {
			return nil, false, apperr.Configuration("%s", c.fatalError.Error())
		}

		w, bound := c.Widget(alias)
		if !bound {
			return nil, false, apperr.Configuration(
				"%s",
				c.Trans("backend::lang.widget.not_bound", "name", alias),
			)
		}

		if fn, ok := w.Handler(handlerName); ok {
			result, err := c.runWidgetHandler(w, fn)
			return orTrue(result), true, err
		}
	} else {
		if fn, ok := c.handlers[c.ac.Action+"_"+name]; ok {
			result, err := fn(c)
			return orTrue(result), true, err
		}

		if fn, ok := c.handlers[name]; ok {
			result, err := fn(c)
			return orTrue(result), true, err
		}

		c.suppressView = true
		if _, err := c.execPageAction(c.ac.Action, c.ac.Params); err != nil {
			return nil, false, err
		}

		for _, w := range c.widgets {
			if fn, ok := w.Handler(name); ok {
				result, err := c.runWidgetHandler(w, fn)
				return orTrue(result), true, err
			}
		}
	}

	if name == AjaxFallbackHandler {
		return true, true, nil
	}

	return nil, false, nil
}

// runWidgetHandler runs fn with the widget view paths available and
// merges the widget variables without overriding controller variables.
func (c *Controller) runWidgetHandler(
	w Widget,
	fn HandlerFunc,
) (any, error) {
	c.AddViewPath(w.ViewPaths()...)

	result, err := fn(c)

	for k, v := range w.Vars() {
		if _, exists := c.vars[k]; !exists {
			c.vars[k] = v
		}
	}

	return result, err
}

// pageAction runs the current action for its side effects, so widgets get
// bound. Failures are recorded as the fatal error.
func (c *Controller) pageAction() {
	if c.ac.Action == "" {
		return
	}

	c.suppressView = true
	if _, err := c.execPageAction(c.ac.Action, c.ac.Params); err != nil {
		c.HandleError(err)
	}
}

// execPageAction invokes the action and renders its result. A nil result
// renders the view named after the action unless views are suppressed.
func (c *Controller) execPageAction(
	actionName string,
	params []string,
) (*Response, error) {
	if !c.ActionExists(actionName, false) {
		return c.notFound(apperr.NotFound("action %s is not found in the controller %s", actionName, c.name))
	}

	result, err := c.actions[actionName].fn(c, params)
	if err != nil {
		return nil, err
	}

	if resp, ok := result.(*Response); ok {
		return resp, nil
	}

	if c.pageTitle == "" {
		c.pageTitle = UntitledPage
	}

	if result == nil {
		if c.suppressView {
			return nil, nil
		}
		return c.MakeView(actionName)
	}

	if body, ok := result.(string); ok {
		return c.makeViewContent(body)
	}

	return toResponse(result), nil
}

// orTrue maps results without content to true, so a handler that returns
// nothing still counts as handled.
func orTrue(
	result any,
) any {
	if isEmptyResult(result) {
		return true
	}

	return result
}

// isValidation reports whether err is a ValidationError.
func isValidation(
	err error,
) (*apperr.ValidationError, bool) {
	var ve *apperr.ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
