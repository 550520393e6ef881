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

// Package validation provides a shared validator instance.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// permissionCodePattern matches dotted permission codes such as
// "acme.blog.access_posts" or wildcard grants such as "acme.blog.*".
var permissionCodePattern = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*(\.\*)?$|^\*$`)

// roleCodePattern matches role codes such as "publisher" or "content-editor".
var roleCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

var instance = newValidator()

// customHints maps validator tags to a hint appended to the default error.
var customHints = map[string]func(fe validator.FieldError) string{
	"permission_code": func(fe validator.FieldError) string {
		return fmt.Sprintf("%q is not a dotted lowercase permission code", fe.Value())
	},
	"role_code": func(fe validator.FieldError) string {
		return fmt.Sprintf("%q is not a lowercase role code", fe.Value())
	},
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("permission_code", func(fl validator.FieldLevel) bool {
		return IsPermissionCode(fl.Field().String())
	})
	_ = v.RegisterValidation("role_code", func(fl validator.FieldLevel) bool {
		return roleCodePattern.MatchString(fl.Field().String())
	})

	return v
}

// IsPermissionCode reports whether code is a well-formed permission code.
func IsPermissionCode(
	code string,
) bool {
	return len(code) > 0 && len(code) <= 128 && permissionCodePattern.MatchString(code)
}

// Struct validates a struct and returns the error message and false if invalid.
func Struct(
	v any,
) (string, bool) {
	if err := instance.Struct(v); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err.Error(), false
		}
		return formatErrors(validationErrors), false
	}

	return "", true
}

// Var validates a single value against a tag and returns the error message
// and false if invalid.
func Var(
	field any,
	tag string,
) (string, bool) {
	if err := instance.Var(field, tag); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err.Error(), false
		}
		return formatErrors(validationErrors), false
	}

	return "", true
}

// formatErrors builds the error string, appending a custom hint for known
// tags while keeping the standard validator prefix.
func formatErrors(
	errs validator.ValidationErrors,
) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msg := fe.Error()
		if fn, ok := customHints[fe.Tag()]; ok {
			msg = fmt.Sprintf("%s: %s", msg, fn(fe))
		}
		msgs = append(msgs, msg)
	}

	return strings.Join(msgs, "; ")
}

// Instance returns the shared validator for registering custom validators.
func Instance() *validator.Validate {
	return instance
}
