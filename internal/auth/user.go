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

package auth

import (
	"maps"
	"strings"
)

// Merge sets the effective permissions of the user from its role grants,
// applying the user overrides on top.
func (u *User) Merge(
	rolePermissions map[string]bool,
) {
	merged := make(map[string]int, len(rolePermissions)+len(u.Permissions))
	for code, granted := range rolePermissions {
		if granted {
			merged[code] = Grant
		}
	}
	maps.Copy(merged, u.Permissions)

	u.merged = merged
}

// MergedPermissions returns a copy of the effective permission map.
func (u *User) MergedPermissions() map[string]int {
	return maps.Clone(u.merged)
}

// HasAccess reports whether the user holds the permission codes. With
// requireAll every code must match, otherwise one is enough. Superusers
// always have access.
func (u *User) HasAccess(
	codes []string,
	requireAll bool,
) bool {
	if u.IsSuperUser {
		return true
	}

	return u.HasPermission(codes, requireAll)
}

// HasAnyAccess reports whether the user holds at least one of the codes.
func (u *User) HasAnyAccess(
	codes []string,
) bool {
	return u.HasAccess(codes, false)
}

// HasPermission checks the merged permissions without the superuser
// shortcut. A checked code ending in "*" matches any granted code with that
// prefix, one starting with "*" any granted code with that suffix, and a
// granted code ending in "*" grants every code with its prefix.
func (u *User) HasPermission(
	codes []string,
	requireAll bool,
) bool {
	for _, code := range codes {
		matched := u.matches(code)

		if requireAll && !matched {
			return false
		}
		if !requireAll && matched {
			return true
		}
	}

	return requireAll
}

func (u *User) matches(
	code string,
) bool {
	switch {
	case len(code) > 1 && strings.HasSuffix(code, "*"):
		prefix := code[:len(code)-1]
		for granted, value := range u.merged {
			if granted != prefix && strings.HasPrefix(granted, prefix) && value == Grant {
				return true
			}
		}
		return false
	case len(code) > 1 && strings.HasPrefix(code, "*"):
		suffix := code[1:]
		for granted, value := range u.merged {
			if granted != suffix && strings.HasSuffix(granted, suffix) && value == Grant {
				return true
			}
		}
		return false
	}

	for granted, value := range u.merged {
		if len(granted) > 1 && strings.HasSuffix(granted, "*") {
			prefix := granted[:len(granted)-1]
			if prefix != code && strings.HasPrefix(code, prefix) && value == Grant {
				return true
			}
			continue
		}
		if granted == code && value == Grant {
			return true
		}
	}

	return false
}
