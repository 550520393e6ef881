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

package auth_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/retr0h/backoffice/internal/auth"
)

type ProviderPublicTestSuite struct {
	suite.Suite

	ctx context.Context
	sut *auth.ConfigProvider
}

func (s *ProviderPublicTestSuite) SetupTest() {
	s.ctx = context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	s.Require().NoError(err)

	roles := auth.NewRoles(nil, []auth.Role{
		{Code: "publisher", Permissions: []string{"acme.blog.publish"}},
	})
	s.sut = auth.NewConfigProvider(slog.Default(), roles, []auth.User{
		{
			Login:        "Jane",
			PasswordHash: string(hash),
			Role:         "publisher",
		},
	})
}

func (s *ProviderPublicTestSuite) TestFindByLogin() {
	tests := []struct {
		name        string
		login       string
		expectError error
	}{
		{
			name:  "when login matches case-insensitively",
			login: "jane",
		},
		{
			name:        "when login is unknown",
			login:       "john",
			expectError: auth.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			u, err := s.sut.FindByLogin(s.ctx, tt.login)
			if tt.expectError != nil {
				s.ErrorIs(err, tt.expectError)
				s.Nil(u)
				return
			}

			s.NoError(err)
			s.Equal("Jane", u.Login)
			s.True(u.HasAccess([]string{"acme.blog.publish"}, true))
		})
	}
}

func (s *ProviderPublicTestSuite) TestAuthenticate() {
	tests := []struct {
		name        string
		login       string
		password    string
		expectError error
	}{
		{
			name:     "when password matches",
			login:    "jane",
			password: "secret",
		},
		{
			name:        "when password does not match",
			login:       "jane",
			password:    "nope",
			expectError: auth.ErrInvalidCredentials,
		},
		{
			name:        "when login is unknown",
			login:       "john",
			password:    "secret",
			expectError: auth.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			u, err := s.sut.Authenticate(s.ctx, tt.login, tt.password)
			if tt.expectError != nil {
				s.ErrorIs(err, tt.expectError)
				s.Nil(u)
				return
			}

			s.NoError(err)
			s.Equal("Jane", u.Login)
		})
	}
}

func (s *ProviderPublicTestSuite) TestHashPassword() {
	hash, err := auth.HashPassword("secret")
	s.NoError(err)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
}

func TestProviderPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderPublicTestSuite))
}
