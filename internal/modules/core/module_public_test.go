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

package core_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/retr0h/backoffice/internal/apperr"
	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/authtoken"
	"github.com/retr0h/backoffice/internal/backend"
	"github.com/retr0h/backoffice/internal/event"
	"github.com/retr0h/backoffice/internal/lang"
	"github.com/retr0h/backoffice/internal/modules/core"
	"github.com/retr0h/backoffice/internal/permission"
	"github.com/retr0h/backoffice/internal/plugin"
	"github.com/retr0h/backoffice/internal/route"
	"github.com/retr0h/backoffice/internal/session"
	"github.com/retr0h/backoffice/internal/view"
)

const (
	testSigningKey = "test-signing-key"
	testAuthCookie = "backoffice_auth"
	testPassword   = "secret"
)

type blogPlugin struct{}

func (blogPlugin) Identifier() string { return "Acme.Blog" }

func (blogPlugin) Details() plugin.Details {
	return plugin.Details{Name: "Blog", Author: "Acme"}
}

type ModulePublicTestSuite struct {
	suite.Suite

	registry   *permission.Registry
	catalog    *route.Catalog
	translator *lang.Translator
	resolver   *route.Resolver
	dispatcher *backend.Dispatcher
	tokens     *authtoken.Token
}

func (s *ModulePublicTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appFs := afero.NewMemMapFs()

	plugins := plugin.NewManager(logger, appFs, "/plugins", nil)
	s.Require().NoError(plugins.Register(blogPlugin{}))

	var err error
	s.translator, err = lang.New(logger, "en")
	s.Require().NoError(err)

	s.registry = permission.New(logger)
	s.catalog = route.NewCatalog()
	s.Require().NoError(
		core.New(logger, plugins).Install(appFs, s.translator, s.registry, s.catalog),
	)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	s.Require().NoError(err)

	roles := auth.NewRoles(s.registry, []auth.Role{
		{Code: "admin", Permissions: []string{core.PermissionAccessDashboard}},
		{Code: "guest"},
	})
	provider := auth.NewConfigProvider(logger, roles, []auth.User{
		{Login: "admin", Role: "admin", PasswordHash: string(hash)},
		{Login: "visitor", Role: "guest", PasswordHash: string(hash)},
	})

	s.tokens = authtoken.New(logger)
	s.resolver = route.NewResolver(logger, s.catalog, plugins)
	s.dispatcher = backend.NewDispatcher(&backend.Services{
		Logger: logger,
		Views:  view.New(logger, appFs),
		Lang:   s.translator,
		Events: event.New(logger),
		Sessions: session.NewManager(
			logger,
			session.NewMemoryStore(logger, time.Hour),
			session.Options{CookieName: "backoffice_session", TTL: time.Hour},
		),
		Auth: auth.NewManager(logger, provider, s.tokens, testSigningKey, time.Hour),
		Config: backend.Config{
			URI:             "/backend",
			LoginPath:       core.LoginPath,
			AuthCookie:      testAuthCookie,
			LayoutPaths:     []string{core.LayoutPath},
			SystemViewPaths: []string{core.SystemViewPath},
		},
	})
}

func (s *ModulePublicTestSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *ModulePublicTestSuite) serve(
	req *http.Request,
) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()
	ectx := echo.New().NewContext(req, rec)

	m, err := s.resolver.Resolve(strings.TrimPrefix(req.URL.Path, "/backend"))
	s.Require().NoError(err)
	s.Require().NotNil(m, "route %s did not resolve", req.URL.Path)

	resp, err := s.dispatcher.Dispatch(ectx, m.Controller, m.Action, m.Params)
	if err != nil {
		return rec, err
	}

	return rec, resp.Write(ectx)
}

func (s *ModulePublicTestSuite) signIn(
	req *http.Request,
	login string,
	role string,
) {
	token, err := s.tokens.Generate(testSigningKey, login, role, false, time.Hour)
	s.Require().NoError(err)
	req.AddCookie(&http.Cookie{Name: testAuthCookie, Value: token})
}

func formRequest(
	target string,
	form url.Values,
) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func (s *ModulePublicTestSuite) TestInstall() {
	s.ElementsMatch(
		[]string{"backend/auth", "backend/index"},
		s.catalog.Keys(),
	)

	for _, def := range core.Permissions() {
		p, err := s.registry.Find(def.Code)
		s.Require().NoError(err)
		s.Equal(core.Owner, p.Owner)
	}

	s.Equal("Untitled", s.translator.Get("en", "backend::lang.page.untitled", nil))
	s.Equal("Naamloos", s.translator.Get("nl", "backend::lang.page.untitled", nil))
}

func (s *ModulePublicTestSuite) TestDashboard() {
	tests := []struct {
		name         string
		login        string
		role         string
		wantCode     int
		wantLocation string
		wantContains []string
	}{
		{
			name:         "guest is sent to the sign in page",
			wantCode:     http.StatusFound,
			wantLocation: "/backend/backend/auth/signin",
		},
		{
			name:         "user without dashboard access is denied",
			login:        "visitor",
			role:         "guest",
			wantCode:     http.StatusForbidden,
			wantContains: []string{"Access denied"},
		},
		{
			name:     "admin sees the dashboard",
			login:    "admin",
			role:     "admin",
			wantCode: http.StatusOK,
			wantContains: []string{
				"<title>Dashboard | Backoffice</title>",
				"Welcome, admin",
				"Blog <small>Acme.Blog</small>",
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := httptest.NewRequest(http.MethodGet, "/backend", nil)
			if tt.login != "" {
				s.signIn(req, tt.login, tt.role)
			}

			rec, err := s.serve(req)
			s.Require().NoError(err)

			s.Equal(tt.wantCode, rec.Code)
			if tt.wantLocation != "" {
				s.Equal(tt.wantLocation, rec.Header().Get(echo.HeaderLocation))
			}
			for _, want := range tt.wantContains {
				s.Contains(rec.Body.String(), want)
			}
		})
	}
}

func (s *ModulePublicTestSuite) TestSignin() {
	tests := []struct {
		name         string
		req          func() *http.Request
		wantCode     int
		wantLocation string
		wantCookie   bool
		wantContains string
	}{
		{
			name: "renders the sign in form",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/backend/backend/auth/signin", nil)
			},
			wantCode:     http.StatusOK,
			wantContains: `name="_handler" value="onSignin"`,
		},
		{
			name: "valid credentials sign the user in",
			req: func() *http.Request {
				return formRequest("/backend/backend/auth/signin", url.Values{
					"_handler": {"onSignin"},
					"login":    {"admin"},
					"password": {testPassword},
				})
			},
			wantCode:     http.StatusFound,
			wantLocation: "/backend/",
			wantCookie:   true,
		},
		{
			name: "wrong password re-renders the form with a flash message",
			req: func() *http.Request {
				return formRequest("/backend/backend/auth/signin", url.Values{
					"_handler": {"onSignin"},
					"login":    {"admin"},
					"password": {"wrong"},
				})
			},
			wantCode:     http.StatusOK,
			wantContains: "A user was not found with the given credentials.",
		},
		{
			name: "signed in users are sent to the dashboard",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/backend/backend/auth/signin", nil)
				s.signIn(req, "admin", "admin")
				return req
			},
			wantCode:     http.StatusFound,
			wantLocation: "/backend/",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec, err := s.serve(tt.req())
			s.Require().NoError(err)

			s.Equal(tt.wantCode, rec.Code)
			if tt.wantLocation != "" {
				s.Equal(tt.wantLocation, rec.Header().Get(echo.HeaderLocation))
			}
			if tt.wantContains != "" {
				s.Contains(rec.Body.String(), tt.wantContains)
			}

			var authCookie string
			for _, c := range rec.Result().Cookies() {
				if c.Name == testAuthCookie {
					authCookie = c.Value
				}
			}
			s.Equal(tt.wantCookie, authCookie != "")
		})
	}
}

func (s *ModulePublicTestSuite) TestSigninAjaxValidation() {
	req := formRequest("/backend/backend/auth/signin", url.Values{"login": {"admin"}})
	req.Header.Set(echo.HeaderXRequestedWith, "XMLHttpRequest")
	req.Header.Set(backend.HandlerHeader, "onSignin")

	_, err := s.serve(req)

	var ajaxErr *apperr.AjaxError
	s.Require().True(errors.As(err, &ajaxErr))
	s.Equal(http.StatusOK, ajaxErr.Status)
	s.Equal(
		map[string]string{"login": "Login and password are required."},
		ajaxErr.Payload[backend.ErrorFieldsKey],
	)
	s.Contains(ajaxErr.Payload[backend.FlashPartialKey], "Login and password are required.")
}

func (s *ModulePublicTestSuite) TestSignout() {
	req := httptest.NewRequest(http.MethodGet, "/backend/backend/auth/signout", nil)
	s.signIn(req, "admin", "admin")

	rec, err := s.serve(req)
	s.Require().NoError(err)

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/backend/backend/auth/signin", rec.Header().Get(echo.HeaderLocation))

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == testAuthCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	s.True(cleared)
}

func TestModulePublicTestSuite(t *testing.T) {
	suite.Run(t, new(ModulePublicTestSuite))
}
