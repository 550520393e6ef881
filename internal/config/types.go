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

package config

import (
	"time"
)

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	Server    Server          `mapstructure:"server" mask:"struct"`
	Backend   Backend         `mapstructure:"backend"`
	Session   Session         `mapstructure:"session" mask:"struct"`
	Roles     map[string]Role `mapstructure:"roles" validate:"dive,keys,role_code,endkeys"`
	Users     []User          `mapstructure:"users" validate:"dive"`
	Plugins   Plugins         `mapstructure:"plugins"`
	CMS       CMS             `mapstructure:"cms"`
	Audit     Audit           `mapstructure:"audit" mask:"struct"`
	Telemetry Telemetry       `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "stdout" or "otlp".
	Exporter string `mapstructure:"exporter" validate:"omitempty,oneof=stdout otlp"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Server configuration settings.
type Server struct {
	// Port the server will bind to.
	Port int `mapstructure:"port"`
	// Security contains security-related configuration for the server, such as CORS and tokens.
	Security ServerSecurity `mapstructure:"security" mask:"struct"`
}

// ServerSecurity represents security-related settings for the server.
type ServerSecurity struct {
	// CORS Cross-Origin Resource Sharing (CORS) settings for the server.
	CORS CORS `mapstructure:"cors"`
	// SigningKey is the key used for signing or validating tokens.
	SigningKey string `mapstructure:"signing_key" validate:"required" mask:"password"`
}

// CORS represents the CORS (Cross-Origin Resource Sharing) settings.
type CORS struct {
	// List of origins allowed to access the server (e.g., "foo").
	AllowOrigins []string `mapstructure:"allow_origins,omitempty"`
}

// Backend configuration settings.
type Backend struct {
	// URI is the path prefix the backend is served under, e.g. "/backend".
	URI string `mapstructure:"uri" validate:"required,startswith=/"`
	// ForceSecure redirects plain HTTP page requests to HTTPS.
	ForceSecure bool `mapstructure:"force_secure"`
	// CSRFProtection enables CSRF token checks on unsafe requests.
	CSRFProtection bool `mapstructure:"csrf_protection"`
	// SessionTTL is the lifetime of the sign in token.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	// DefaultLocale is used when no Accept-Language matches.
	DefaultLocale string `mapstructure:"default_locale"`
	// LoginURL is the sign in page relative to the backend URI.
	LoginURL string `mapstructure:"login_url"`
	// AuthCookie is the cookie name of the sign in token.
	AuthCookie string `mapstructure:"auth_cookie"`
}

// Redis connection settings.
type Redis struct {
	// Addr is the host:port of the server.
	Addr string `mapstructure:"addr"`
	// Password is the AUTH password.
	Password string `mapstructure:"password" mask:"password"`
	DB       int    `mapstructure:"db"`
	// Prefix is prepended to every key.
	Prefix string `mapstructure:"prefix"`
}

// Session configuration settings.
type Session struct {
	// Driver is "memory" or "redis".
	Driver string `mapstructure:"driver" validate:"omitempty,oneof=memory redis"`
	// CookieName is the name of the session id cookie.
	CookieName string `mapstructure:"cookie_name"`
	// TTL is the idle lifetime of a session.
	TTL time.Duration `mapstructure:"ttl"`
	// GCSchedule is the cron schedule of memory store garbage collection.
	GCSchedule string `mapstructure:"gc_schedule"`
	Redis      Redis  `mapstructure:"redis" mask:"struct"`
}

// Role defines a named set of permissions assigned to users.
type Role struct {
	// Name is the display name.
	Name string `mapstructure:"name"`
	// Permissions granted to this role.
	Permissions []string `mapstructure:"permissions" validate:"dive,permission_code"`
	// System roles also receive the registered permissions scoped to them.
	System bool `mapstructure:"system"`
	// IncludeOrphans grants system roles the permissions scoped to no role.
	IncludeOrphans bool `mapstructure:"include_orphans"`
}

// User is a backend account.
type User struct {
	Login string `mapstructure:"login" validate:"required"`
	Email string `mapstructure:"email" validate:"omitempty,email"`
	// PasswordHash is a bcrypt hash, see "user hash-password".
	PasswordHash string `mapstructure:"password_hash" mask:"password"`
	Role         string `mapstructure:"role"`
	SuperUser    bool   `mapstructure:"superuser"`
	Locale       string `mapstructure:"locale"`
	// Permissions overrides the role: 1 grants a code, -1 denies it.
	Permissions map[string]int `mapstructure:"permissions" validate:"dive,keys,permission_code,endkeys,oneof=1 -1"`
}

// Plugins configuration settings.
type Plugins struct {
	// Path is the directory searched for plugin manifests.
	Path string `mapstructure:"path"`
	// Disabled lists plugin identifiers that are installed but not served.
	Disabled []string `mapstructure:"disabled"`
}

// CMS configuration settings.
type CMS struct {
	// Enabled serves CMS pages for paths no controller handles.
	Enabled bool `mapstructure:"enabled"`
	// Path is the directory holding themes.
	Path string `mapstructure:"path" validate:"required_if=Enabled true"`
	// Theme is the active theme directory name.
	Theme string `mapstructure:"theme" validate:"required_if=Enabled true"`
}

// Audit configuration settings.
type Audit struct {
	// Enabled records an entry for every authenticated backend request.
	Enabled bool `mapstructure:"enabled"`
	// Driver is "memory" or "redis".
	Driver string `mapstructure:"driver" validate:"omitempty,oneof=memory redis"`
	// Size caps the number of kept entries. Zero keeps everything the
	// driver allows.
	Size  int   `mapstructure:"size"`
	Redis Redis `mapstructure:"redis" mask:"struct"`
}
