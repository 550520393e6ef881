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

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/retr0h/backoffice/internal/authtoken"
	"github.com/retr0h/backoffice/internal/cli"
	"github.com/retr0h/backoffice/internal/config"
)

// TokenGenerator generates signed JWT tokens.
type TokenGenerator interface {
	Generate(
		signingKey string,
		login string,
		role string,
		superuser bool,
		ttl time.Duration,
	) (string, error)
}

// tokenGenerateCmd represents the tokenGenerate command.
var tokenGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a sign in token",
	Long: `Generate a sign in token for a configured user. The token is accepted
in the backend auth cookie and as a bearer token by the JSON endpoints.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		login, _ := cmd.Flags().GetString("login")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl == 0 {
			ttl = appConfig.Backend.SessionTTL
		}

		user, ok := findUser(appConfig.Users, login)
		if !ok {
			cli.LogFatal(logger, "unknown user", fmt.Errorf("no user with login %q", login))
			return
		}

		var tm TokenGenerator = authtoken.New(logger)
		token, err := tm.Generate(
			appConfig.Server.Security.SigningKey,
			user.Login,
			user.Role,
			user.SuperUser,
			ttl,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to generate token", err)
		}

		expires := "never"
		if ttl > 0 {
			expires = "in " + cli.FormatAge(ttl)
		}

		fmt.Println()
		cli.PrintKV("Login", user.Login, "Role", user.Role)
		cli.PrintKV("Expires", expires)
		fmt.Println()
		fmt.Println(token)
	},
}

// findUser returns the configured user with login, matched
// case-insensitively.
func findUser(
	users []config.User,
	login string,
) (config.User, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Login, login) {
			return u, true
		}
	}

	return config.User{}, false
}

func init() {
	tokenCmd.AddCommand(tokenGenerateCmd)

	tokenGenerateCmd.PersistentFlags().
		StringP("login", "l", "", "Login of the configured user")
	tokenGenerateCmd.PersistentFlags().
		Duration("ttl", 0, "Token lifetime (defaults to backend.session_ttl)")

	_ = tokenGenerateCmd.MarkPersistentFlagRequired("login")
}
