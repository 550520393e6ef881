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
	"sort"
	"strconv"

	masker "github.com/ggwhite/go-masker/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/retr0h/backoffice/internal/cli"
	"github.com/retr0h/backoffice/internal/config"
)

// configShowCmd represents the configShow command.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the loaded configuration",
	Long: `Show the loaded configuration with secrets masked.
`,
	Run: func(_ *cobra.Command, _ []string) {
		masked, err := maskConfig(appConfig)
		if err != nil {
			cli.LogFatal(logger, "failed to mask config", err)
		}

		fmt.Println()
		cli.PrintKV("Config", viper.ConfigFileUsed(), "Debug", cli.FormatBool(masked.Debug))
		cli.PrintKV(
			"Port", strconv.Itoa(masked.Server.Port),
			"Signing Key", masked.Server.Security.SigningKey,
		)
		cli.PrintKV("CORS", cli.FormatList(masked.Server.Security.CORS.AllowOrigins))
		cli.PrintKV(
			"Backend URI", masked.Backend.URI,
			"Login", masked.Backend.LoginURL,
		)
		cli.PrintKV(
			"CSRF", cli.FormatBool(masked.Backend.CSRFProtection),
			"Force Secure", cli.FormatBool(masked.Backend.ForceSecure),
		)
		cli.PrintKV(
			"Session", masked.Session.Driver,
			"Session TTL", masked.Session.TTL.String(),
		)
		cli.PrintKV(
			"Audit", cli.FormatBool(masked.Audit.Enabled),
			"Audit Driver", masked.Audit.Driver,
		)
		cli.PrintKV(
			"CMS", cli.FormatBool(masked.CMS.Enabled),
			"Theme", masked.CMS.Theme,
		)
		cli.PrintKV("Plugins", masked.Plugins.Path, "Disabled", cli.FormatList(masked.Plugins.Disabled))

		cli.PrintCompactTable([]cli.Section{
			roleSection(masked.Roles),
			userSection(masked.Users),
		})
	},
}

// maskConfig returns a copy of cfg with the secrets masked.
func maskConfig(
	cfg config.Config,
) (config.Config, error) {
	m := masker.NewMaskerMarshaler()

	out, err := m.Struct(&cfg)
	if err != nil {
		return config.Config{}, err
	}
	masked, ok := out.(*config.Config)
	if !ok {
		return config.Config{}, fmt.Errorf("unexpected masked type %T", out)
	}

	users := make([]config.User, 0, len(cfg.Users))
	for i := range cfg.Users {
		u := cfg.Users[i]
		out, err := m.Struct(&u)
		if err != nil {
			return config.Config{}, err
		}
		mu, ok := out.(*config.User)
		if !ok {
			return config.Config{}, fmt.Errorf("unexpected masked type %T", out)
		}
		users = append(users, *mu)
	}
	masked.Users = users

	return *masked, nil
}

func roleSection(
	roles map[string]config.Role,
) cli.Section {
	codes := make([]string, 0, len(roles))
	for code := range roles {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		r := roles[code]
		rows = append(rows, []string{
			code,
			r.Name,
			cli.FormatBool(r.System),
			cli.FormatList(r.Permissions),
		})
	}

	return cli.Section{
		Title:   "Roles",
		Headers: []string{"code", "name", "system", "permissions"},
		Rows:    rows,
	}
}

func userSection(
	users []config.User,
) cli.Section {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.Login,
			u.Role,
			cli.FormatBool(u.SuperUser),
			u.PasswordHash,
		})
	}

	return cli.Section{
		Title:   "Users",
		Headers: []string{"login", "role", "superuser", "password"},
		Rows:    rows,
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
