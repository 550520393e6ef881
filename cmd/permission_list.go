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
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/retr0h/backoffice/internal/cli"
	"github.com/retr0h/backoffice/internal/permission"
)

// permissionListCmd represents the permissionList command.
var permissionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered permissions",
	Long: `List the permissions registered by the core module and the installed
plugins, grouped by tab and sorted by order. With --role only the
permissions granted to that role are shown.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		role, _ := cmd.Flags().GetString("role")
		noOrphans, _ := cmd.Flags().GetBool("no-orphans")

		b, err := setupBackend(logger, appFs, appConfig)
		if err != nil {
			cli.LogFatal(logger, "failed to set up backend", err)
		}

		var granted map[string]bool
		if role != "" {
			granted = b.registry.ListForRole(role, !noOrphans)
		}

		for _, d := range b.registry.Duplicates() {
			logger.Warn(
				"duplicate permission",
				slog.String("owner", d.Owner),
				slog.String("code", d.Code),
				slog.Int("count", d.Count),
			)
		}

		cli.PrintCompactTable(permissionSections(b.registry.ListTabbed(), granted))
	},
}

// permissionSections renders each tab as a table section. A non-nil
// granted set keeps only the codes it contains.
func permissionSections(
	groups []permission.TabGroup,
	granted map[string]bool,
) []cli.Section {
	sections := make([]cli.Section, 0, len(groups))
	for _, g := range groups {
		var rows [][]string
		for _, p := range g.Permissions {
			if granted != nil && !granted[p.Code] {
				continue
			}
			roles := "*"
			if !p.IsOrphan() {
				roles = cli.FormatList(p.Roles)
			}
			rows = append(rows, []string{
				p.Code,
				p.Owner,
				p.Label,
				roles,
				strconv.Itoa(p.Order),
			})
		}
		if len(rows) == 0 {
			continue
		}

		sections = append(sections, cli.Section{
			Title:   g.Tab,
			Headers: []string{"code", "owner", "label", "roles", "order"},
			Rows:    rows,
		})
	}

	return sections
}

func init() {
	permissionCmd.AddCommand(permissionListCmd)

	permissionListCmd.Flags().
		StringP("role", "r", "", "Only show permissions granted to this role")
	permissionListCmd.Flags().
		Bool("no-orphans", false, "Exclude permissions not scoped to any role when filtering by role")
}
