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
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/retr0h/backoffice/internal/audit"
	"github.com/retr0h/backoffice/internal/audit/export"
	"github.com/retr0h/backoffice/internal/cli"
)

var (
	auditExportOutput    string
	auditExportBatchSize int
)

// auditExportCmd represents the auditExport command.
var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit log entries to a file",
	Long: `Export every audit log entry to a file for long-term retention.

Entries are read from the redis audit store page by page, newest first,
and written as JSON lines (JSONL format).
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		if appConfig.Audit.Driver != "redis" {
			cli.LogFatal(
				logger,
				"unsupported audit driver",
				fmt.Errorf("driver %q keeps entries in process, use \"redis\"", appConfig.Audit.Driver),
			)
		}

		client := newRedisClient(appConfig.Audit.Redis)
		defer func() { _ = client.Close() }()

		store := audit.NewRedisStore(
			logger,
			client,
			appConfig.Audit.Redis.Prefix,
			int64(appConfig.Audit.Size),
		)
		exporter := export.NewFileExporter(appFs, auditExportOutput)

		result, err := export.Run(
			ctx,
			logger,
			export.StoreFetcher(store),
			exporter,
			auditExportBatchSize,
			func(exported int, total int) {
				logger.Debug(
					"audit export progress",
					slog.Int("exported", exported),
					slog.Int("total", total),
				)
			},
		)
		if err != nil {
			cli.LogFatal(logger, "audit export failed", err)
		}

		fmt.Println()
		cli.PrintKV(
			"Exported", strconv.Itoa(result.ExportedEntries),
			"Total", strconv.Itoa(result.TotalEntries),
		)
		cli.PrintKV("Output", exporter.Path())
	},
}

func init() {
	auditCmd.AddCommand(auditExportCmd)
	auditExportCmd.Flags().
		StringVar(&auditExportOutput, "output", "", "Output file path (required)")
	auditExportCmd.Flags().
		IntVar(&auditExportBatchSize, "batch-size", export.DefaultBatchSize, "Entries fetched per page")
	_ = auditExportCmd.MarkFlagRequired("output")
}
