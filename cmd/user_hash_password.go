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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/cli"
)

// userHashPasswordCmd represents the userHashPassword command.
var userHashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash a password for the config file",
	Long: `Read a password and print its bcrypt hash for a user's password_hash
setting. The password is prompted for on a terminal and read from stdin
otherwise.
`,
	Run: func(_ *cobra.Command, _ []string) {
		password, err := readPassword(os.Stdin)
		if err != nil {
			cli.LogFatal(logger, "failed to read password", err)
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			cli.LogFatal(logger, "failed to hash password", err)
		}

		fmt.Println(hash)
	},
}

// readPassword prompts without echo on a terminal and reads the first
// line of f otherwise.
func readPassword(
	f *os.File,
) (string, error) {
	if term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return passwordOrError(string(b))
	}

	return readPasswordLine(f)
}

func readPasswordLine(
	r io.Reader,
) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	return passwordOrError(strings.TrimRight(line, "\r\n"))
}

func passwordOrError(
	password string,
) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}

	return password, nil
}

func init() {
	userCmd.AddCommand(userHashPasswordCmd)
}
