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

package export

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/retr0h/backoffice/internal/audit"
)

var errNotOpened = errors.New("exporter not opened")

// FileExporter writes audit entries as JSON lines.
type FileExporter struct {
	fs     afero.Fs
	path   string
	file   afero.File
	writer *bufio.Writer
}

// NewFileExporter creates a FileExporter writing to path on fsys.
func NewFileExporter(
	fsys afero.Fs,
	path string,
) *FileExporter {
	return &FileExporter{
		fs:   fsys,
		path: path,
	}
}

// Path returns the output file.
func (e *FileExporter) Path() string {
	return e.path
}

// Open creates the output file.
func (e *FileExporter) Open(
	_ context.Context,
) error {
	f, err := e.fs.Create(e.path)
	if err != nil {
		return fmt.Errorf("opening export file: %w", err)
	}

	e.file = f
	e.writer = bufio.NewWriter(f)

	return nil
}

// Write appends entry as one JSON line.
func (e *FileExporter) Write(
	_ context.Context,
	entry audit.Entry,
) error {
	if e.writer == nil {
		return errNotOpened
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}

	data = append(data, '\n')
	if _, err := e.writer.Write(data); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}

	return nil
}

// Close flushes buffered entries and closes the file.
func (e *FileExporter) Close(
	_ context.Context,
) error {
	if e.writer == nil {
		return errNotOpened
	}

	flushErr := e.writer.Flush()
	closeErr := e.file.Close()
	e.writer = nil

	if flushErr != nil {
		return fmt.Errorf("flushing writer: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing file: %w", closeErr)
	}

	return nil
}
