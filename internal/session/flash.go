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

package session

import (
	"encoding/json"
	"log/slog"
)

// Flash message kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// marshalFn encodes the pending messages. Tests replace it to simulate
// encoding failures.
var marshalFn = json.Marshal

// Message is a single flash message.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Flash holds messages that survive until they are rendered.
type Flash struct {
	session *Session
}

// Success queues a success message.
func (f *Flash) Success(
	text string,
) {
	f.Add(FlashSuccess, text)
}

// Error queues an error message.
func (f *Flash) Error(
	text string,
) {
	f.Add(FlashError, text)
}

// Warning queues a warning message.
func (f *Flash) Warning(
	text string,
) {
	f.Add(FlashWarning, text)
}

// Info queues an informational message.
func (f *Flash) Info(
	text string,
) {
	f.Add(FlashInfo, text)
}

// Add queues a message of the given kind.
func (f *Flash) Add(
	kind string,
	text string,
) {
	messages := append(f.peek(), Message{Type: kind, Text: text})

	data, err := marshalFn(messages)
	if err != nil {
		f.session.logger.Warn("failed to encode flash message", slog.String("error", err.Error()))
		return
	}

	if err := f.session.Put(FlashKey, string(data)); err != nil {
		f.session.logger.Warn("failed to store flash message", slog.String("error", err.Error()))
	}
}

// Check reports whether messages are pending.
func (f *Flash) Check() bool {
	return len(f.peek()) > 0
}

// All returns the pending messages in the order they were added and clears
// them.
func (f *Flash) All() []Message {
	messages := f.peek()
	if len(messages) > 0 {
		if err := f.session.Forget(FlashKey); err != nil {
			f.session.logger.Warn(
				"failed to clear flash messages",
				slog.String("error", err.Error()),
			)
		}
	}

	return messages
}

func (f *Flash) peek() []Message {
	raw := f.session.Get(FlashKey)
	if raw == "" {
		return nil
	}

	var messages []Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		f.session.logger.Warn("discarding malformed flash data", slog.String("error", err.Error()))
		return nil
	}

	return messages
}
