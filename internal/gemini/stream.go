// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
)

// STREAMING: Robust SSE parsing with error handling

// MaxChunkSize is the maximum allowed size for a single SSE data payload.
const MaxChunkSize = 1024 * 1024

// StreamCallback is called with each text fragment as it arrives.
type StreamCallback func(text string)

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{
		reader: bufio.NewReader(r),
	}
}

// ReadEvent reads the next SSE event from the stream and returns the event
// type and joined data payload. Returns io.EOF when the stream ends.
func (s *SSEReader) ReadEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				// Flush any buffered data before EOF
				if len(dataLines) > 0 {
					return eventType, bytes.Join(dataLines, []byte("\n")), nil
				}
				return "", nil, io.EOF
			}
			return "", nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of event
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("event:")) {
			eventType = string(bytes.TrimSpace(line[6:]))
		} else if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Ignore other fields (id:, retry:, comments starting with :)
	}
}

// =============================================================================
// STREAM PROCESSING
// =============================================================================

// processStream reads the SSE stream, decoding each data payload as a
// GenerateContentResponse chunk and forwarding non-empty text to onToken.
func processStream(ctx context.Context, body io.Reader, onToken StreamCallback) error {
	reader := NewSSEReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, data, err := reader.ReadEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		if len(data) > MaxChunkSize {
			continue
		}

		// A data payload can itself be an error envelope mid-stream.
		var envelope apiErrorResponse
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
			return &streamAPIError{code: envelope.Error.Code, message: envelope.Error.Message}
		}

		var chunk GenerateContentResponse
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip malformed chunks
			continue
		}
		// Gemini sometimes sends empty chunks; skip them.
		if text := chunk.Text(); text != "" {
			onToken(text)
		}
	}
}

// streamAPIError carries an API error delivered inside the SSE stream.
type streamAPIError struct {
	code    int
	message string
}

func (e *streamAPIError) Error() string {
	return e.message
}
