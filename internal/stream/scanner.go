// Package stream implements the progress frame protocol used between the
// server and its clients: a chunked HTTP body carrying frames of the form
// "data: {json}" separated by a blank line.
package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/docrelay/docrelay/internal/types"
)

// frameBoundary separates frames in the stream.
const frameBoundary = "\n\n"

// dataPrefix marks a significant frame. Frames without it are ignored.
const dataPrefix = "data: "

// Scanner decodes progress events from a frame stream. It is tolerant of
// arbitrary chunk boundaries: frames are reassembled from an accumulation
// buffer, and an unterminated tail at end of stream is treated as a final
// frame. Malformed frames are logged and dropped, never surfaced as errors.
type Scanner struct {
	r   io.Reader
	log *slog.Logger

	buf []byte
	eof bool
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{r: r, log: log}
}

// Next returns the next progress event. It returns io.EOF when the stream
// is exhausted, and the underlying read error if the transport fails.
func (s *Scanner) Next() (types.ProgressEvent, error) {
	for {
		frame, err := s.nextFrame()
		if err != nil {
			return types.ProgressEvent{}, err
		}
		ev, ok := s.decodeFrame(frame)
		if !ok {
			continue
		}
		return ev, nil
	}
}

// nextFrame returns the next raw frame, reading more input as needed.
func (s *Scanner) nextFrame() (string, error) {
	for {
		if idx := bytes.Index(s.buf, []byte(frameBoundary)); idx >= 0 {
			frame := string(s.buf[:idx])
			s.buf = s.buf[idx+len(frameBoundary):]
			return frame, nil
		}
		if s.eof {
			if len(s.buf) > 0 {
				// Server omitted the trailing terminator.
				frame := string(s.buf)
				s.buf = nil
				return frame, nil
			}
			return "", io.EOF
		}

		chunk := make([]byte, 4096)
		n, err := s.r.Read(chunk)
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}
			s.eof = true
		}
	}
}

// decodeFrame interprets one raw frame. Frames without the data prefix,
// with invalid JSON, or with an unknown status are dropped.
func (s *Scanner) decodeFrame(frame string) (types.ProgressEvent, bool) {
	frame = strings.TrimSpace(frame)
	if frame == "" {
		return types.ProgressEvent{}, false
	}
	if !strings.HasPrefix(frame, dataPrefix) {
		s.log.Debug("skipping non-data frame", "frame", truncate(frame, 80))
		return types.ProgressEvent{}, false
	}

	var ev types.ProgressEvent
	if err := json.Unmarshal([]byte(frame[len(dataPrefix):]), &ev); err != nil {
		s.log.Warn("dropping malformed frame", "error", err, "frame", truncate(frame, 80))
		return types.ProgressEvent{}, false
	}

	switch ev.Status {
	case types.StatusProcessing, types.StatusComplete, types.StatusError:
		return ev, true
	default:
		s.log.Warn("dropping frame with unknown status", "status", ev.Status)
		return types.ProgressEvent{}, false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
