package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/docrelay/docrelay/internal/types"
)

// Writer emits progress frames to a chunked HTTP response. Each frame is
// flushed immediately so clients observe events as they happen.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter creates a frame writer. If w implements http.Flusher each
// frame is flushed after writing.
func NewWriter(w io.Writer) *Writer {
	fw := &Writer{w: w}
	if f, ok := w.(http.Flusher); ok {
		fw.flusher = f
	}
	return fw
}

// Send writes one event as a "data: {json}\n\n" frame.
func (w *Writer) Send(ev types.ProgressEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := fmt.Fprintf(w.w, "%s%s%s", dataPrefix, payload, frameBoundary); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

// SendProcessing emits a processing event with an optional message.
func (w *Writer) SendProcessing(page, total int, message string) error {
	return w.Send(types.ProgressEvent{
		Status:  types.StatusProcessing,
		Page:    page,
		Total:   total,
		Message: message,
	})
}

// SendComplete emits the terminal complete event with all pages.
func (w *Writer) SendComplete(pages []types.Page) error {
	return w.Send(types.ProgressEvent{Status: types.StatusComplete, Pages: pages})
}

// SendError emits the terminal error event.
func (w *Writer) SendError(message string) error {
	return w.Send(types.ProgressEvent{Status: types.StatusError, Message: message})
}
