package stream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/docrelay/docrelay/internal/types"
)

// chunkedReader yields the input in fixed-size chunks to exercise frame
// reassembly across arbitrary boundaries.
type chunkedReader struct {
	data []byte
	size int
	pos  int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := c.size
	if n > len(p) {
		n = len(p)
	}
	if c.pos+n > len(c.data) {
		n = len(c.data) - c.pos
	}
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return n, nil
}

func drain(t *testing.T, s *Scanner) []types.ProgressEvent {
	t.Helper()
	var events []types.ProgressEvent
	for {
		ev, err := s.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		events = append(events, ev)
	}
}

func TestScanner_BasicStream(t *testing.T) {
	input := `data: {"status":"processing","page":1,"total":3}` + "\n\n" +
		`data: {"status":"processing","page":2,"total":3}` + "\n\n" +
		`data: {"status":"complete","data":[{"pageNumber":1,"structure":[]}]}` + "\n\n"

	events := drain(t, NewScanner(strings.NewReader(input), nil))
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Status != types.StatusProcessing || events[0].Page != 1 {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[2].Status != types.StatusComplete {
		t.Errorf("expected complete last, got %s", events[2].Status)
	}
	if len(events[2].Pages) != 1 || events[2].Pages[0].PageNumber != 1 {
		t.Errorf("unexpected pages in complete event: %+v", events[2].Pages)
	}
}

func TestScanner_EveryChunkSize(t *testing.T) {
	input := `data: {"status":"processing","page":1,"total":2}` + "\n\n" +
		`data: {"status":"processing","page":2,"total":2}` + "\n\n" +
		`data: {"status":"complete","data":[]}` + "\n\n"

	// A frame boundary split at any byte offset must not change the result.
	for size := 1; size <= len(input); size++ {
		events := drain(t, NewScanner(&chunkedReader{data: []byte(input), size: size}, nil))
		if len(events) != 3 {
			t.Fatalf("chunk size %d: expected 3 events, got %d", size, len(events))
		}
		if events[1].Page != 2 {
			t.Errorf("chunk size %d: expected page 2, got %d", size, events[1].Page)
		}
		if events[2].Status != types.StatusComplete {
			t.Errorf("chunk size %d: expected complete, got %s", size, events[2].Status)
		}
	}
}

func TestScanner_UnterminatedTail(t *testing.T) {
	// No trailing blank line after the final frame.
	input := `data: {"status":"processing","page":1,"total":1}` + "\n\n" +
		`data: {"status":"complete","data":[]}`

	events := drain(t, NewScanner(strings.NewReader(input), nil))
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].Status != types.StatusComplete {
		t.Errorf("expected complete, got %s", events[1].Status)
	}
}

func TestScanner_DropsBadFrames(t *testing.T) {
	input := "data: {not json}\n\n" +
		": comment\n\n" +
		`data: {"status":"nonsense"}` + "\n\n" +
		"\n\n" +
		`data: {"status":"error","message":"boom"}` + "\n\n"

	events := drain(t, NewScanner(strings.NewReader(input), nil))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Status != types.StatusError || events[0].Message != "boom" {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestScanner_EmptyStream(t *testing.T) {
	events := drain(t, NewScanner(strings.NewReader(""), nil))
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestScanner_TransportError(t *testing.T) {
	s := NewScanner(failingReader{}, nil)
	if _, err := s.Next(); err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
