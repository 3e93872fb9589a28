package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/docrelay/docrelay/internal/stream"
	"github.com/docrelay/docrelay/internal/translate"
	"github.com/docrelay/docrelay/internal/types"
)

var (
	// ErrStreamInProgress is returned when a new processing stream is
	// requested while one is already running.
	ErrStreamInProgress = errors.New("a processing stream is already running")

	// ErrDocCreationInProgress is returned when document creation is
	// requested while a previous request is still in flight.
	ErrDocCreationInProgress = errors.New("document creation already in progress")

	// ErrNotAuthenticated is returned when an operation requires an auth
	// token and none has been provided.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoPages is returned when document creation is requested before a
	// stream has completed successfully.
	ErrNoPages = errors.New("no processed pages available")
)

// API is the backend surface the orchestrator drives. Implemented by
// client.Client; tests substitute fakes.
type API interface {
	// ProcessPDF uploads PDF bytes and returns the progress frame stream.
	ProcessPDF(ctx context.Context, filename string, pdf io.Reader) (io.ReadCloser, error)

	// ProcessDriveFile asks the server to process a Drive file and returns
	// the progress frame stream.
	ProcessDriveFile(ctx context.Context, token, fileID, fileName string) (io.ReadCloser, error)

	// Translate sends a translation prompt and returns the raw translated text.
	Translate(ctx context.Context, prompt string) (string, error)

	// CreateDoc creates a Google Doc from the pages and returns its URL.
	CreateDoc(ctx context.Context, token string, pages []types.Page, originalFileName string) (string, error)
}

// Orchestrator owns the session state for one conversion attempt and
// sequences the pipeline: stream consumption, optional translation, and
// authenticated document creation. All work is sequential; Reset is the
// only cancellation primitive. In-flight requests are not aborted, but
// their results are discarded via a per-attempt generation tag.
type Orchestrator struct {
	api API
	log *slog.Logger

	mu          sync.Mutex
	state       State
	authToken   string
	generation  string
	docCreating bool
}

// NewOrchestrator creates an orchestrator in the Idle phase.
func NewOrchestrator(api API, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		api:        api,
		log:        log,
		state:      NewState(),
		generation: uuid.New().String(),
	}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SetAuthToken stores the bearer credential for Google-scoped operations.
// The token survives Reset so later attempts skip re-authentication.
func (o *Orchestrator) SetAuthToken(token string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.authToken = token
}

// AuthToken returns the held bearer credential, if any.
func (o *Orchestrator) AuthToken() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.authToken
}

// Reset returns the session to Idle, clearing pages, errors, counters, the
// document URL and the creation flag. The auth token is deliberately kept.
// Any in-flight request now belongs to a stale generation and its eventual
// result is discarded.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = NewState()
	o.docCreating = false
	o.generation = uuid.New().String()
}

// ProcessPDF runs the full streaming phase for a local PDF. It blocks until
// the stream terminates and returns the final state.
func (o *Orchestrator) ProcessPDF(ctx context.Context, filename string, pdf io.Reader) (State, error) {
	gen, err := o.beginStream()
	if err != nil {
		return o.Snapshot(), err
	}

	body, err := o.api.ProcessPDF(ctx, filename, pdf)
	if err != nil {
		o.failStream(gen, fmt.Sprintf("processing request failed: %v", err))
		return o.Snapshot(), err
	}
	defer body.Close()

	return o.consumeStream(gen, body)
}

// ProcessDriveFile runs the streaming phase for a Google Drive file.
// Requires an auth token.
func (o *Orchestrator) ProcessDriveFile(ctx context.Context, fileID, fileName string) (State, error) {
	token := o.AuthToken()
	if token == "" {
		return o.Snapshot(), ErrNotAuthenticated
	}

	gen, err := o.beginStream()
	if err != nil {
		return o.Snapshot(), err
	}

	body, err := o.api.ProcessDriveFile(ctx, token, fileID, fileName)
	if err != nil {
		o.failStream(gen, fmt.Sprintf("processing request failed: %v", err))
		return o.Snapshot(), err
	}
	defer body.Close()

	return o.consumeStream(gen, body)
}

// CreateDocument optionally translates the processed pages and creates a
// Google Doc from them. On success the resulting URL is stored in the state
// and returned. targetLanguage may be empty to skip translation.
func (o *Orchestrator) CreateDocument(ctx context.Context, originalFileName, targetLanguage string) (string, error) {
	o.mu.Lock()
	if o.docCreating {
		o.mu.Unlock()
		return "", ErrDocCreationInProgress
	}
	if o.authToken == "" {
		o.mu.Unlock()
		return "", ErrNotAuthenticated
	}
	if o.state.Phase != PhaseSuccess || len(o.state.Pages) == 0 {
		o.mu.Unlock()
		return "", ErrNoPages
	}
	o.docCreating = true
	gen := o.generation
	token := o.authToken
	pages := o.state.Pages
	o.mu.Unlock()

	// The flag is cleared regardless of outcome; a stale generation means a
	// Reset already cleared it.
	defer func() {
		o.mu.Lock()
		if o.generation == gen {
			o.docCreating = false
		}
		o.mu.Unlock()
	}()

	if targetLanguage != "" {
		translator := translate.New(o.api, o.log)
		pages = translator.TranslatePages(ctx, pages, targetLanguage)
	}

	url, err := o.api.CreateDoc(ctx, token, pages, originalFileName)
	if err != nil {
		o.applyEvent(gen, types.ProgressEvent{
			Status:  types.StatusError,
			Message: fmt.Sprintf("document creation failed: %v", err),
		})
		return "", err
	}

	o.mu.Lock()
	if o.generation == gen {
		o.state.DocumentURL = url
	}
	o.mu.Unlock()
	return url, nil
}

// DocCreationInProgress reports whether a document-creation request is in flight.
func (o *Orchestrator) DocCreationInProgress() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.docCreating
}

// beginStream transitions Idle/terminal -> Streaming, clearing prior
// results, and returns the generation tag for this attempt.
func (o *Orchestrator) beginStream() (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Phase == PhaseStreaming {
		return "", ErrStreamInProgress
	}
	o.state = State{Phase: PhaseStreaming, Message: "Uploading..."}
	o.generation = uuid.New().String()
	return o.generation, nil
}

// consumeStream applies events in arrival order until the stream ends.
func (o *Orchestrator) consumeStream(gen string, body io.Reader) (State, error) {
	sc := stream.NewScanner(body, o.log)
	sawTerminal := false
	for {
		ev, err := sc.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			o.failStream(gen, fmt.Sprintf("stream transport failed: %v", err))
			return o.Snapshot(), err
		}
		o.applyEvent(gen, ev)
		if ev.Terminal() {
			sawTerminal = true
		}
	}
	if !sawTerminal {
		o.failStream(gen, "stream ended without a result")
	}
	return o.Snapshot(), nil
}

// applyEvent reduces an event into the state unless the attempt it belongs
// to has been superseded by Reset.
func (o *Orchestrator) applyEvent(gen string, ev types.ProgressEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generation != gen {
		o.log.Debug("discarding stale event", "status", ev.Status)
		return
	}
	o.state = Reduce(o.state, ev)
}

func (o *Orchestrator) failStream(gen string, msg string) {
	o.applyEvent(gen, types.ProgressEvent{Status: types.StatusError, Message: msg})
}
