// Package session holds the client-side conversion session: the progress
// state reducer and the orchestrator that sequences streaming, translation,
// and document creation.
package session

import (
	"fmt"

	"github.com/docrelay/docrelay/internal/types"
)

// Phase is the lifecycle phase of a conversion session.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseStreaming Phase = "streaming"
	PhaseSuccess   Phase = "success"
	PhaseError     Phase = "error"
)

// Terminal reports whether the phase ends a conversion attempt.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseError
}

// State is the current view of one conversion attempt. It is a value type;
// Reduce returns a new State and never mutates its input.
type State struct {
	Phase          Phase
	Message        string
	ProcessedPages int
	TotalPages     int
	Pages          []types.Page
	DocumentURL    string
}

// NewState returns the Idle default.
func NewState() State {
	return State{Phase: PhaseIdle}
}

// Reduce folds one progress event into the state. Terminal phases are
// sticky: a processing event arriving after complete or error is ignored.
// Only the orchestrator's Reset returns the state to Idle.
func Reduce(s State, ev types.ProgressEvent) State {
	switch ev.Status {
	case types.StatusProcessing:
		if s.Phase.Terminal() {
			return s
		}
		msg := ev.Message
		if msg == "" {
			msg = fmt.Sprintf("Processing page %d...", ev.Page)
		}
		s.Phase = PhaseStreaming
		s.ProcessedPages = ev.Page
		s.TotalPages = ev.Total
		s.Message = msg
		return s

	case types.StatusComplete:
		s.Phase = PhaseSuccess
		s.Pages = ev.Pages
		s.ProcessedPages = len(ev.Pages)
		s.TotalPages = len(ev.Pages)
		s.Message = "Processing Complete!"
		return s

	case types.StatusError:
		s.Phase = PhaseError
		s.Message = ev.Message
		s.ProcessedPages = 0
		s.TotalPages = 0
		return s

	default:
		return s
	}
}
