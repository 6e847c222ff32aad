package quickopen

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNoSelection is returned by Activate when nothing is selected.
	ErrNoSelection = errors.New("no candidate selected")

	// ErrSessionClosed is returned for events after activation or cancellation.
	ErrSessionClosed = errors.New("session closed")
)

// State is the selection state of a session.
type State int

const (
	NoSelection State = iota
	Selected
	Activated
	Cancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case NoSelection:
		return "no-selection"
	case Selected:
		return "selected"
	case Activated:
		return "activated"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events are accepted.
func (s State) Terminal() bool {
	return s == Activated || s == Cancelled
}

// Session holds the candidate list of one picker invocation, the current
// query and the selection. It is not safe for concurrent use.
type Session struct {
	id        string
	full      []Candidate
	matcher   Matcher
	query     string
	visible   []Candidate
	selection int
	state     State
	activated string
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithID sets the session identifier. An empty id keeps a generated one.
func WithID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// NewSession starts a session over full with an empty query. The first
// candidate is selected when there is one.
func NewSession(full []Candidate, m Matcher, opts ...SessionOption) *Session {
	if m == nil {
		m = SubstringMatcher{}
	}
	own := make([]Candidate, len(full))
	copy(own, full)

	s := &Session{
		id:        uuid.NewString(),
		full:      own,
		matcher:   m,
		visible:   own,
		selection: -1,
		state:     NoSelection,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.selectFirst()
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Query returns the current filter text.
func (s *Session) Query() string { return s.query }

// Matcher returns the matcher filtering the session.
func (s *Session) Matcher() Matcher { return s.matcher }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Full returns every candidate of the session. Callers must not modify it.
func (s *Session) Full() []Candidate { return s.full }

// Visible returns the candidates matching the query. Callers must not modify it.
func (s *Session) Visible() []Candidate { return s.visible }

// Selection returns the index of the selected visible candidate, or -1.
func (s *Session) Selection() int { return s.selection }

// Current returns the selected candidate.
func (s *Session) Current() (Candidate, bool) {
	if s.selection < 0 || s.selection >= len(s.visible) {
		return Candidate{}, false
	}
	return s.visible[s.selection], true
}

// ActivatedPath returns the path handed back on activation, or "".
func (s *Session) ActivatedPath() string { return s.activated }

// SetQuery refilters the candidates. The selected candidate stays selected
// while it remains visible; otherwise the first visible one is selected.
func (s *Session) SetQuery(query string) error {
	if s.state.Terminal() {
		return ErrSessionClosed
	}
	prev, hadPrev := s.Current()

	s.query = query
	s.visible = Filter(s.full, query, s.matcher)

	if hadPrev {
		for i, c := range s.visible {
			if c.Path == prev.Path {
				s.selection = i
				s.state = Selected
				return nil
			}
		}
	}
	s.selectFirst()
	return nil
}

// Move shifts the selection by delta, clamped to the visible range.
// It does nothing when nothing is selected.
func (s *Session) Move(delta int) error {
	if s.state.Terminal() {
		return ErrSessionClosed
	}
	if s.state != Selected {
		return nil
	}
	return s.MoveTo(s.selection + delta)
}

// MoveTo selects the visible candidate at index, clamped to the visible range.
func (s *Session) MoveTo(index int) error {
	if s.state.Terminal() {
		return ErrSessionClosed
	}
	if len(s.visible) == 0 {
		return nil
	}
	s.selection = max(0, min(index, len(s.visible)-1))
	s.state = Selected
	return nil
}

// Activate ends the session with the selected candidate and returns its path.
func (s *Session) Activate() (string, error) {
	switch s.state {
	case Selected:
		c, ok := s.Current()
		if !ok {
			return "", ErrNoSelection
		}
		s.state = Activated
		s.activated = c.Path
		return c.Path, nil
	case NoSelection:
		return "", ErrNoSelection
	default:
		return "", ErrSessionClosed
	}
}

// Cancel ends the session without a selection.
func (s *Session) Cancel() error {
	if s.state.Terminal() {
		return ErrSessionClosed
	}
	s.state = Cancelled
	return nil
}

func (s *Session) selectFirst() {
	if len(s.visible) == 0 {
		s.selection = -1
		s.state = NoSelection
		return
	}
	s.selection = 0
	s.state = Selected
}
