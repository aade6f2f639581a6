package domain

// Phase is the coarse lifecycle position of a runner session.
type Phase string

const (
	PhaseLoading  Phase = "loading"  // Waiting for content
	PhaseReady    Phase = "ready"    // Walking the blocks
	PhaseComplete Phase = "complete" // Advanced past the final block
	PhaseError    Phase = "error"    // Content could not be loaded
)

// Terminal reports whether no further transitions are accepted.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseError
}

// RunnerState is the snapshot of one learning session.
// It is plain data so that session stores can hold it; the runtime engine
// never mutates a state in place, it returns a new one.
type RunnerState struct {
	SessionID string `json:"session_id"`

	// Generation increases every time the session is (re)started.
	// Load results tagged with an older generation are discarded.
	Generation uint64 `json:"generation"`

	// LoadToken identifies the load requested by this start. It differs
	// between sessions that reuse an ID after being left or expired.
	LoadToken string `json:"load_token,omitempty"`

	Key   ContentKey `json:"key"`
	Phase Phase      `json:"phase"`

	Blocks Blocks      `json:"blocks,omitempty"`
	Lesson *LessonMeta `json:"lesson,omitempty"`

	Position    int   `json:"position"`
	Selected    *int  `json:"selected,omitempty"`
	LastCorrect *bool `json:"last_correct,omitempty"`
	Revealed    bool  `json:"revealed"`

	// Completed is the progress token the session was opened with.
	Completed string `json:"completed,omitempty"`

	Failure *Failure `json:"failure,omitempty"`
}

// NewRunnerState creates a session waiting for its content.
func NewRunnerState(sessionID string, generation uint64, key ContentKey, completed string) *RunnerState {
	return &RunnerState{
		SessionID:  sessionID,
		Generation: generation,
		Key:        key,
		Phase:      PhaseLoading,
		Completed:  completed,
	}
}

// Current returns the block at the current position.
func (s *RunnerState) Current() (Block, bool) {
	if s == nil || s.Position < 0 || s.Position >= len(s.Blocks) {
		return nil, false
	}
	return s.Blocks[s.Position], true
}

// IsLast reports whether the current position is the final block.
func (s *RunnerState) IsLast() bool {
	return s.Position == len(s.Blocks)-1
}

// Snapshot returns a deep copy. Blocks are immutable once loaded and are shared.
func (s *RunnerState) Snapshot() *RunnerState {
	if s == nil {
		return nil
	}
	next := *s
	if s.Selected != nil {
		v := *s.Selected
		next.Selected = &v
	}
	if s.LastCorrect != nil {
		v := *s.LastCorrect
		next.LastCorrect = &v
	}
	if s.Lesson != nil {
		meta := *s.Lesson
		next.Lesson = &meta
	}
	if s.Failure != nil {
		f := *s.Failure
		next.Failure = &f
	}
	return &next
}

// ClearSelection resets the per-block answer state.
func (s *RunnerState) ClearSelection() {
	s.Selected = nil
	s.LastCorrect = nil
	s.Revealed = false
}
