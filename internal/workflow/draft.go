package workflow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// ErrInvalidTransition is returned for a form transition the state
// machine does not allow, such as opening an already open form.
var ErrInvalidTransition = errors.New("invalid form transition")

// DraftHolder owns the form mode and the draft being edited.
type DraftHolder struct {
	mu         sync.Mutex
	mode       domain.FormMode
	draft      domain.Record
	submitting bool
}

// Open enters mode. Create starts from an empty draft and ignores seed;
// Update starts from a copy of seed without __typename.
func (h *DraftHolder) Open(mode domain.FormMode, seed domain.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.mode.IsOpen() {
		return fmt.Errorf("open %s while %s: %w", mode, h.mode, ErrInvalidTransition)
	}
	if h.submitting {
		return fmt.Errorf("open %s while a submit is in flight: %w", mode, ErrInvalidTransition)
	}

	switch mode {
	case domain.FormCreate:
		h.draft = domain.Record{}
	case domain.FormUpdate:
		h.draft = seed.Without(domain.FieldTypename)
	default:
		return fmt.Errorf("open %s: %w", mode, ErrInvalidTransition)
	}
	h.mode = mode
	return nil
}

// Patch merges fields into the draft; the last write to a key wins.
// Patching a closed holder does nothing.
func (h *DraftHolder) Patch(fields domain.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.mode.IsOpen() {
		return
	}
	for k, v := range fields {
		h.draft[k] = v
	}
}

// Begin marks a submit in flight and returns the mode and a copy of the
// draft to send. Until End, further calls fail, so one draft yields at most
// one record.
func (h *DraftHolder) Begin() (domain.FormMode, domain.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.mode.IsOpen() {
		return h.mode, nil, fmt.Errorf("submit while %s: %w", h.mode, ErrInvalidTransition)
	}
	if h.submitting {
		return h.mode, nil, fmt.Errorf("submit while a submit is in flight: %w", ErrInvalidTransition)
	}
	h.submitting = true
	return h.mode, h.draft.Clone(), nil
}

// End finishes the submit started by Begin. Success closes the holder;
// failure keeps mode and draft for another attempt.
func (h *DraftHolder) End(ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.submitting = false
	if ok {
		h.mode = domain.FormNone
		h.draft = nil
	}
}

// Submitting reports whether a submit is in flight.
func (h *DraftHolder) Submitting() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.submitting
}

// Close discards the draft. A submit in flight still finishes.
func (h *DraftHolder) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.mode = domain.FormNone
	h.draft = nil
}

// Mode returns the current form mode.
func (h *DraftHolder) Mode() domain.FormMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

// Draft returns a copy of the draft. A closed holder returns an empty
// record.
func (h *DraftHolder) Draft() domain.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.draft.Clone()
}

// Get reads one draft field; absent keys read as nil.
func (h *DraftHolder) Get(name string) any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.draft[name]
}
