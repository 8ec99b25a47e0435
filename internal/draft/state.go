package draft

import (
	"fmt"
	apperrors "ops-portal/pkg/app_errors"
)

// State is the lifecycle position of a draft ticket.
type State string

const (
	StateEmpty      State = "empty"
	StateCreating   State = "creating"
	StateDrafted    State = "drafted"
	StateSubmitting State = "submitting"
	StateCancelling State = "cancelling"
)

// IsValid reports whether s is one of the known states.
func (s State) IsValid() bool {
	switch s {
	case StateEmpty, StateCreating, StateDrafted, StateSubmitting, StateCancelling:
		return true
	}
	return false
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s State) CanTransitionTo(target State) bool {
	transitions := map[State][]State{
		StateEmpty:      {StateEmpty, StateCreating, StateSubmitting},
		StateCreating:   {StateDrafted, StateEmpty},
		StateDrafted:    {StateSubmitting, StateCancelling},
		StateSubmitting: {StateDrafted, StateCancelling, StateEmpty},
		StateCancelling: {StateEmpty, StateDrafted, StateSubmitting},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

// Busy is true while a remote call owned by the draft is in flight.
func (s State) Busy() bool {
	return s == StateCreating || s == StateSubmitting || s == StateCancelling
}

func transitionError(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, from, to)
}

// Mode selects how a ticket reaches the data store.
type Mode string

const (
	// ModeIncremental persists the header as soon as job and date are known and appends lines in batches.
	ModeIncremental Mode = "incremental"
	// ModeSingle creates header and lines in one call on submit; there is no draft to cancel.
	ModeSingle Mode = "single"
)

// ParseMode reads the configured mode; empty means incremental.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeIncremental, ModeSingle:
		return m, nil
	case "":
		return ModeIncremental, nil
	}
	return "", fmt.Errorf("unknown draft mode %q", s)
}
