package initializer

import "fmt"

// State is the progress of one category within a single reconciliation run.
type State string

// Reconciliation states.
const (
	StateNotChecked      State = "NOT_CHECKED"
	StateChecking        State = "CHECKING"
	StateAlreadyComplete State = "ALREADY_COMPLETE"
	StateInserting       State = "INSERTING"
	StateInsertSucceeded State = "INSERT_SUCCEEDED"
	StateInsertFailed    State = "INSERT_FAILED"
)

// Terminal reports whether no further transition is allowed from s.
func (s State) Terminal() bool {
	switch s {
	case StateAlreadyComplete, StateInsertSucceeded, StateInsertFailed:
		return true
	}
	return false
}

// Succeeded reports whether s is a terminal success state.
func (s State) Succeeded() bool {
	return s == StateAlreadyComplete || s == StateInsertSucceeded
}

var transitions = map[State][]State{
	StateNotChecked: {StateChecking, StateInsertFailed},
	StateChecking:   {StateAlreadyComplete, StateInserting, StateInsertFailed},
	StateInserting:  {StateInsertSucceeded, StateInsertFailed},
}

// Tracker walks the per-category state machine. There is no way back to
// CHECKING within one run.
type Tracker struct {
	path []State
}

// NewTracker returns a tracker in NOT_CHECKED.
func NewTracker() *Tracker {
	return &Tracker{path: []State{StateNotChecked}}
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.path[len(t.path)-1]
}

// Path returns every state visited, in order.
func (t *Tracker) Path() []State {
	return append([]State(nil), t.path...)
}

// To moves the tracker to next, rejecting illegal transitions.
func (t *Tracker) To(next State) error {
	cur := t.State()
	for _, allowed := range transitions[cur] {
		if allowed == next {
			t.path = append(t.path, next)
			return nil
		}
	}
	return fmt.Errorf("illegal state transition %s -> %s", cur, next)
}

// must moves to next and panics on an illegal transition. It is used where
// the caller's control flow already guarantees the move is legal.
func (t *Tracker) must(next State) {
	if err := t.To(next); err != nil {
		panic(err)
	}
}

// fail moves to INSERT_FAILED from any non-terminal state.
func (t *Tracker) fail() {
	if !t.State().Terminal() {
		t.path = append(t.path, StateInsertFailed)
	}
}
