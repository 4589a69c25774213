// Package submission drives one form submission through validation, encoding
// and prediction, tracking the lifecycle state at each step.
package submission

import "fmt"

// State is a step of the submission lifecycle.
type State int

const (
	AwaitingInput State = iota
	Validating
	Encoding
	Predicting
	Rendered
	ErrorDisplayed
)

var stateNames = map[State]string{
	AwaitingInput:  "AwaitingInput",
	Validating:     "Validating",
	Encoding:       "Encoding",
	Predicting:     "Predicting",
	Rendered:       "Rendered",
	ErrorDisplayed: "ErrorDisplayed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool {
	return s == Rendered || s == ErrorDisplayed
}

var transitions = map[State][]State{
	AwaitingInput: {Validating},
	Validating:    {Encoding, ErrorDisplayed},
	Encoding:      {Predicting, ErrorDisplayed},
	Predicting:    {Rendered, ErrorDisplayed},
}

// CanTransition reports whether from → to is a legal step.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Lifecycle records the states one submission passes through.
// It is request-local and not safe for concurrent use.
type Lifecycle struct {
	state State
	trail []State
}

// NewLifecycle starts in AwaitingInput.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: AwaitingInput, trail: []State{AwaitingInput}}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return l.state
}

// Trail returns every state visited so far, in order.
func (l *Lifecycle) Trail() []State {
	out := make([]State, len(l.trail))
	copy(out, l.trail)
	return out
}

// Advance moves to the next state. An illegal transition is a programming
// error and panics.
func (l *Lifecycle) Advance(to State) {
	if !CanTransition(l.state, to) {
		panic(fmt.Sprintf("submission: illegal transition %s -> %s", l.state, to))
	}
	l.state = to
	l.trail = append(l.trail, to)
}
