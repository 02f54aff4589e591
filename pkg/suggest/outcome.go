package suggest

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/layout"
)

// State is the lifecycle state of a dispatch.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
)

var stateNames = [...]string{"IDLE", "RUNNING", "COMPLETED", "FAILED", "CANCELLED"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// MarshalText renders the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Outcome is the terminal result of a dispatch. Exactly one of Fragment
// and Err is set for Completed and Failed; neither for Cancelled.
type Outcome struct {
	State    State            `json:"state"`
	Fragment *layout.Fragment `json:"fragment,omitempty"`
	Err      *errors.Error    `json:"-"`
}

type outcomeJSON struct {
	State    State            `json:"state"`
	Fragment *layout.Fragment `json:"fragment,omitempty"`
	Error    *errorJSON       `json:"error,omitempty"`
}

type errorJSON struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// MarshalJSON flattens Err into {"code", "message"}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{State: o.State, Fragment: o.Fragment}
	if o.Err != nil {
		out.Error = &errorJSON{Code: o.Err.Code, Message: o.Err.Message}
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON. The cause chain is lost.
func (o *Outcome) UnmarshalJSON(b []byte) error {
	var in outcomeJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*o = Outcome{State: in.State, Fragment: in.Fragment}
	if in.Error != nil {
		o.Err = &errors.Error{Code: in.Error.Code, Message: in.Error.Message}
	}
	return nil
}

// Completed returns a successful outcome.
func Completed(f layout.Fragment) Outcome {
	return Outcome{State: StateCompleted, Fragment: &f}
}

// Failed returns a failure outcome.
func Failed(err *errors.Error) Outcome {
	return Outcome{State: StateFailed, Err: err}
}

// Cancelled returns the cancellation outcome.
func Cancelled() Outcome {
	return Outcome{State: StateCancelled}
}

// Code returns the failure code, or "".
func (o Outcome) Code() errors.Code {
	if o.Err == nil {
		return ""
	}
	return o.Err.Code
}
