package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAction         = errors.New("invalid action")
	ErrInvalidState          = errors.New("invalid state")
	ErrInvalidModel          = errors.New("invalid transition model")
	ErrInvalidPolicy         = errors.New("invalid policy")
	ErrInvalidConfig         = errors.New("invalid configuration")
	ErrConvergenceNotReached = errors.New("convergence not reached")
)

// InvalidActionError is returned when an action index is out of range
// or not allowed from the current state. The environment is left untouched.
type InvalidActionError struct {
	State  State
	Action Action
	Reason string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %d in state %d: %s", e.Action, e.State, e.Reason)
}

func (e *InvalidActionError) Unwrap() error {
	return ErrInvalidAction
}

// ConvergenceError is returned when a sweep loop hits its iteration cap
// before the value change drops below the threshold.
type ConvergenceError struct {
	Sweeps int
	Delta  float64
	Theta  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("no convergence after %d sweeps: delta %g > theta %g", e.Sweeps, e.Delta, e.Theta)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergenceNotReached
}
