package model

import (
	"fmt"
	"strings"
)

// Status is the contact lifecycle of a relationship.
type Status string

// Lifecycle states, in forward order.
const (
	StatusNotContacted Status = "NOT_CONTACTED"
	StatusContacted    Status = "CONTACTED"
	StatusConfirmed    Status = "CONFIRMED"
)

var statusOrder = map[Status]int{
	StatusNotContacted: 0,
	StatusContacted:    1,
	StatusConfirmed:    2,
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := statusOrder[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Valid reports whether s is a known state.
func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// Next returns the following state. CONFIRMED is terminal.
func (s Status) Next() (Status, error) {
	switch s {
	case StatusNotContacted:
		return StatusContacted, nil
	case StatusContacted:
		return StatusConfirmed, nil
	case StatusConfirmed:
		return s, ErrTerminalStatus
	default:
		return s, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
}

// Advance moves the relationship one step forward.
func (r *Relationship) Advance() error {
	next, err := r.Status.Next()
	if err != nil {
		return err
	}
	r.Status = next
	return nil
}

// SetStatus sets any valid state directly, as operator tooling may.
func (r *Relationship) SetStatus(s Status) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	r.Status = s
	return nil
}
