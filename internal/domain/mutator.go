package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalid is the sentinel wrapped by every ValidationError.
var ErrInvalid = errors.New("invalid board input")

// ValidationError explains why a mutation was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Mutator applies board operations. It owns the two impure inputs the
// operations need, the clock and the id generator, so that every operation
// is otherwise a pure function of its arguments.
//
// A rejected or redundant operation returns its input pointer unchanged;
// an accepted one returns a new snapshot with a bumped UpdatedAt.
type Mutator struct {
	now   func() time.Time
	newID func() string
}

// MutatorOption configures a Mutator.
type MutatorOption func(*Mutator)

// WithClock replaces the wall clock. Useful for tests.
func WithClock(now func() time.Time) MutatorOption {
	return func(m *Mutator) { m.now = now }
}

// WithIDGenerator replaces uuid generation. Useful for tests.
func WithIDGenerator(newID func() string) MutatorOption {
	return func(m *Mutator) { m.newID = newID }
}

// NewMutator creates a Mutator backed by time.Now and random UUIDs.
func NewMutator(opts ...MutatorOption) *Mutator {
	m := &Mutator{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMutator = NewMutator()

// touch stamps next as the successor of prev. Timestamps strictly increase
// even when the clock stalls or steps backwards.
func (m *Mutator) touch(next, prev *State) *State {
	ts := m.now().UnixMilli()
	if ts <= prev.UpdatedAt {
		ts = prev.UpdatedAt + 1
	}
	next.UpdatedAt = ts
	return next
}

// uniqueID keeps id when it is non-empty and unused, otherwise generates a
// fresh one. The chosen id is recorded in used.
func (m *Mutator) uniqueID(id string, used map[string]bool) string {
	if id == "" || used[id] {
		id = m.newID()
		for used[id] {
			id = m.newID()
		}
	}
	used[id] = true
	return id
}
