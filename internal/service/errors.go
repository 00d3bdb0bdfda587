package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/repository"
)

var (
	// ErrRejected wraps the domain.ValidationError explaining a refused edit.
	ErrRejected = errors.New("rejected")
	// ErrUnchanged reports an edit that would leave the board as it is.
	ErrUnchanged = errors.New("nothing to change")
	// ErrNotFound reports an unknown campaign, project or history entry.
	ErrNotFound = repository.ErrNotFound
)

func rejected(err error) error {
	return fmt.Errorf("%w: %w", ErrRejected, err)
}

func rejectField(field, reason string) error {
	return rejected(&domain.ValidationError{Field: field, Reason: reason})
}

func campaignNotFound(id string) error {
	return fmt.Errorf("campaign %q: %w", id, ErrNotFound)
}

func projectNotFound(id string) error {
	return fmt.Errorf("project %q: %w", id, ErrNotFound)
}

func isUnchanged(err error) bool {
	return errors.Is(err, ErrUnchanged)
}
