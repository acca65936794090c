// Package service holds the resource orchestrators: per-entity create,
// update, patch, get, list and delete operations composed from the
// transfer mapper, the merger, the association manager and the store.
//
// Identity and validation errors are always reported before the store is
// mutated.  Store failures are surfaced wrapped in ErrStoreUnavailable and
// never retried.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/repository"
)

var (
	// ErrIDAlreadyExists: create called with an identifier already set.
	ErrIDAlreadyExists = errors.New("a new entity cannot already have an ID")
	// ErrIDNull: update or patch called without an identifier in the body.
	ErrIDNull = errors.New("invalid id")
	// ErrIDInvalid: the body identifier differs from the path identifier.
	ErrIDInvalid = errors.New("invalid ID")
	// ErrIDNotFound: update or patch target absent at the pre-check.
	ErrIDNotFound = errors.New("entity not found")
	// ErrNotFound: lookup miss, including a patch target deleted after the
	// pre-check.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable wraps every failure of the store itself.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ErrValidationFailed is re-exported so callers need only this package to
// classify errors.
var ErrValidationFailed = model.ErrValidationFailed

// classify maps a store-level error onto the service error kinds.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrValidationFailed),
		errors.Is(err, ErrIDAlreadyExists),
		errors.Is(err, ErrIDNull),
		errors.Is(err, ErrIDInvalid),
		errors.Is(err, ErrIDNotFound),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrLoginExists),
		errors.Is(err, ErrBadCredentials):
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
