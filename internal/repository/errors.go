// Package repository defines the Entity Store contract used by the
// services and its MySQL implementation.  The sentinel errors below are
// shared by every implementation (see also package memory) so that higher
// layers can distinguish "no such row" from a failing store.
package repository

import "errors"

// ErrNotFound is returned by FindByID when no row has the identifier, and
// by Save when asked to overwrite a row that no longer exists.  Save never
// recreates a deleted row.
var ErrNotFound = errors.New("record not found")

// ErrLoginExists is returned when registering a login or email that is
// already taken.  Handlers should translate this into an HTTP 409 response.
var ErrLoginExists = errors.New("login already exists")
