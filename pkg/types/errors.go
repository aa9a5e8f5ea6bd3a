package types

import (
	"errors"

	"github.com/zeebo/errs"
)

// Error classes for the failure kinds a seeding run distinguishes.
var (
	// ErrDataSource marks a missing or malformed default definition. It is
	// fatal to the operation that loaded it.
	ErrDataSource = errs.Class("default data")

	// ErrDanglingReference marks a metadata definition whose format
	// binding names a format root that is not persisted.
	ErrDanglingReference = errs.Class("dangling reference")

	// ErrIndexCreation marks a search core the index facade could not create.
	ErrIndexCreation = errs.Class("index creation")
)

// Lookup and batch errors.
var (
	ErrNotFound              = errors.New("record not found")
	ErrInvalidType           = errors.New("not a valid data type")
	ErrInvalidPID            = errors.New("invalid page id")
	ErrUnresolvedPlaceholder = errors.New("unresolved batch placeholder")
	ErrBackendDetached       = errors.New("backend is detached")
	ErrAlreadyAttached       = errors.New("backend is already attached")
)
