package repository

import (
	"errors"
	"fmt"

	"trek/internal/domain"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = fmt.Errorf("entity %w", domain.ErrNotFound)

	// ErrConflict is returned when an update carries a stale version.
	ErrConflict = errors.New("version conflict")

	// ErrDuplicate is returned when a uniqueness constraint rejects a create.
	ErrDuplicate = errors.New("duplicate entity")
)
