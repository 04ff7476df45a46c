package application

import (
	"errors"

	"github.com/example/study-scheduler/internal/persistence"
)

// mapRepoError translates persistence sentinels into application errors so
// handlers never depend on the storage package.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("record", "violates a storage constraint")
		return vErr
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("record", "references a missing record")
		return vErr
	}
	return err
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
