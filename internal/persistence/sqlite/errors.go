package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/example/study-scheduler/internal/persistence"
)

// errorMapper translates driver errors into the persistence sentinel errors.
type errorMapper struct{}

func newErrorMapper() *errorMapper {
	return &errorMapper{}
}

func (m *errorMapper) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "UNIQUE constraint failed"):
		return persistence.ErrDuplicate
	case containsAny(msg, "FOREIGN KEY constraint failed"):
		return persistence.ErrForeignKeyViolation
	case containsAny(msg, "CHECK constraint failed", "NOT NULL constraint failed"):
		return persistence.ErrConstraintViolation
	}
	return err
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
