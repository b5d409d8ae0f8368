package repository

import (
	"errors"
	"fmt"

	"aninha-confeccoes/models"
)

// readFailure tags err as an unreachable-store read error
func readFailure(op string, err error) error {
	if errors.Is(err, models.ErrReadFailure) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrReadFailure, err)
}

// writeFailure tags err as a failed persist, leaving conflicts untouched
func writeFailure(op string, err error) error {
	if errors.Is(err, models.ErrWriteFailure) || errors.Is(err, models.ErrConflict) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrWriteFailure, err)
}

// conflict reports a version mismatch on write
func conflict(expected, actual string) error {
	return fmt.Errorf("%w: expected version %s, found %s", models.ErrConflict, expected, actual)
}
