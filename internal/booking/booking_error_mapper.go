package booking

import (
	"errors"

	bookingerrors "go-careops/internal/booking/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return bookingerrors.ErrBookingNotFound
	}

	return err
}
