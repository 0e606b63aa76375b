package client

import (
	"errors"

	clienterrors "go-careops/internal/client/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return clienterrors.ErrClientNotFound
	}

	return err
}
