package clientrate

import (
	"errors"
	"strings"

	clientrateerrors "go-careops/internal/clientrate/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return clientrateerrors.ErrRateNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_client_rate_effective" {
			return clientrateerrors.ErrRateAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_client_rate_effective") {
		return clientrateerrors.ErrRateAlreadyExists
	}

	return err
}
