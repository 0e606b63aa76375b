package carer

import (
	"errors"
	"strings"

	carererrors "go-careops/internal/carer/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return carererrors.ErrCarerNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_carer_staff_number":
				return carererrors.ErrStaffNumberAlreadyExists
			case "uq_carer_email":
				return carererrors.ErrCarerAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_carer_staff_number") {
		return carererrors.ErrStaffNumberAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_carer_email") {
		return carererrors.ErrCarerAlreadyExists
	}

	return err
}
