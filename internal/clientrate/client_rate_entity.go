package clientrate

import (
	"time"

	"github.com/google/uuid"
)

// ClientRate rows are append-only; a rate change inserts a new row with a
// later effective date and the old row stays for historical payroll runs.
type ClientRate struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID        uuid.UUID `gorm:"type:uuid;index"`
	HourlyRatePence int64
	EffectiveDate   time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	ClientName string `gorm:"->"`
}

func (ClientRate) TableName() string {
	return "client_rates"
}
