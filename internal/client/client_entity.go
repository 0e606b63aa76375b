package client

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID         uuid.UUID `gorm:"type:uuid;index"`
	FullName         string    `gorm:"type:varchar(150);not null"`
	AddressLine      string    `gorm:"type:varchar(255)"`
	Postcode         string    `gorm:"type:varchar(16)"`
	Phone            string    `gorm:"type:varchar(32)"`
	EmergencyContact string    `gorm:"type:varchar(255)"`
	CareRequirements string    `gorm:"type:text"`
	IsActive         bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Client) TableName() string {
	return "clients"
}

// ClientNote rows are append-only; there is no update or delete path.
type ClientNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID  uuid.UUID `gorm:"type:uuid;index"`
	ClientID  uuid.UUID `gorm:"type:uuid;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid"`
	Category  string    `gorm:"type:varchar(32);not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (ClientNote) TableName() string {
	return "client_notes"
}
