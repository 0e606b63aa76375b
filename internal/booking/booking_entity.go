package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID           uuid.UUID `gorm:"type:uuid;index"`
	ClientID           uuid.UUID `gorm:"type:uuid;index"`
	CarerID            uuid.UUID `gorm:"type:uuid;index"`
	StartAt            time.Time `gorm:"not null"`
	EndAt              time.Time `gorm:"not null"`
	ServiceName        string    `gorm:"type:varchar(150)"`
	Status             string    `gorm:"type:varchar(32);not null;default:'scheduled'"`
	Notes              string    `gorm:"type:text"`
	CancellationReason string    `gorm:"type:text"`
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`

	ClientName string `gorm:"->"`
}

func (Booking) TableName() string {
	return "bookings"
}
