package carer

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Carer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID        uuid.UUID `gorm:"type:uuid;index"`
	FullName        string
	Email           string `gorm:"uniqueIndex:uq_carer_email"`
	StaffNumber     string `gorm:"uniqueIndex:uq_carer_staff_number"`
	Phone           string
	HourlyRatePence int64
	HireDate        time.Time
	Active          bool `gorm:"default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}
