package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CarerID   *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string     `gorm:"type:varchar(255);not null"`
	Role      string     `gorm:"type:varchar(50);not null;default:'CARER'"`
	IsActive  bool       `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
