package payroll

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payroll struct {
	ID       uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID uuid.UUID     `gorm:"type:uuid;not null;index:idx_branch_status"`
	CarerID  uuid.UUID     `gorm:"type:uuid;not null;index:idx_carer_period,unique"`
	Carer    *PayrollCarer `gorm:"foreignKey:CarerID;references:ID"`

	PeriodStart time.Time `gorm:"type:date;not null;index:idx_carer_period,unique"`
	PeriodEnd   time.Time `gorm:"type:date;not null;index:idx_carer_period,unique"`

	// Money is stored in pence to avoid floating point error.
	MinutesWorked   int64 `gorm:"type:bigint;not null;default:0"`
	HourlyRatePence int64 `gorm:"type:bigint;not null;default:0"`
	GrossPence      int64 `gorm:"type:bigint;not null;default:0"`
	ExpensesPence   int64 `gorm:"type:bigint;not null;default:0"`
	DeductionPence  int64 `gorm:"type:bigint;not null;default:0"`
	NetPence        int64 `gorm:"type:bigint;not null;default:0"`

	Status     string     `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_branch_status"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt          time.Time
	UpdatedAt          time.Time
	PaidAt             *time.Time `gorm:"index"`
	ApprovedAt         *time.Time `gorm:"index"`
	PayslipURL         *string
	PayslipGeneratedAt *time.Time     `gorm:"index"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

type PayrollCarer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName    string    `gorm:"column:full_name"`
	StaffNumber string    `gorm:"column:staff_number"`
}

func (PayrollCarer) TableName() string {
	return "carers"
}
