package tenant

import "gorm.io/gorm"

// Scope restricts a query to one agency branch. Every repository applies it.
func Scope(branchID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("branch_id = ?", branchID)
	}
}
