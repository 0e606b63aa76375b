package carer

type CreateCarerRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	StaffNumber     string `json:"staff_number"`
	Phone           string `json:"phone"`
	HourlyRatePence int64  `json:"hourly_rate_pence" binding:"required,gt=0"`
	HireDate        string `json:"hire_date" binding:"required"`
}

type UpdateCarerRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	HourlyRatePence int64  `json:"hourly_rate_pence" binding:"required,gt=0"`
	HireDate        string `json:"hire_date" binding:"required"`
	Active          *bool  `json:"active" binding:"required"`
}

type CarerResponse struct {
	ID              string `json:"id"`
	BranchID        string `json:"branch_id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	StaffNumber     string `json:"staff_number"`
	Phone           string `json:"phone,omitempty"`
	HourlyRatePence int64  `json:"hourly_rate_pence"`
	HireDate        string `json:"hire_date"`
	Active          bool   `json:"active"`
}

// CarerOption is the trimmed shape used to fill reassignment pickers.
type CarerOption struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	StaffNumber string `json:"staff_number"`
}
