package payroll

type CreatePayrollRequest struct {
	CarerID         string `json:"carer_id" binding:"required,uuid"`
	PeriodStart     string `json:"period_start" binding:"required"`
	PeriodEnd       string `json:"period_end" binding:"required"`
	MinutesWorked   int64  `json:"minutes_worked" binding:"required,gt=0"`
	HourlyRatePence int64  `json:"hourly_rate_pence"`
	ExpensesPence   int64  `json:"expenses_pence"`
	DeductionPence  int64  `json:"deduction_pence"`
}

type UpdatePayrollRequest struct {
	CarerID         string  `json:"carer_id" binding:"required,uuid"`
	PeriodStart     string  `json:"period_start" binding:"required"`
	PeriodEnd       string  `json:"period_end" binding:"required"`
	MinutesWorked   int64   `json:"minutes_worked" binding:"required,gt=0"`
	HourlyRatePence int64   `json:"hourly_rate_pence"`
	ExpensesPence   int64   `json:"expenses_pence"`
	DeductionPence  int64   `json:"deduction_pence"`
	Status          string  `json:"status" binding:"required,oneof=DRAFT PROCESSED PAID CANCELLED"`
	ApprovedBy      *string `json:"approved_by"`
	PaidAt          *string `json:"paid_at"`
}

type PayrollResponse struct {
	ID              string  `json:"id"`
	BranchID        string  `json:"branch_id"`
	CarerID         string  `json:"carer_id"`
	PeriodStart     string  `json:"period_start"`
	PeriodEnd       string  `json:"period_end"`
	MinutesWorked   int64   `json:"minutes_worked"`
	HourlyRatePence int64   `json:"hourly_rate_pence"`
	GrossPence      int64   `json:"gross_pence"`
	ExpensesPence   int64   `json:"expenses_pence"`
	DeductionPence  int64   `json:"deduction_pence"`
	NetPence        int64   `json:"net_pence"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	PaidAt          *string `json:"paid_at,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	PayslipURL      *string `json:"payslip_url,omitempty"`
}
