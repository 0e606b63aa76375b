package events

import "time"

const PayrollPayslipRequestedTopic = "care.payroll.payslip.requested.v1"

type PayrollPayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	PayrollID   string    `json:"payroll_id"`
	BranchID    string    `json:"branch_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
