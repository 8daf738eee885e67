package models

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// TransactionStatus is the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Transaction is a non-card ledger entry. Completed entries carry PaidDate and
// feed the running-balance fold; pending entries may carry DueDate and feed
// due-date alerts and the estimated balance. RecurrenceDay marks a fixed
// monthly entry; ParentID chains installment siblings for non-card plans.
type Transaction struct {
	ID               int64             `json:"id"`
	UserID           int64             `json:"user_id"`
	Type             TransactionType   `json:"type"`
	Amount           float64           `json:"amount"`
	Status           TransactionStatus `json:"status"`
	Description      string            `json:"description"`
	Date             time.Time         `json:"date"`
	DueDate          *time.Time        `json:"due_date,omitempty"`
	PaidDate         *time.Time        `json:"paid_date,omitempty"`
	RecurrenceDay    *int              `json:"recurrence_day,omitempty"`
	ParentID         *int64            `json:"parent_id,omitempty"`
	InstallmentNum   *int              `json:"installment_num,omitempty"`
	InstallmentTotal *int              `json:"installment_total,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}
