package models

import (
	"fmt"
	"time"
)

// LaunchType classifies how a card charge spreads across months.
type LaunchType string

const (
	// LaunchSingle is a one-off charge, exactly one installment.
	LaunchSingle LaunchType = "single"
	// LaunchInstallment splits the total across N numbered cycles.
	LaunchInstallment LaunchType = "installment"
	// LaunchRecurring is a fixed monthly charge, materialized 12 months ahead
	// at the full amount each cycle.
	LaunchRecurring LaunchType = "recurring"
)

// Purchase is a card charge that may span multiple months. StartInstallment
// allows resuming a plan that partially elapsed elsewhere (e.g. a card switch
// mid-installment): cycles before it are never generated.
type Purchase struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	CardID           int64      `json:"card_id"`
	Description      string     `json:"description"`
	TotalAmount      float64    `json:"total_amount"`
	LaunchType       LaunchType `json:"launch_type"`
	Installments     int        `json:"installments"`
	StartInstallment int        `json:"start_installment"`
	StartMonth       time.Time  `json:"start_month"`
	CategoryID       *int64     `json:"category_id,omitempty"`
	ResponsibleID    *int64     `json:"responsible_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Installment is one generated monthly cycle of a Purchase. Rows are
// soft-deleted (Active=false) when a purchase edit regenerates its plan, so
// paid history survives. ReferenceMonth is always the first of the month.
type Installment struct {
	ID             int64     `json:"id"`
	PurchaseID     int64     `json:"purchase_id"`
	UserID         int64     `json:"user_id"`
	CardID         int64     `json:"card_id"`
	Description    string    `json:"description"`
	Amount         float64   `json:"amount"`
	Number         int       `json:"number"`
	Total          int       `json:"total"`
	ReferenceMonth time.Time `json:"reference_month"`
	Paid           bool      `json:"paid"`
	Active         bool      `json:"active"`
	Recurring      bool      `json:"recurring"`
	CategoryID     *int64    `json:"category_id,omitempty"`
	ResponsibleID  *int64    `json:"responsible_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Label renders the cycle as "n/total" for numbered plans. Fixed recurring
// charges are not numbered in presentation.
func (i Installment) Label() string {
	if i.Recurring {
		return ""
	}
	return fmt.Sprintf("%d/%d", i.Number, i.Total)
}
