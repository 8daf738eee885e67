package models

import "time"

// Goal is a savings target. Its current value counts as reserved funds until
// the goal is marked complete.
type Goal struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Completed     bool       `json:"completed"`
}

// Investment is money set aside in an applied position. Active investments
// count as reserved funds.
type Investment struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Name           string  `json:"name"`
	OriginalAmount float64 `json:"original_amount"`
	CurrentAmount  float64 `json:"current_amount"`
	Active         bool    `json:"active"`
}

// Budget is a per-category monthly spending limit. Month is the first of the
// month, same bucketing as installments.
type Budget struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Month        time.Time `json:"month"`
	Limit        float64   `json:"limit"`
}

// Settlement (acerto) tracks how much a non-titular responsible party has
// repaid toward their share of a month's card bill.
type Settlement struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ResponsibleID   int64     `json:"responsible_id"`
	ResponsibleName string    `json:"responsible_name"`
	Month           time.Time `json:"month"`
	AmountDue       float64   `json:"amount_due"`
	AmountPaid      float64   `json:"amount_paid"`
}
