package models

import "time"

// User represents an account owner. InitialBalance is the profile-level
// starting balance, used when no bank account declares one.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"` // Not serialized
	InitialBalance float64   `json:"initial_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// BankAccount holds a per-bank starting balance. When any bank account has a
// non-zero initial balance, the sum of bank balances takes precedence over the
// profile value as the ledger seed.
type BankAccount struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Name           string  `json:"name"`
	InitialBalance float64 `json:"initial_balance"`
}
