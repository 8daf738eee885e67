package engine

import (
	"fmt"
	"math"

	"github.com/financasapp/financas-service/internal/models"
)

// LedgerEntry pairs a completed transaction with the raw running balance
// after it was applied.
type LedgerEntry struct {
	Transaction models.Transaction `json:"transaction"`
	Balance     float64            `json:"balance"`
}

// Reconciliation is the output of the running-balance fold. Entry balances
// are raw cash movement (the audit trail); AvailableBalance subtracts
// reserved funds once, at the current instant, without rewriting history.
type Reconciliation struct {
	Entries          []LedgerEntry `json:"entries"`
	FinalBalance     float64       `json:"final_balance"`
	ReservedTotal    float64       `json:"reserved_total"`
	AvailableBalance float64       `json:"available_balance"`
}

// InitialBalance picks the ledger seed: the sum of per-bank initial balances
// when any is non-zero, otherwise the profile value.
func InitialBalance(profile float64, banks []models.BankAccount) float64 {
	var sum float64
	var any bool
	for _, b := range banks {
		if b.InitialBalance != 0 {
			any = true
		}
		sum += b.InitialBalance
	}
	if any {
		return sum
	}
	return profile
}

// Reconcile folds completed transactions in creation order into a running
// balance and applies the reserved-funds adjustment to the final point only.
// With no transactions the fold degenerates to the initial balance; the
// adjustment still applies.
func Reconcile(initial float64, completed []models.Transaction, reserved float64) (Reconciliation, error) {
	if !isFinite(initial) || !isFinite(reserved) {
		return Reconciliation{}, fmt.Errorf("%w: balance inputs must be finite", models.ErrValidation)
	}

	balance := initial
	entries := make([]LedgerEntry, 0, len(completed))
	for _, tx := range completed {
		if !isFinite(tx.Amount) {
			return Reconciliation{}, fmt.Errorf("%w: transaction %d has a non-finite amount", models.ErrValidation, tx.ID)
		}
		amount := math.Abs(tx.Amount)
		if tx.Type == models.TransactionExpense {
			balance -= amount
		} else {
			balance += amount
		}
		entries = append(entries, LedgerEntry{Transaction: tx, Balance: balance})
	}

	return Reconciliation{
		Entries:          entries,
		FinalBalance:     balance,
		ReservedTotal:    reserved,
		AvailableBalance: balance - reserved,
	}, nil
}

// Estimate projects the end-of-month position: what is available now, plus
// income still expected this month, minus pending expenses and the titular's
// unpaid card total.
func Estimate(available, pendingIncome, pendingExpense, unpaidCardTotal float64) float64 {
	return available + pendingIncome - pendingExpense - unpaidCardTotal
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
