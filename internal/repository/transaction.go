package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/financasapp/financas-service/internal/models"
)

const transactionSelect = `
		SELECT id, user_id, type, amount, status, description, date, due_date, paid_date,
		       recurrence_day, parent_id, installment_num, installment_total, created_at
		FROM financas.transactions`

// ListCompletedTransactions returns the user's completed ledger entries in
// creation order, the order the running-balance fold depends on.
func (r *Repository) ListCompletedTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := transactionSelect + `
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at, id`
	return r.queryTransactions(ctx, query, userID, models.StatusCompleted)
}

// ListPendingTransactions returns the user's pending entries
func (r *Repository) ListPendingTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := transactionSelect + `
		WHERE user_id = $1 AND status = $2
		ORDER BY due_date NULLS LAST, id`
	return r.queryTransactions(ctx, query, userID, models.StatusPending)
}

// ListPendingTransactionsInMonth returns pending entries whose due date falls
// inside the given reference month
func (r *Repository) ListPendingTransactionsInMonth(ctx context.Context, userID int64, month time.Time) ([]models.Transaction, error) {
	query := transactionSelect + `
		WHERE user_id = $1 AND status = $2
		  AND due_date >= $3 AND due_date < $4
		ORDER BY due_date, id`
	return r.queryTransactions(ctx, query, userID, models.StatusPending, month, month.AddDate(0, 1, 0))
}

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status,
			&tx.Description, &tx.Date, &tx.DueDate, &tx.PaidDate,
			&tx.RecurrenceDay, &tx.ParentID, &tx.InstallmentNum,
			&tx.InstallmentTotal, &tx.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
