package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/financasapp/financas-service/internal/engine"
	"github.com/financasapp/financas-service/internal/models"
)

// CreatePurchase inserts the purchase and its generated installments in one
// transaction, so readers never see a purchase without its plan.
func (r *Repository) CreatePurchase(ctx context.Context, purchase *models.Purchase, installments []models.Installment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO financas.purchases
			(user_id, card_id, description, total_amount, launch_type, installments,
			 start_installment, start_month, category_id, responsible_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		purchase.UserID, purchase.CardID, purchase.Description, purchase.TotalAmount,
		purchase.LaunchType, purchase.Installments, purchase.StartInstallment,
		purchase.StartMonth, purchase.CategoryID, purchase.ResponsibleID).
		Scan(&purchase.ID, &purchase.CreatedAt, &purchase.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	for i := range installments {
		installments[i].PurchaseID = purchase.ID
		if err := insertInstallment(ctx, tx, &installments[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purchase: %w", err)
	}
	return nil
}

// FindPurchase retrieves a purchase owned by the user
func (r *Repository) FindPurchase(ctx context.Context, userID, id int64) (*models.Purchase, error) {
	p := &models.Purchase{}
	query := `
		SELECT id, user_id, card_id, description, total_amount, launch_type, installments,
		       start_installment, start_month, category_id, responsible_id, created_at, updated_at
		FROM financas.purchases
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&p.ID, &p.UserID, &p.CardID, &p.Description, &p.TotalAmount, &p.LaunchType,
			&p.Installments, &p.StartInstallment, &p.StartMonth, &p.CategoryID,
			&p.ResponsibleID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("purchase %d not found: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase: %w", err)
	}
	return p, nil
}

// UpdatePurchase rewrites the purchase row and applies its regeneration plan
// atomically: deactivate unpaid rows, insert the fresh ones, one transaction.
// A concurrent reader sees either the old plan or the new one, never neither.
func (r *Repository) UpdatePurchase(ctx context.Context, purchase *models.Purchase, plan engine.RegenerationPlan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE financas.purchases
		SET card_id = $1, description = $2, total_amount = $3, launch_type = $4,
		    installments = $5, start_installment = $6, start_month = $7,
		    category_id = $8, responsible_id = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10 AND user_id = $11`
	res, err := tx.ExecContext(ctx, query,
		purchase.CardID, purchase.Description, purchase.TotalAmount, purchase.LaunchType,
		purchase.Installments, purchase.StartInstallment, purchase.StartMonth,
		purchase.CategoryID, purchase.ResponsibleID, purchase.ID, purchase.UserID)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("purchase %d not found: %w", purchase.ID, models.ErrNotFound)
	}

	for _, id := range plan.ToDeactivate {
		_, err := tx.ExecContext(ctx, `
			UPDATE financas.installments
			SET active = false, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND paid = false`, id)
		if err != nil {
			return fmt.Errorf("failed to deactivate installment %d: %w", id, err)
		}
	}

	for i := range plan.ToInsert {
		plan.ToInsert[i].PurchaseID = purchase.ID
		if err := insertInstallment(ctx, tx, &plan.ToInsert[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit regeneration: %w", err)
	}
	return nil
}

// InsertInstallments appends generated cycles for an existing purchase (the
// recurring roll-forward path) in one transaction.
func (r *Repository) InsertInstallments(ctx context.Context, installments []models.Installment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range installments {
		if err := insertInstallment(ctx, tx, &installments[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit installments: %w", err)
	}
	return nil
}

func insertInstallment(ctx context.Context, tx *sql.Tx, inst *models.Installment) error {
	query := `
		INSERT INTO financas.installments
			(purchase_id, user_id, card_id, description, amount, number, total,
			 reference_month, paid, active, recurring, category_id, responsible_id,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRowContext(ctx, query,
		inst.PurchaseID, inst.UserID, inst.CardID, inst.Description, inst.Amount,
		inst.Number, inst.Total, inst.ReferenceMonth, inst.Paid, inst.Active,
		inst.Recurring, inst.CategoryID, inst.ResponsibleID).
		Scan(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert installment: %w", err)
	}
	return nil
}

// ListInstallmentsByPurchase returns every installment row of a purchase,
// active or not, for regeneration diffing.
func (r *Repository) ListInstallmentsByPurchase(ctx context.Context, purchaseID int64) ([]models.Installment, error) {
	query := installmentSelect + `
		WHERE purchase_id = $1
		ORDER BY reference_month, number`
	return r.queryInstallments(ctx, query, purchaseID)
}

// ListInstallmentsBetween returns the user's installments whose reference
// month falls in [from, to), any paid/active state. Aggregation filters.
func (r *Repository) ListInstallmentsBetween(ctx context.Context, userID int64, from, to time.Time) ([]models.Installment, error) {
	query := installmentSelect + `
		WHERE user_id = $1 AND reference_month >= $2 AND reference_month < $3
		ORDER BY reference_month, id`
	return r.queryInstallments(ctx, query, userID, from, to)
}

// SetInstallmentPaid toggles the paid flag on an active installment
func (r *Repository) SetInstallmentPaid(ctx context.Context, userID, id int64, paid bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE financas.installments
		SET paid = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3 AND active = true`, paid, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("installment %d not found: %w", id, models.ErrNotFound)
	}
	return nil
}

// ListRecurringPurchases returns fixed recurring purchases together with the
// last month each one has installments generated for.
func (r *Repository) ListRecurringPurchases(ctx context.Context) ([]models.Purchase, map[int64]time.Time, error) {
	query := `
		SELECT p.id, p.user_id, p.card_id, p.description, p.total_amount, p.launch_type,
		       p.installments, p.start_installment, p.start_month, p.category_id,
		       p.responsible_id, p.created_at, p.updated_at,
		       MAX(i.reference_month) AS last_month
		FROM financas.purchases p
		JOIN financas.installments i ON i.purchase_id = p.id AND i.active = true
		WHERE p.launch_type = $1
		GROUP BY p.id`
	rows, err := r.db.QueryContext(ctx, query, models.LaunchRecurring)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list recurring purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	lastMonths := make(map[int64]time.Time)
	for rows.Next() {
		var p models.Purchase
		var last time.Time
		err := rows.Scan(&p.ID, &p.UserID, &p.CardID, &p.Description, &p.TotalAmount,
			&p.LaunchType, &p.Installments, &p.StartInstallment, &p.StartMonth,
			&p.CategoryID, &p.ResponsibleID, &p.CreatedAt, &p.UpdatedAt, &last)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan recurring purchase: %w", err)
		}
		purchases = append(purchases, p)
		lastMonths[p.ID] = last
	}
	return purchases, lastMonths, rows.Err()
}

const installmentSelect = `
		SELECT id, purchase_id, user_id, card_id, description, amount, number, total,
		       reference_month, paid, active, recurring, category_id, responsible_id,
		       created_at, updated_at
		FROM financas.installments`

func (r *Repository) queryInstallments(ctx context.Context, query string, args ...any) ([]models.Installment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	var out []models.Installment
	for rows.Next() {
		var inst models.Installment
		err := rows.Scan(&inst.ID, &inst.PurchaseID, &inst.UserID, &inst.CardID,
			&inst.Description, &inst.Amount, &inst.Number, &inst.Total,
			&inst.ReferenceMonth, &inst.Paid, &inst.Active, &inst.Recurring,
			&inst.CategoryID, &inst.ResponsibleID, &inst.CreatedAt, &inst.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}
