package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/financasapp/financas-service/internal/models"
)

// ListCards returns the user's cards. Cards are managed elsewhere; this
// service only reads them.
func (r *Repository) ListCards(ctx context.Context, userID int64) ([]models.Card, error) {
	query := `
		SELECT id, user_id, name, brand, credit_limit, closing_day, due_day, color
		FROM financas.cards
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Brand, &c.CreditLimit,
			&c.ClosingDay, &c.DueDay, &c.Color)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ListResponsibleParties returns the user's responsible parties
func (r *Repository) ListResponsibleParties(ctx context.Context, userID int64) ([]models.ResponsibleParty, error) {
	query := `
		SELECT id, user_id, name, nickname, phone, is_titular
		FROM financas.responsible_parties
		WHERE user_id = $1
		ORDER BY is_titular DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responsible parties: %w", err)
	}
	defer rows.Close()

	var parties []models.ResponsibleParty
	for rows.Next() {
		var p models.ResponsibleParty
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Nickname, &p.Phone, &p.IsTitular); err != nil {
			return nil, fmt.Errorf("failed to scan responsible party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// ListGoals returns the user's savings goals
func (r *Repository) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, deadline, completed
		FROM financas.goals
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
			&g.Deadline, &g.Completed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// ListInvestments returns the user's investments
func (r *Repository) ListInvestments(ctx context.Context, userID int64) ([]models.Investment, error) {
	query := `
		SELECT id, user_id, name, original_amount, current_amount, active
		FROM financas.investments
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		var inv models.Investment
		err := rows.Scan(&inv.ID, &inv.UserID, &inv.Name, &inv.OriginalAmount,
			&inv.CurrentAmount, &inv.Active)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

// ListBudgets returns the user's budgets for a reference month
func (r *Repository) ListBudgets(ctx context.Context, userID int64, month time.Time) ([]models.Budget, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, c.name, b.month, b.amount_limit
		FROM financas.budgets b
		JOIN financas.categories c ON c.id = b.category_id
		WHERE b.user_id = $1 AND b.month = $2
		ORDER BY b.id`
	rows, err := r.db.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Month, &b.Limit)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// ListSettlements returns the user's inter-party settlements for a month
func (r *Repository) ListSettlements(ctx context.Context, userID int64, month time.Time) ([]models.Settlement, error) {
	query := `
		SELECT s.id, s.user_id, s.responsible_id, p.name, s.month, s.amount_due, s.amount_paid
		FROM financas.settlements s
		JOIN financas.responsible_parties p ON p.id = s.responsible_id
		WHERE s.user_id = $1 AND s.month = $2
		ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var s models.Settlement
		err := rows.Scan(&s.ID, &s.UserID, &s.ResponsibleID, &s.ResponsibleName,
			&s.Month, &s.AmountDue, &s.AmountPaid)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}
