package service

import (
	"context"
	"fmt"
	"time"

	"github.com/financasapp/financas-service/internal/engine"
	"github.com/financasapp/financas-service/internal/models"
)

// Notifications derives the user's alerts for today, applies subtype
// preferences and merges persisted read state. Each source domain degrades
// independently: a table that fails to load contributes nothing instead of
// failing the whole list.
func (s *Service) Notifications(ctx context.Context, userID int64, today time.Time) ([]models.Alert, error) {
	inputs := s.collectAlertInputs(ctx, userID, today)
	alerts := engine.DeriveAlerts(inputs)

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		s.log.Warnf("Preferences unavailable for user %d, using defaults: %v", userID, err)
		prefs = nil
	}
	alerts = engine.FilterAlerts(alerts, prefs)

	reads, err := s.repo.GetReadStates(ctx, userID)
	if err != nil {
		s.log.Warnf("Read states unavailable for user %d: %v", userID, err)
		reads = nil
	}
	for i := range alerts {
		alerts[i].Read = reads[alerts[i].ID]
	}
	return alerts, nil
}

func (s *Service) collectAlertInputs(ctx context.Context, userID int64, today time.Time) engine.AlertInputs {
	month := engine.FirstOfMonth(today)
	in := engine.AlertInputs{Today: today}

	installments, err := s.repo.ListInstallmentsBetween(ctx, userID,
		month.AddDate(0, -1, 0), month.AddDate(0, 1, 0))
	if err != nil {
		s.log.Warnf("Installments unavailable for user %d: %v", userID, err)
		installments = nil
	}

	if cards, err := s.repo.ListCards(ctx, userID); err != nil {
		s.log.Warnf("Cards unavailable for user %d: %v", userID, err)
	} else {
		in.Cards = cards
		in.CardTotals = engine.CardMonthTotals(installments, month)
	}

	if pending, err := s.repo.ListPendingTransactions(ctx, userID); err != nil {
		s.log.Warnf("Pending transactions unavailable for user %d: %v", userID, err)
	} else {
		in.PendingTransactions = pending
	}

	if goals, err := s.repo.ListGoals(ctx, userID); err != nil {
		s.log.Warnf("Goals unavailable for user %d: %v", userID, err)
	} else {
		in.Goals = goals
	}

	in.Budgets = s.budgetUsage(ctx, userID, installments, month)

	if settlements, err := s.repo.ListSettlements(ctx, userID, month); err != nil {
		s.log.Warnf("Settlements unavailable for user %d: %v", userID, err)
	} else {
		in.Settlements = settlements
	}

	if installments != nil {
		comparison := engine.CompareMonths(installments, month)
		in.Comparison = &comparison
	}
	return in
}

func (s *Service) budgetUsage(ctx context.Context, userID int64, installments []models.Installment, month time.Time) []engine.BudgetUsage {
	budgets, err := s.repo.ListBudgets(ctx, userID, month)
	if err != nil {
		s.log.Warnf("Budgets unavailable for user %d: %v", userID, err)
		return nil
	}

	spentByCategory := make(map[int64]float64)
	for _, inst := range installments {
		if !inst.Active || inst.CategoryID == nil {
			continue
		}
		if engine.FirstOfMonth(inst.ReferenceMonth).Equal(month) {
			spentByCategory[*inst.CategoryID] += inst.Amount
		}
	}

	usage := make([]engine.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		usage = append(usage, engine.BudgetUsage{Budget: b, Spent: spentByCategory[b.CategoryID]})
	}
	return usage
}

// MarkAlertRead persists the read flag for a derived alert id
func (s *Service) MarkAlertRead(ctx context.Context, userID int64, alertID string) error {
	return s.repo.MarkRead(ctx, userID, alertID)
}

// Preferences returns the user's full preference map, stored values layered
// over the per-subtype defaults.
func (s *Service) Preferences(ctx context.Context, userID int64) (map[string]bool, error) {
	stored, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs := make(map[string]bool, len(models.DefaultPreferences))
	for subtype, enabled := range models.DefaultPreferences {
		prefs[subtype] = enabled
	}
	for subtype, enabled := range stored {
		prefs[subtype] = enabled
	}
	return prefs, nil
}

// UpdatePreferences validates and persists subtype toggles
func (s *Service) UpdatePreferences(ctx context.Context, userID int64, prefs map[string]bool) error {
	for subtype := range prefs {
		if _, known := models.DefaultPreferences[subtype]; !known {
			return fmt.Errorf("%w: unknown alert subtype %q", models.ErrValidation, subtype)
		}
	}
	return s.repo.SavePreferences(ctx, userID, prefs)
}
