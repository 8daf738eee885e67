package service

import (
	"context"
	"fmt"

	"github.com/financasapp/financas-service/internal/engine"
	"github.com/financasapp/financas-service/internal/models"
	"github.com/sirupsen/logrus"
)

// CreatePurchase validates a new card charge, expands its installment plan
// and persists both in one transaction.
func (s *Service) CreatePurchase(ctx context.Context, purchase models.Purchase) (*models.Purchase, []models.Installment, error) {
	normalizePurchase(&purchase)
	if err := validateLaunch(purchase); err != nil {
		return nil, nil, err
	}

	installments, err := engine.Expand(purchase)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.CreatePurchase(ctx, &purchase, installments); err != nil {
		return nil, nil, err
	}

	s.logEvent(ctx, logrus.Fields{
		"event":        "purchase_created",
		"purchase_id":  purchase.ID,
		"user_id":      purchase.UserID,
		"launch_type":  purchase.LaunchType,
		"installments": len(installments),
	}).Info("Purchase created")
	return &purchase, installments, nil
}

// UpdatePurchase re-expands an edited purchase and applies the regeneration
// plan: unpaid cycles are soft-deleted and regenerated, paid history is kept.
func (s *Service) UpdatePurchase(ctx context.Context, purchase models.Purchase) (*models.Purchase, error) {
	if _, err := s.repo.FindPurchase(ctx, purchase.UserID, purchase.ID); err != nil {
		return nil, err
	}

	normalizePurchase(&purchase)
	if err := validateLaunch(purchase); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListInstallmentsByPurchase(ctx, purchase.ID)
	if err != nil {
		return nil, err
	}

	plan, err := engine.ComputeRegenerationPlan(purchase, existing)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePurchase(ctx, &purchase, plan); err != nil {
		return nil, err
	}

	s.logEvent(ctx, logrus.Fields{
		"event":       "purchase_edited",
		"purchase_id": purchase.ID,
		"user_id":     purchase.UserID,
		"deactivated": len(plan.ToDeactivate),
		"inserted":    len(plan.ToInsert),
	}).Info("Purchase regenerated")
	return &purchase, nil
}

// SetInstallmentPaid toggles the paid flag on one installment
func (s *Service) SetInstallmentPaid(ctx context.Context, userID, installmentID int64, paid bool) error {
	if err := s.repo.SetInstallmentPaid(ctx, userID, installmentID, paid); err != nil {
		return err
	}
	s.logEvent(ctx, logrus.Fields{
		"event":          "installment_toggled",
		"installment_id": installmentID,
		"user_id":        userID,
		"paid":           paid,
	}).Info("Installment updated")
	return nil
}

func normalizePurchase(p *models.Purchase) {
	switch p.LaunchType {
	case models.LaunchSingle:
		p.Installments = 1
		p.StartInstallment = 1
	case models.LaunchRecurring:
		p.Installments = engine.RecurringCycles
		p.StartInstallment = 1
	case models.LaunchInstallment:
		if p.StartInstallment == 0 {
			p.StartInstallment = 1
		}
	}
	p.StartMonth = engine.FirstOfMonth(p.StartMonth)
}

// validateLaunch enforces the creation-boundary rule: a purchase tagged
// "installment" needs at least two cycles, otherwise it should have been a
// single charge.
func validateLaunch(p models.Purchase) error {
	switch p.LaunchType {
	case models.LaunchSingle, models.LaunchRecurring:
		return nil
	case models.LaunchInstallment:
		if p.Installments < 2 {
			return fmt.Errorf("%w: installment purchases need at least 2 cycles, got %d",
				models.ErrValidation, p.Installments)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown launch type %q", models.ErrValidation, p.LaunchType)
}
