package service

import (
	"context"
	"time"

	"github.com/financasapp/financas-service/internal/engine"
	"github.com/financasapp/financas-service/internal/models"
	"github.com/sirupsen/logrus"
)

// RunReminderSweep emails every user about faturas and pending transactions
// that are overdue or due within three days. Per-user failures are logged and
// skipped so one broken mailbox does not stall the sweep.
func (s *Service) RunReminderSweep(ctx context.Context, today time.Time) {
	userIDs, err := s.repo.ListUserIDs()
	if err != nil {
		s.log.Errorf("Reminder sweep aborted, cannot list users: %v", err)
		return
	}

	for _, userID := range userIDs {
		if err := s.remindUser(ctx, userID, today); err != nil {
			s.log.Errorf("Reminder sweep failed for user %d: %v", userID, err)
		}
	}
}

func (s *Service) remindUser(ctx context.Context, userID int64, today time.Time) error {
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return err
	}

	inputs := s.collectAlertInputs(ctx, userID, today)
	sent := 0
	for _, alert := range engine.DeriveAlerts(inputs) {
		urgent := alert.Severity == models.SeverityDanger || alert.Severity == models.SeverityWarning
		billRelated := alert.Category == models.CategoryCard || alert.Category == models.CategoryTransaction
		if !urgent || !billRelated {
			continue
		}
		if err := s.mailer.SendDueReminder(user.Email, user.Username, alert.Title, alert.Message); err != nil {
			return err
		}
		sent++
	}

	if sent > 0 {
		s.logEvent(ctx, logrus.Fields{
			"event":   "reminders_sent",
			"user_id": userID,
			"count":   sent,
		}).Info("Reminder emails sent")
	}
	return nil
}

// RollForwardRecurring keeps fixed recurring purchases materialized a full
// window ahead: whenever a purchase's last generated month is inside the
// horizon, the missing months are appended. Existing rows are never touched.
func (s *Service) RollForwardRecurring(ctx context.Context, today time.Time) {
	purchases, lastMonths, err := s.repo.ListRecurringPurchases(ctx)
	if err != nil {
		s.log.Errorf("Roll-forward aborted: %v", err)
		return
	}

	horizon := engine.FirstOfMonth(today).AddDate(0, engine.RecurringCycles-1, 0)
	for _, p := range purchases {
		last := lastMonths[p.ID]
		if !last.Before(horizon) {
			continue
		}
		extension := engine.ExtendRecurring(p, last, horizon)
		if len(extension) == 0 {
			continue
		}
		for i := range extension {
			extension[i].PurchaseID = p.ID
		}
		if err := s.repo.InsertInstallments(ctx, extension); err != nil {
			s.log.Errorf("Roll-forward failed for purchase %d: %v", p.ID, err)
			continue
		}
		s.logEvent(ctx, logrus.Fields{
			"event":       "recurring_extended",
			"purchase_id": p.ID,
			"months":      len(extension),
		}).Info("Recurring purchase extended")
	}
}
