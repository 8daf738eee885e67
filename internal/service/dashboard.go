package service

import (
	"context"
	"time"

	"github.com/financasapp/financas-service/internal/engine"
	"github.com/financasapp/financas-service/internal/models"
)

// CardSummary joins a card with its month totals and next billing cycle.
type CardSummary struct {
	Card   models.Card         `json:"card"`
	Totals engine.CardTotals   `json:"totals"`
	Cycle  engine.BillingCycle `json:"cycle"`
}

// Dashboard is the month view: per-card totals, per-party shares,
// month-over-month comparison and the reconciled balances.
type Dashboard struct {
	Month            time.Time             `json:"month"`
	Cards            []CardSummary         `json:"cards"`
	Parties          []engine.PartyShare   `json:"parties"`
	Comparison       engine.Comparison     `json:"comparison"`
	Ledger           engine.Reconciliation `json:"ledger"`
	EstimatedBalance float64               `json:"estimated_balance"`
}

// Dashboard assembles the month view for a user. today anchors the billing
// cycle math and is injectable for tests; callers pass time.Now().
func (s *Service) Dashboard(ctx context.Context, userID int64, month, today time.Time) (*Dashboard, error) {
	month = engine.FirstOfMonth(month)

	cards, err := s.repo.ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	parties, err := s.repo.ListResponsibleParties(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One window covers the comparison month too.
	installments, err := s.repo.ListInstallmentsBetween(ctx, userID,
		month.AddDate(0, -1, 0), month.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	totals := engine.CardMonthTotals(installments, month)
	summaries := make([]CardSummary, 0, len(cards))
	for _, card := range cards {
		summaries = append(summaries, CardSummary{
			Card:   card,
			Totals: totals[card.ID],
			Cycle:  engine.NextCycle(card.ClosingDay, card.DueDay, today),
		})
	}

	ledger, err := s.reconcileLedger(ctx, userID)
	if err != nil {
		return nil, err
	}

	pendingIncome, pendingExpense, err := s.pendingThisMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Month:      month,
		Cards:      summaries,
		Parties:    engine.PartyShares(installments, parties, month),
		Comparison: engine.CompareMonths(installments, month),
		Ledger:     ledger,
		EstimatedBalance: engine.Estimate(ledger.AvailableBalance,
			pendingIncome, pendingExpense,
			titularUnpaidTotal(installments, parties, month)),
	}, nil
}

func (s *Service) reconcileLedger(ctx context.Context, userID int64) (engine.Reconciliation, error) {
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return engine.Reconciliation{}, err
	}
	banks, err := s.repo.ListBankAccounts(userID)
	if err != nil {
		return engine.Reconciliation{}, err
	}
	completed, err := s.repo.ListCompletedTransactions(ctx, userID)
	if err != nil {
		return engine.Reconciliation{}, err
	}

	return engine.Reconcile(
		engine.InitialBalance(user.InitialBalance, banks),
		completed,
		s.reservedFunds(ctx, userID),
	)
}

// reservedFunds sums incomplete goals and active investments. Either domain
// failing to load degrades to zero reserve for it rather than failing the
// whole reconciliation.
func (s *Service) reservedFunds(ctx context.Context, userID int64) float64 {
	var reserved float64

	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		s.log.Warnf("Goals unavailable for user %d, reserving nothing for them: %v", userID, err)
	} else {
		for _, g := range goals {
			if !g.Completed {
				reserved += g.CurrentAmount
			}
		}
	}

	investments, err := s.repo.ListInvestments(ctx, userID)
	if err != nil {
		s.log.Warnf("Investments unavailable for user %d, reserving nothing for them: %v", userID, err)
	} else {
		for _, inv := range investments {
			if inv.Active {
				reserved += inv.CurrentAmount
			}
		}
	}

	return reserved
}

func (s *Service) pendingThisMonth(ctx context.Context, userID int64, month time.Time) (income, expense float64, err error) {
	pending, err := s.repo.ListPendingTransactionsInMonth(ctx, userID, month)
	if err != nil {
		return 0, 0, err
	}
	for _, tx := range pending {
		if tx.Type == models.TransactionIncome {
			income += tx.Amount
		} else {
			expense += tx.Amount
		}
	}
	return income, expense, nil
}

// titularUnpaidTotal is the unpaid card spend the titular fronts this month:
// their own charges plus every unattributed one.
func titularUnpaidTotal(installments []models.Installment, parties []models.ResponsibleParty, month time.Time) float64 {
	var titularID int64
	for _, p := range parties {
		if p.IsTitular {
			titularID = p.ID
			break
		}
	}

	month = engine.FirstOfMonth(month)
	var total float64
	for _, inst := range installments {
		if !inst.Active || inst.Paid || !engine.FirstOfMonth(inst.ReferenceMonth).Equal(month) {
			continue
		}
		if inst.ResponsibleID == nil || *inst.ResponsibleID == titularID {
			total += inst.Amount
		}
	}
	return total
}
