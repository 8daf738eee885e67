package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/financasapp/financas-service/internal/models"
	"github.com/shopspring/decimal"
)

// RecurringCycles is how many months ahead a fixed recurring charge is
// materialized.
const RecurringCycles = 12

// RegenerationPlan is the two-phase output of re-expanding an edited purchase:
// unpaid rows to deactivate and fresh rows to insert. The persistence layer
// must apply both phases in a single transaction.
type RegenerationPlan struct {
	ToDeactivate []int64
	ToInsert     []models.Installment
}

// Expand generates the ordered installment sequence for a purchase. It is a
// pure function; persisting the result is the caller's concern.
func Expand(p models.Purchase) ([]models.Installment, error) {
	if err := validatePurchase(p); err != nil {
		return nil, err
	}

	switch effectiveLaunchType(p) {
	case models.LaunchSingle:
		return []models.Installment{newInstallment(p, 1, 1, p.TotalAmount, 0, false)}, nil

	case models.LaunchInstallment:
		n := p.Installments
		start := p.StartInstallment
		per, last := splitAmount(p.TotalAmount, n)
		out := make([]models.Installment, 0, n-start+1)
		for cycle := start; cycle <= n; cycle++ {
			amount := per
			if cycle == n {
				amount = last
			}
			out = append(out, newInstallment(p, cycle, n, amount, cycle-start, false))
		}
		return out, nil

	case models.LaunchRecurring:
		out := make([]models.Installment, 0, RecurringCycles)
		for cycle := 1; cycle <= RecurringCycles; cycle++ {
			out = append(out, newInstallment(p, cycle, RecurringCycles, p.TotalAmount, cycle-1, true))
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: unknown launch type %q", models.ErrValidation, p.LaunchType)
}

// ComputeRegenerationPlan expands an edited purchase and diffs the result
// against its existing installments. Unpaid active rows are deactivated; paid
// rows are preserved and their cycles are not re-emitted, so history never
// duplicates.
func ComputeRegenerationPlan(p models.Purchase, existing []models.Installment) (RegenerationPlan, error) {
	generated, err := Expand(p)
	if err != nil {
		return RegenerationPlan{}, err
	}

	var plan RegenerationPlan
	paidCycles := make(map[int]bool)
	paidMonths := make(map[time.Time]bool)
	for _, inst := range existing {
		if !inst.Active {
			continue
		}
		if inst.Paid {
			paidCycles[inst.Number] = true
			paidMonths[FirstOfMonth(inst.ReferenceMonth)] = true
			continue
		}
		plan.ToDeactivate = append(plan.ToDeactivate, inst.ID)
	}

	for _, inst := range generated {
		if inst.Recurring {
			// Recurring cycles have no stable numbering across edits; the
			// reference month identifies the cycle instead.
			if paidMonths[inst.ReferenceMonth] {
				continue
			}
		} else if paidCycles[inst.Number] {
			continue
		}
		plan.ToInsert = append(plan.ToInsert, inst)
	}
	return plan, nil
}

// ExtendRecurring materializes additional cycles of a fixed recurring
// purchase for every month after `after` up to and including `until`. The
// roll-forward job uses it to keep recurring charges generated ahead without
// touching existing rows.
func ExtendRecurring(p models.Purchase, after, until time.Time) []models.Installment {
	if p.LaunchType != models.LaunchRecurring {
		return nil
	}
	var out []models.Installment
	start := FirstOfMonth(p.StartMonth)
	month := FirstOfMonth(after).AddDate(0, 1, 0)
	for ; !month.After(FirstOfMonth(until)); month = month.AddDate(0, 1, 0) {
		if month.Before(start) {
			continue
		}
		monthOffset := (month.Year()-start.Year())*12 + int(month.Month()-start.Month())
		out = append(out, newInstallment(p, monthOffset+1, RecurringCycles, p.TotalAmount, monthOffset, true))
	}
	return out
}

func validatePurchase(p models.Purchase) error {
	if math.IsNaN(p.TotalAmount) || math.IsInf(p.TotalAmount, 0) || p.TotalAmount < 0 {
		return fmt.Errorf("%w: total amount must be a finite non-negative number", models.ErrValidation)
	}
	if p.LaunchType != models.LaunchInstallment {
		return nil
	}
	if p.Installments < 1 {
		return fmt.Errorf("%w: installment count must be at least 1, got %d", models.ErrValidation, p.Installments)
	}
	if p.StartInstallment < 1 {
		return fmt.Errorf("%w: start installment must be at least 1, got %d", models.ErrValidation, p.StartInstallment)
	}
	if p.StartInstallment > p.Installments {
		return fmt.Errorf("%w: start installment %d exceeds installment count %d",
			models.ErrValidation, p.StartInstallment, p.Installments)
	}
	return nil
}

// effectiveLaunchType normalizes a 1-cycle "installment" purchase to a single
// charge. Rows persisted with that shape keep aggregating instead of failing.
func effectiveLaunchType(p models.Purchase) models.LaunchType {
	if p.LaunchType == models.LaunchInstallment && p.Installments == 1 {
		return models.LaunchSingle
	}
	return p.LaunchType
}

// splitAmount divides total into n cycles at currency precision. The
// per-cycle amount rounds down so the remainder parked on the last cycle is
// never negative, and the full plan sums back to round(total, 2) exactly.
func splitAmount(total float64, n int) (per, last float64) {
	t := decimal.NewFromFloat(total).Round(2)
	p := t.Div(decimal.NewFromInt(int64(n))).RoundDown(2)
	l := t.Sub(p.Mul(decimal.NewFromInt(int64(n - 1))))
	return p.InexactFloat64(), l.InexactFloat64()
}

func newInstallment(p models.Purchase, number, total int, amount float64, monthOffset int, recurring bool) models.Installment {
	return models.Installment{
		PurchaseID:     p.ID,
		UserID:         p.UserID,
		CardID:         p.CardID,
		Description:    p.Description,
		Amount:         amount,
		Number:         number,
		Total:          total,
		ReferenceMonth: FirstOfMonth(p.StartMonth).AddDate(0, monthOffset, 0),
		Paid:           false,
		Active:         true,
		Recurring:      recurring,
		CategoryID:     p.CategoryID,
		ResponsibleID:  p.ResponsibleID,
	}
}
