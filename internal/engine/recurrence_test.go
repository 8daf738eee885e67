package engine

import (
	"math"
	"testing"
	"time"

	"github.com/financasapp/financas-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestExpandSingle(t *testing.T) {
	p := models.Purchase{
		ID:          1,
		CardID:      7,
		TotalAmount: 250.00,
		LaunchType:  models.LaunchSingle,
		StartMonth:  month(2026, time.March),
	}

	out, err := Expand(p)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 250.00, out[0].Amount)
	assert.Equal(t, "1/1", out[0].Label())
	assert.Equal(t, month(2026, time.March), out[0].ReferenceMonth)
	assert.True(t, out[0].Active)
	assert.False(t, out[0].Paid)
}

func TestExpandInstallmentCountAndMonths(t *testing.T) {
	p := models.Purchase{
		TotalAmount:      600.00,
		LaunchType:       models.LaunchInstallment,
		Installments:     6,
		StartInstallment: 1,
		StartMonth:       month(2026, time.January),
	}

	out, err := Expand(p)
	require.NoError(t, err)
	require.Len(t, out, 6)
	for i, inst := range out {
		assert.Equal(t, 100.00, inst.Amount)
		assert.Equal(t, month(2026, time.January).AddDate(0, i, 0), inst.ReferenceMonth)
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, 6, inst.Total)
	}
}

func TestExpandInstallmentSumInvariant(t *testing.T) {
	// 100 / 3 does not divide evenly; the last cycle absorbs the remainder.
	p := models.Purchase{
		TotalAmount:      100.00,
		LaunchType:       models.LaunchInstallment,
		Installments:     3,
		StartInstallment: 1,
		StartMonth:       month(2026, time.May),
	}

	out, err := Expand(p)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, 33.33, out[0].Amount)
	assert.Equal(t, 33.33, out[1].Amount)
	assert.Equal(t, 33.34, out[2].Amount)

	var sum float64
	for _, inst := range out {
		sum += inst.Amount
	}
	assert.InDelta(t, 100.00, sum, 1e-9)
}

func TestExpandInstallmentTinyTotal(t *testing.T) {
	// 0.05 split nine ways: the per-cycle amount rounds down, so no cycle
	// ever goes negative and the last one carries the whole remainder.
	p := models.Purchase{
		TotalAmount:      0.05,
		LaunchType:       models.LaunchInstallment,
		Installments:     9,
		StartInstallment: 1,
		StartMonth:       month(2026, time.May),
	}

	out, err := Expand(p)
	require.NoError(t, err)
	require.Len(t, out, 9)

	var sum float64
	for i, inst := range out {
		assert.GreaterOrEqual(t, inst.Amount, 0.0, "cycle %d went negative", i+1)
		if i < 8 {
			assert.Equal(t, 0.00, inst.Amount)
		}
		sum += inst.Amount
	}
	assert.Equal(t, 0.05, out[8].Amount)
	assert.InDelta(t, 0.05, sum, 1e-9)

	// The aggregate view of the plan matches the purchase total: abs-summing
	// months can only agree when no cycle is negative.
	var aggregated float64
	for m := month(2026, time.May); !m.After(month(2027, time.January)); m = m.AddDate(0, 1, 0) {
		aggregated += MonthTotal(out, m)
	}
	assert.InDelta(t, 0.05, aggregated, 1e-9)
}

func TestExpandInstallmentResumeMidPlan(t *testing.T) {
	// Resuming cycle 4 of 12: nine installments, first labeled "4/12".
	p := models.Purchase{
		TotalAmount:      1200.00,
		LaunchType:       models.LaunchInstallment,
		Installments:     12,
		StartInstallment: 4,
		StartMonth:       month(2026, time.February),
	}

	out, err := Expand(p)
	require.NoError(t, err)
	require.Len(t, out, 9)
	assert.Equal(t, 100.00, out[0].Amount)
	assert.Equal(t, "4/12", out[0].Label())
	assert.Equal(t, month(2026, time.February), out[0].ReferenceMonth)
	assert.Equal(t, "12/12", out[8].Label())
	assert.Equal(t, month(2026, time.October), out[8].ReferenceMonth)
}

func TestExpandRecurring(t *testing.T) {
	p := models.Purchase{
		TotalAmount: 49.90,
		LaunchType:  models.LaunchRecurring,
		StartMonth:  month(2026, time.January),
	}

	out, err := Expand(p)
	require.NoError(t, err)
	require.Len(t, out, RecurringCycles)
	for i, inst := range out {
		assert.Equal(t, 49.90, inst.Amount, "recurring amount is not divided")
		assert.Equal(t, month(2026, time.January).AddDate(0, i, 0), inst.ReferenceMonth)
		assert.Empty(t, inst.Label(), "recurring charges are not numbered")
	}
}

func TestExtendRecurringToHorizon(t *testing.T) {
	p := models.Purchase{
		ID:          3,
		TotalAmount: 50.00,
		LaunchType:  models.LaunchRecurring,
		StartMonth:  month(2026, time.January),
	}

	out := ExtendRecurring(p, month(2026, time.December), month(2027, time.March))
	require.Len(t, out, 3)
	for i, inst := range out {
		assert.Equal(t, month(2027, time.January).AddDate(0, i, 0), inst.ReferenceMonth)
		assert.Equal(t, 50.00, inst.Amount, "recurring extension keeps the full amount")
		assert.True(t, inst.Recurring)
		assert.True(t, inst.Active)
	}

	// Numbering continues past the initial window.
	assert.Equal(t, 13, out[0].Number)
	assert.Equal(t, 15, out[2].Number)
}

func TestExtendRecurringSkipsMonthsBeforeStart(t *testing.T) {
	p := models.Purchase{
		TotalAmount: 50.00,
		LaunchType:  models.LaunchRecurring,
		StartMonth:  month(2026, time.January),
	}

	out := ExtendRecurring(p, month(2025, time.October), month(2026, time.February))
	require.Len(t, out, 2)
	assert.Equal(t, month(2026, time.January), out[0].ReferenceMonth)
	assert.Equal(t, 1, out[0].Number)
	assert.Equal(t, month(2026, time.February), out[1].ReferenceMonth)
	assert.Equal(t, 2, out[1].Number)
}

func TestExtendRecurringIgnoresOtherLaunchTypes(t *testing.T) {
	p := models.Purchase{
		TotalAmount:      300.00,
		LaunchType:       models.LaunchInstallment,
		Installments:     3,
		StartInstallment: 1,
		StartMonth:       month(2026, time.January),
	}
	assert.Nil(t, ExtendRecurring(p, month(2026, time.March), month(2026, time.December)))
}

func TestExpandNormalizesSingleCycleInstallment(t *testing.T) {
	p := models.Purchase{
		TotalAmount:      80.00,
		LaunchType:       models.LaunchInstallment,
		Installments:     1,
		StartInstallment: 1,
		StartMonth:       month(2026, time.April),
	}

	out, err := Expand(p)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 80.00, out[0].Amount)
	assert.Equal(t, "1/1", out[0].Label())
}

func TestExpandValidation(t *testing.T) {
	base := models.Purchase{
		TotalAmount:      100,
		LaunchType:       models.LaunchInstallment,
		Installments:     3,
		StartInstallment: 1,
		StartMonth:       month(2026, time.January),
	}

	cases := []struct {
		name   string
		mutate func(*models.Purchase)
	}{
		{"zero installments", func(p *models.Purchase) { p.Installments = 0 }},
		{"zero start", func(p *models.Purchase) { p.StartInstallment = 0 }},
		{"start beyond count", func(p *models.Purchase) { p.StartInstallment = 4 }},
		{"negative total", func(p *models.Purchase) { p.TotalAmount = -10 }},
		{"NaN total", func(p *models.Purchase) { p.TotalAmount = math.NaN() }},
		{"infinite total", func(p *models.Purchase) { p.TotalAmount = math.Inf(1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			_, err := Expand(p)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestComputeRegenerationPlanPreservesPaid(t *testing.T) {
	p := models.Purchase{
		ID:               9,
		TotalAmount:      300.00,
		LaunchType:       models.LaunchInstallment,
		Installments:     3,
		StartInstallment: 1,
		StartMonth:       month(2026, time.January),
	}
	existing := []models.Installment{
		{ID: 101, PurchaseID: 9, Number: 1, Total: 3, Paid: true, Active: true, ReferenceMonth: month(2026, time.January)},
		{ID: 102, PurchaseID: 9, Number: 2, Total: 3, Paid: false, Active: true, ReferenceMonth: month(2026, time.February)},
		{ID: 103, PurchaseID: 9, Number: 3, Total: 3, Paid: false, Active: true, ReferenceMonth: month(2026, time.March)},
		{ID: 90, PurchaseID: 9, Number: 1, Total: 3, Paid: false, Active: false, ReferenceMonth: month(2026, time.January)},
	}

	plan, err := ComputeRegenerationPlan(p, existing)
	require.NoError(t, err)

	// Unpaid active rows go; the already-inactive row is left alone.
	assert.ElementsMatch(t, []int64{102, 103}, plan.ToDeactivate)

	// The paid cycle 1 is not re-emitted.
	require.Len(t, plan.ToInsert, 2)
	assert.Equal(t, 2, plan.ToInsert[0].Number)
	assert.Equal(t, 3, plan.ToInsert[1].Number)
}

func TestComputeRegenerationPlanRecurringPreservesPaidMonth(t *testing.T) {
	// Recurring cycles are identified by reference month, not number: a paid
	// month stays and is not duplicated by the regenerated plan.
	p := models.Purchase{
		ID:          12,
		TotalAmount: 99.90,
		LaunchType:  models.LaunchRecurring,
		StartMonth:  month(2026, time.January),
	}
	existing := []models.Installment{
		{ID: 201, PurchaseID: 12, Recurring: true, Paid: true, Active: true, ReferenceMonth: month(2026, time.January)},
		{ID: 202, PurchaseID: 12, Recurring: true, Paid: false, Active: true, ReferenceMonth: month(2026, time.February)},
	}

	plan, err := ComputeRegenerationPlan(p, existing)
	require.NoError(t, err)

	assert.Equal(t, []int64{202}, plan.ToDeactivate)
	require.Len(t, plan.ToInsert, RecurringCycles-1)
	for _, inst := range plan.ToInsert {
		assert.False(t, inst.ReferenceMonth.Equal(month(2026, time.January)),
			"paid month must not be re-emitted")
		assert.Equal(t, 99.90, inst.Amount)
	}
}
