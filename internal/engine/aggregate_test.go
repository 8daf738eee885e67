package engine

import (
	"testing"
	"time"

	"github.com/financasapp/financas-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func monthInstallments() []models.Installment {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	feb := march.AddDate(0, -1, 0)
	return []models.Installment{
		{CardID: 1, Amount: 100, Paid: true, Active: true, ReferenceMonth: march, ResponsibleID: ptr(10)},
		{CardID: 1, Amount: 50, Paid: false, Active: true, ReferenceMonth: march},
		{CardID: 2, Amount: 200, Paid: false, Active: true, ReferenceMonth: march, ResponsibleID: ptr(11)},
		// Soft-deleted row, excluded everywhere.
		{CardID: 1, Amount: 999, Paid: false, Active: false, ReferenceMonth: march},
		// Previous month.
		{CardID: 1, Amount: 500, Paid: true, Active: true, ReferenceMonth: feb},
	}
}

func TestCardMonthTotals(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	totals := CardMonthTotals(monthInstallments(), march)

	require.Len(t, totals, 2)
	assert.Equal(t, CardTotals{CardID: 1, Total: 150, Paid: 100, Pending: 50}, totals[1])
	assert.Equal(t, CardTotals{CardID: 2, Total: 200, Paid: 0, Pending: 200}, totals[2])
}

func TestCardMonthTotalsEmpty(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	totals := CardMonthTotals(nil, march)
	assert.Empty(t, totals)
}

func TestPartySharesTitularFallback(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	parties := []models.ResponsibleParty{
		{ID: 10, Name: "Ana", IsTitular: true},
		{ID: 11, Name: "Bruno"},
	}

	shares := PartyShares(monthInstallments(), parties, march)
	require.Len(t, shares, 2)

	// Bruno has the single largest share; Ana picks up her own charge plus
	// the unattributed one.
	assert.Equal(t, int64(11), shares[0].ResponsibleID)
	assert.Equal(t, 200.0, shares[0].Total)
	assert.InDelta(t, 57.14, shares[0].Percentage, 0.01)

	assert.Equal(t, int64(10), shares[1].ResponsibleID)
	assert.Equal(t, 150.0, shares[1].Total)
	assert.Equal(t, 2, shares[1].Count)
	assert.InDelta(t, 42.86, shares[1].Percentage, 0.01)
}

func TestPartySharesZeroMonth(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	shares := PartyShares(nil, []models.ResponsibleParty{{ID: 1, IsTitular: true}}, march)
	assert.Empty(t, shares)
}

func TestCompareMonths(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	c := CompareMonths(monthInstallments(), march)

	assert.Equal(t, 350.0, c.Current)
	assert.Equal(t, 500.0, c.Previous)
	assert.Equal(t, -150.0, c.Delta)
	assert.InDelta(t, -30.0, c.DeltaPct, 1e-9)
	assert.Equal(t, DirectionDecrease, c.Direction)
}

func TestCompareMonthsNoPrevious(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	only := []models.Installment{
		{CardID: 1, Amount: 100, Active: true, ReferenceMonth: march},
	}
	c := CompareMonths(only, march)
	assert.Equal(t, DirectionIncrease, c.Direction)
	assert.Equal(t, 100.0, c.DeltaPct)
}

func TestAggregationIsIdempotent(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	installments := monthInstallments()
	parties := []models.ResponsibleParty{{ID: 10, Name: "Ana", IsTitular: true}, {ID: 11, Name: "Bruno"}}

	first := CardMonthTotals(installments, march)
	second := CardMonthTotals(installments, march)
	assert.Equal(t, first, second)

	firstShares := PartyShares(installments, parties, march)
	secondShares := PartyShares(installments, parties, march)
	assert.Equal(t, firstShares, secondShares)
}
