package engine

import (
	"math"
	"testing"

	"github.com/financasapp/financas-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileRunningBalances(t *testing.T) {
	history := []models.Transaction{
		{ID: 1, Type: models.TransactionIncome, Amount: 100},
		{ID: 2, Type: models.TransactionExpense, Amount: 30},
		{ID: 3, Type: models.TransactionIncome, Amount: 10},
	}

	recon, err := Reconcile(0, history, 20)
	require.NoError(t, err)
	require.Len(t, recon.Entries, 3)

	// Raw audit trail is never rewritten.
	assert.Equal(t, 100.0, recon.Entries[0].Balance)
	assert.Equal(t, 70.0, recon.Entries[1].Balance)
	assert.Equal(t, 80.0, recon.Entries[2].Balance)

	// Reserved funds come off the final point only.
	assert.Equal(t, 80.0, recon.FinalBalance)
	assert.Equal(t, 60.0, recon.AvailableBalance)
}

func TestReconcileNoTransactions(t *testing.T) {
	recon, err := Reconcile(500, nil, 120)
	require.NoError(t, err)
	assert.Empty(t, recon.Entries)
	assert.Equal(t, 500.0, recon.FinalBalance)
	assert.Equal(t, 380.0, recon.AvailableBalance)
}

func TestReconcileRejectsNonFinite(t *testing.T) {
	_, err := Reconcile(0, []models.Transaction{{ID: 1, Amount: math.NaN()}}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = Reconcile(math.Inf(1), nil, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestInitialBalancePrefersBankAccounts(t *testing.T) {
	banks := []models.BankAccount{
		{InitialBalance: 300},
		{InitialBalance: 0},
		{InitialBalance: 150},
	}
	assert.Equal(t, 450.0, InitialBalance(1000, banks))

	// All-zero bank balances fall back to the profile value.
	assert.Equal(t, 1000.0, InitialBalance(1000, []models.BankAccount{{InitialBalance: 0}}))
	assert.Equal(t, 1000.0, InitialBalance(1000, nil))
}

func TestEstimate(t *testing.T) {
	// Available 60, expecting 200 in, 80 out, 150 of unpaid card bill.
	assert.Equal(t, 30.0, Estimate(60, 200, 80, 150))
}
