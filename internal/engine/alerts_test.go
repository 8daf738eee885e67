package engine

import (
	"testing"
	"time"

	"github.com/financasapp/financas-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findAlert(alerts []models.Alert, id string) *models.Alert {
	for i := range alerts {
		if alerts[i].ID == id {
			return &alerts[i]
		}
	}
	return nil
}

func TestOverdueFaturaAlert(t *testing.T) {
	// Due day 10, today the 15th, open bill of 500: overdue by five days.
	in := AlertInputs{
		Today:      date(2026, time.June, 15),
		Cards:      []models.Card{{ID: 3, Name: "Nubank", CreditLimit: 5000, ClosingDay: 3, DueDay: 10}},
		CardTotals: map[int64]CardTotals{3: {CardID: 3, Pending: 500}},
	}

	alerts := DeriveAlerts(in)
	alert := findAlert(alerts, "fatura-vencida-3")
	require.NotNil(t, alert)
	assert.Equal(t, models.SeverityDanger, alert.Severity)
	assert.Equal(t, models.CategoryCard, alert.Category)
	assert.Contains(t, alert.Message, "5 dia(s)")
}

func TestFaturaDueAfterClosingNotOverdue(t *testing.T) {
	// Closing 25, due 5: three days after closing the bill is due on the 5th
	// of the next month, eight days ahead. It must not read as overdue.
	in := AlertInputs{
		Today:      date(2026, time.March, 28),
		Cards:      []models.Card{{ID: 9, Name: "Itaú", CreditLimit: 5000, ClosingDay: 25, DueDay: 5}},
		CardTotals: map[int64]CardTotals{9: {CardID: 9, Pending: 320}},
	}

	alerts := DeriveAlerts(in)
	assert.Nil(t, findAlert(alerts, "fatura-vencida-9"))
	alert := findAlert(alerts, "fatura-15dias-9")
	require.NotNil(t, alert)
	assert.Contains(t, alert.Message, "8 dias")
}

func TestLimitUsageThresholds(t *testing.T) {
	card := models.Card{ID: 4, Name: "Visa", CreditLimit: 1000, ClosingDay: 20, DueDay: 27}
	today := date(2026, time.June, 1)

	cases := []struct {
		name    string
		pending float64
		wantID  string
	}{
		{"critical at 95%", 950, "limite-critico-4"},
		{"high at 80%", 800, "limite-alto-4"},
		{"quiet at 50%", 500, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := DeriveAlerts(AlertInputs{
				Today:      today,
				Cards:      []models.Card{card},
				CardTotals: map[int64]CardTotals{4: {CardID: 4, Pending: tc.pending}},
			})
			for _, id := range []string{"limite-critico-4", "limite-alto-4"} {
				if id == tc.wantID {
					require.NotNil(t, findAlert(alerts, id))
					continue
				}
				assert.Nil(t, findAlert(alerts, id))
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	today := date(2026, time.June, 1)
	due := date(2026, time.June, 2)
	in := AlertInputs{
		Today: today,
		// success: completed goal
		Goals: []models.Goal{{ID: 1, Name: "Reserva", TargetAmount: 100, CurrentAmount: 100}},
		// danger: blown budget
		Budgets: []BudgetUsage{{Budget: models.Budget{ID: 2, CategoryName: "Mercado", Limit: 100}, Spent: 120}},
		// info: transaction due in one day
		PendingTransactions: []models.Transaction{
			{ID: 3, Description: "Luz", Status: models.StatusPending, DueDate: &due, Amount: 90},
		},
		// warning: spend up 25%
		Comparison: &Comparison{Current: 125, Previous: 100, Delta: 25, DeltaPct: 25, Direction: DirectionIncrease},
	}

	alerts := DeriveAlerts(in)
	require.Len(t, alerts, 4)
	assert.Equal(t, models.SeverityDanger, alerts[0].Severity)
	assert.Equal(t, models.SeverityWarning, alerts[1].Severity)
	assert.Equal(t, models.SeverityInfo, alerts[2].Severity)
	assert.Equal(t, models.SeveritySuccess, alerts[3].Severity)
}

func TestGoalAndSettlementAlerts(t *testing.T) {
	deadline := date(2026, time.June, 4)
	in := AlertInputs{
		Today: date(2026, time.June, 1),
		Goals: []models.Goal{
			{ID: 1, Name: "Viagem", TargetAmount: 1000, CurrentAmount: 950, Deadline: &deadline},
			{ID: 2, Name: "Concluída", TargetAmount: 100, CurrentAmount: 100, Completed: true},
		},
		Settlements: []models.Settlement{
			{ID: 5, ResponsibleName: "Bruno", AmountDue: 200, AmountPaid: 0},
			{ID: 6, ResponsibleName: "Carla", AmountDue: 200, AmountPaid: 80},
			{ID: 7, ResponsibleName: "Davi", AmountDue: 200, AmountPaid: 200},
		},
	}

	alerts := DeriveAlerts(in)
	assert.NotNil(t, findAlert(alerts, "meta-quase-1"))
	assert.NotNil(t, findAlert(alerts, "meta-prazo-1"))
	assert.Nil(t, findAlert(alerts, "meta-concluida-2"), "completed goals stay quiet")
	assert.NotNil(t, findAlert(alerts, "acerto-pendente-5"))
	assert.NotNil(t, findAlert(alerts, "acerto-parcial-6"))
	assert.Nil(t, findAlert(alerts, "acerto-pendente-7"))
	assert.Nil(t, findAlert(alerts, "acerto-parcial-7"))
}

func TestLowAvailableLimitAlert(t *testing.T) {
	in := AlertInputs{
		Today:      date(2026, time.June, 1),
		Cards:      []models.Card{{ID: 8, Name: "Master", CreditLimit: 2000, ClosingDay: 20, DueDay: 27}},
		CardTotals: map[int64]CardTotals{8: {CardID: 8, Pending: 1600}},
	}
	alerts := DeriveAlerts(in)
	require.NotNil(t, findAlert(alerts, "limite-baixo-8"))

	// A small limit never triggers the low-available info alert.
	in.Cards[0].CreditLimit = 600
	in.CardTotals[8] = CardTotals{CardID: 8, Pending: 200}
	alerts = DeriveAlerts(in)
	assert.Nil(t, findAlert(alerts, "limite-baixo-8"))
}

func TestDegradedDomainsContributeNothing(t *testing.T) {
	alerts := DeriveAlerts(AlertInputs{Today: date(2026, time.June, 1)})
	assert.Empty(t, alerts)
}

func TestFilterAlertsPreferences(t *testing.T) {
	alerts := []models.Alert{
		{ID: "fatura-vencida-1", Subtype: models.SubtypeFaturaVencida},
		{ID: "fatura-15dias-1", Subtype: models.SubtypeFatura15Dias},
		{ID: "gasto-diminuiu-202606", Subtype: models.SubtypeGastoDiminuiu},
	}

	// Defaults: the two opt-in subtypes are suppressed.
	out := FilterAlerts(alerts, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "fatura-vencida-1", out[0].ID)

	// Explicit preferences override defaults both ways.
	out = FilterAlerts(alerts, map[string]bool{
		models.SubtypeFaturaVencida: false,
		models.SubtypeGastoDiminuiu: true,
	})
	require.Len(t, out, 1)
	assert.Equal(t, "gasto-diminuiu-202606", out[0].ID)
}
