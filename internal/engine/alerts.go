package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/financasapp/financas-service/internal/models"
)

// BudgetUsage pairs a budget with the amount already spent against it.
type BudgetUsage struct {
	Budget models.Budget
	Spent  float64
}

// AlertInputs carries every domain the derivation consumes. A domain whose
// source data could not be fetched is passed as an empty slice (or nil
// Comparison) and simply contributes nothing.
type AlertInputs struct {
	Today               time.Time
	Cards               []models.Card
	CardTotals          map[int64]CardTotals
	PendingTransactions []models.Transaction
	Goals               []models.Goal
	Budgets             []BudgetUsage
	Settlements         []models.Settlement
	Comparison          *Comparison
}

// DeriveAlerts evaluates the whole threshold table and returns alerts ordered
// by severity (danger first). Ids are deterministic, subtype plus source
// entity id, so read state persists across recomputation. The function never
// fails; malformed or absent domains degrade to no contribution.
func DeriveAlerts(in AlertInputs) []models.Alert {
	var alerts []models.Alert
	alerts = append(alerts, cardAlerts(in)...)
	alerts = append(alerts, transactionAlerts(in)...)
	alerts = append(alerts, goalAlerts(in)...)
	alerts = append(alerts, budgetAlerts(in)...)
	alerts = append(alerts, settlementAlerts(in)...)
	alerts = append(alerts, trendAlerts(in)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	return alerts
}

func cardAlerts(in AlertInputs) []models.Alert {
	var alerts []models.Alert
	for _, card := range in.Cards {
		totals := in.CardTotals[card.ID]

		// Limit usage against the pending (open) total.
		if card.CreditLimit > 0 {
			usage := totals.Pending / card.CreditLimit * 100
			available := card.CreditLimit - totals.Pending
			switch {
			case usage >= 90:
				alerts = append(alerts, newAlert(models.SubtypeLimiteCritico, card.ID,
					models.SeverityDanger, models.CategoryCard,
					"Limite do cartão quase esgotado",
					fmt.Sprintf("%s está com %.0f%% do limite utilizado", card.Name, usage)))
			case usage >= 75:
				alerts = append(alerts, newAlert(models.SubtypeLimiteAlto, card.ID,
					models.SeverityWarning, models.CategoryCard,
					"Uso do limite elevado",
					fmt.Sprintf("%s está com %.0f%% do limite utilizado", card.Name, usage)))
			}
			if available > 0 && available < 500 && card.CreditLimit >= 1000 {
				alerts = append(alerts, newAlert(models.SubtypeLimiteBaixo, card.ID,
					models.SeverityInfo, models.CategoryCard,
					"Pouco limite disponível",
					fmt.Sprintf("%s tem apenas R$ %.2f de limite livre", card.Name, available)))
			}
		}

		// Due-date proximity matters only while there is an open bill.
		if totals.Pending <= 0 {
			continue
		}
		days := DaysBetween(in.Today, CurrentDueDate(card.ClosingDay, card.DueDay, in.Today))
		switch {
		case days < 0:
			alerts = append(alerts, newAlert(models.SubtypeFaturaVencida, card.ID,
				models.SeverityDanger, models.CategoryCard,
				"Fatura vencida",
				fmt.Sprintf("A fatura do %s venceu há %d dia(s), total pendente R$ %.2f", card.Name, -days, totals.Pending)))
		case days == 0:
			alerts = append(alerts, newAlert(models.SubtypeFaturaHoje, card.ID,
				models.SeverityDanger, models.CategoryCard,
				"Fatura vence hoje",
				fmt.Sprintf("A fatura do %s vence hoje, total pendente R$ %.2f", card.Name, totals.Pending)))
		case days <= 3:
			alerts = append(alerts, newAlert(models.SubtypeFatura3Dias, card.ID,
				models.SeverityWarning, models.CategoryCard,
				"Fatura vence em breve",
				fmt.Sprintf("A fatura do %s vence em %d dia(s)", card.Name, days)))
		case days <= 7:
			alerts = append(alerts, newAlert(models.SubtypeFatura7Dias, card.ID,
				models.SeverityInfo, models.CategoryCard,
				"Fatura próxima",
				fmt.Sprintf("A fatura do %s vence em %d dias", card.Name, days)))
		case days <= 15:
			alerts = append(alerts, newAlert(models.SubtypeFatura15Dias, card.ID,
				models.SeverityInfo, models.CategoryCard,
				"Fatura neste mês",
				fmt.Sprintf("A fatura do %s vence em %d dias", card.Name, days)))
		}
	}
	return alerts
}

func transactionAlerts(in AlertInputs) []models.Alert {
	var alerts []models.Alert
	for _, tx := range in.PendingTransactions {
		if tx.Status != models.StatusPending || tx.DueDate == nil {
			continue
		}
		days := DaysBetween(in.Today, *tx.DueDate)
		switch {
		case days < 0:
			alerts = append(alerts, newAlert(models.SubtypeContaVencida, tx.ID,
				models.SeverityDanger, models.CategoryTransaction,
				"Conta vencida",
				fmt.Sprintf("%s venceu há %d dia(s), R$ %.2f", tx.Description, -days, tx.Amount)))
		case days == 0:
			alerts = append(alerts, newAlert(models.SubtypeContaHoje, tx.ID,
				models.SeverityWarning, models.CategoryTransaction,
				"Conta vence hoje",
				fmt.Sprintf("%s vence hoje, R$ %.2f", tx.Description, tx.Amount)))
		case days <= 3:
			alerts = append(alerts, newAlert(models.SubtypeConta3Dias, tx.ID,
				models.SeverityInfo, models.CategoryTransaction,
				"Conta próxima do vencimento",
				fmt.Sprintf("%s vence em %d dia(s)", tx.Description, days)))
		}
	}
	return alerts
}

func goalAlerts(in AlertInputs) []models.Alert {
	var alerts []models.Alert
	for _, goal := range in.Goals {
		if goal.Completed || goal.TargetAmount <= 0 {
			continue
		}
		progress := goal.CurrentAmount / goal.TargetAmount * 100
		switch {
		case progress >= 100:
			alerts = append(alerts, newAlert(models.SubtypeMetaConcluida, goal.ID,
				models.SeveritySuccess, models.CategoryGoal,
				"Meta atingida",
				fmt.Sprintf("%s chegou a 100%%, marque como concluída", goal.Name)))
		case progress >= 90:
			alerts = append(alerts, newAlert(models.SubtypeMetaQuase, goal.ID,
				models.SeverityInfo, models.CategoryGoal,
				"Meta quase lá",
				fmt.Sprintf("%s está em %.0f%% do objetivo", goal.Name, progress)))
		}
		if goal.Deadline == nil {
			continue
		}
		days := DaysBetween(in.Today, *goal.Deadline)
		switch {
		case days < 0:
			alerts = append(alerts, newAlert(models.SubtypeMetaAtrasada, goal.ID,
				models.SeverityWarning, models.CategoryGoal,
				"Meta com prazo vencido",
				fmt.Sprintf("O prazo de %s passou há %d dia(s)", goal.Name, -days)))
		case days <= 7:
			alerts = append(alerts, newAlert(models.SubtypeMetaPrazo, goal.ID,
				models.SeverityInfo, models.CategoryGoal,
				"Prazo da meta se aproxima",
				fmt.Sprintf("%s vence em %d dia(s)", goal.Name, days)))
		}
	}
	return alerts
}

func budgetAlerts(in AlertInputs) []models.Alert {
	var alerts []models.Alert
	for _, usage := range in.Budgets {
		if usage.Budget.Limit <= 0 {
			continue
		}
		pct := usage.Spent / usage.Budget.Limit * 100
		switch {
		case pct >= 100:
			alerts = append(alerts, newAlert(models.SubtypeOrcamentoEstouro, usage.Budget.ID,
				models.SeverityDanger, models.CategoryBudget,
				"Orçamento estourado",
				fmt.Sprintf("%s: R$ %.2f gastos de um limite de R$ %.2f", usage.Budget.CategoryName, usage.Spent, usage.Budget.Limit)))
		case pct >= 80:
			alerts = append(alerts, newAlert(models.SubtypeOrcamentoAlto, usage.Budget.ID,
				models.SeverityWarning, models.CategoryBudget,
				"Orçamento quase no limite",
				fmt.Sprintf("%s está em %.0f%% do limite", usage.Budget.CategoryName, pct)))
		}
	}
	return alerts
}

func settlementAlerts(in AlertInputs) []models.Alert {
	var alerts []models.Alert
	for _, s := range in.Settlements {
		if s.AmountDue <= 0 || s.AmountPaid >= s.AmountDue {
			continue
		}
		if s.AmountPaid == 0 {
			alerts = append(alerts, newAlert(models.SubtypeAcertoPendente, s.ID,
				models.SeverityInfo, models.CategorySettlement,
				"Acerto pendente",
				fmt.Sprintf("%s ainda deve R$ %.2f", s.ResponsibleName, s.AmountDue)))
			continue
		}
		alerts = append(alerts, newAlert(models.SubtypeAcertoParcial, s.ID,
			models.SeverityInfo, models.CategorySettlement,
			"Acerto parcial",
			fmt.Sprintf("%s pagou R$ %.2f de R$ %.2f", s.ResponsibleName, s.AmountPaid, s.AmountDue)))
	}
	return alerts
}

func trendAlerts(in AlertInputs) []models.Alert {
	if in.Comparison == nil || in.Comparison.Previous <= 0 {
		return nil
	}
	c := in.Comparison
	monthID := int64(in.Today.Year())*100 + int64(in.Today.Month())
	switch {
	case c.Direction == DirectionIncrease && c.DeltaPct > 20:
		return []models.Alert{newAlert(models.SubtypeGastoAumentou, monthID,
			models.SeverityWarning, models.CategorySavingsTrend,
			"Gastos em alta",
			fmt.Sprintf("Os gastos subiram %.0f%% em relação ao mês anterior", c.DeltaPct))}
	case c.Direction == DirectionDecrease && -c.DeltaPct > 10:
		return []models.Alert{newAlert(models.SubtypeGastoDiminuiu, monthID,
			models.SeveritySuccess, models.CategorySavingsTrend,
			"Gastos em queda",
			fmt.Sprintf("Os gastos caíram %.0f%% em relação ao mês anterior", -c.DeltaPct))}
	}
	return nil
}

// FilterAlerts drops subtypes the user disabled. Absent preference entries
// fall back to the per-subtype defaults.
func FilterAlerts(alerts []models.Alert, prefs map[string]bool) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		enabled, ok := prefs[a.Subtype]
		if !ok {
			enabled = models.DefaultPreferences[a.Subtype]
		}
		if enabled {
			out = append(out, a)
		}
	}
	return out
}

func newAlert(subtype string, entityID int64, severity models.Severity, category models.AlertCategory, title, message string) models.Alert {
	return models.Alert{
		ID:       fmt.Sprintf("%s-%d", subtype, entityID),
		Subtype:  subtype,
		Severity: severity,
		Category: category,
		Title:    title,
		Message:  message,
		EntityID: entityID,
	}
}
