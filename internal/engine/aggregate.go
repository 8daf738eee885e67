package engine

import (
	"math"
	"sort"
	"time"

	"github.com/financasapp/financas-service/internal/models"
)

// CardTotals is the month summary for a single card.
type CardTotals struct {
	CardID  int64   `json:"card_id"`
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
}

// PartyShare is one responsible party's slice of a month's card spend.
type PartyShare struct {
	ResponsibleID int64   `json:"responsible_id"`
	Name          string  `json:"name"`
	Total         float64 `json:"total"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
}

// Direction of a month-over-month change.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
	DirectionEqual    = "equal"
)

// Comparison relates a month's spend to the previous calendar month's.
type Comparison struct {
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	Delta     float64 `json:"delta"`
	DeltaPct  float64 `json:"delta_pct"`
	Direction string  `json:"direction"`
}

// CardMonthTotals sums active installments of the reference month per card,
// split by the paid flag. Months with no charges yield an empty map, never an
// error.
func CardMonthTotals(installments []models.Installment, month time.Time) map[int64]CardTotals {
	month = FirstOfMonth(month)
	totals := make(map[int64]CardTotals)
	for _, inst := range installments {
		if !inMonth(inst, month) {
			continue
		}
		t := totals[inst.CardID]
		t.CardID = inst.CardID
		amount := math.Abs(inst.Amount)
		t.Total += amount
		if inst.Paid {
			t.Paid += amount
		} else {
			t.Pending += amount
		}
		totals[inst.CardID] = t
	}
	return totals
}

// PartyShares breaks a month's spend down by responsible party. Installments
// without an explicit party fall to the titular, however many purchases they
// span. Shares come back ordered by total, largest first.
func PartyShares(installments []models.Installment, parties []models.ResponsibleParty, month time.Time) []PartyShare {
	month = FirstOfMonth(month)

	var titularID int64
	names := make(map[int64]string, len(parties))
	for _, p := range parties {
		names[p.ID] = p.Name
		if p.IsTitular {
			titularID = p.ID
		}
	}

	totals := make(map[int64]*PartyShare)
	var monthTotal float64
	for _, inst := range installments {
		if !inMonth(inst, month) {
			continue
		}
		id := titularID
		if inst.ResponsibleID != nil {
			id = *inst.ResponsibleID
		}
		share, ok := totals[id]
		if !ok {
			share = &PartyShare{ResponsibleID: id, Name: names[id]}
			totals[id] = share
		}
		amount := math.Abs(inst.Amount)
		share.Total += amount
		share.Count++
		monthTotal += amount
	}

	out := make([]PartyShare, 0, len(totals))
	for _, share := range totals {
		if monthTotal > 0 {
			share.Percentage = share.Total / monthTotal * 100
		}
		out = append(out, *share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].ResponsibleID < out[j].ResponsibleID
	})
	return out
}

// MonthTotal is the absolute spend of active installments in a month.
func MonthTotal(installments []models.Installment, month time.Time) float64 {
	month = FirstOfMonth(month)
	var total float64
	for _, inst := range installments {
		if inMonth(inst, month) {
			total += math.Abs(inst.Amount)
		}
	}
	return total
}

// CompareMonths relates a month's spend with the previous calendar month
// (one month subtracted, not 30 days).
func CompareMonths(installments []models.Installment, month time.Time) Comparison {
	month = FirstOfMonth(month)
	current := MonthTotal(installments, month)
	previous := MonthTotal(installments, month.AddDate(0, -1, 0))

	c := Comparison{
		Current:   current,
		Previous:  previous,
		Delta:     current - previous,
		Direction: DirectionEqual,
	}
	switch {
	case current > previous:
		c.Direction = DirectionIncrease
	case current < previous:
		c.Direction = DirectionDecrease
	}
	if previous > 0 {
		c.DeltaPct = c.Delta / previous * 100
	} else if current > 0 {
		c.DeltaPct = 100
	}
	return c
}

func inMonth(inst models.Installment, month time.Time) bool {
	return inst.Active && FirstOfMonth(inst.ReferenceMonth).Equal(month)
}
