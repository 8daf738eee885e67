package engine

import "time"

// BillingCycle describes a card's next statement: when it closes, when the
// resulting bill is due, and how far away each date is. Day counts are signed;
// negative means the date already passed.
type BillingCycle struct {
	ClosingDate      time.Time `json:"closing_date"`
	DueDate          time.Time `json:"due_date"`
	DaysUntilClosing int       `json:"days_until_closing"`
	DaysUntilDue     int       `json:"days_until_due"`
}

// NextCycle computes the upcoming closing and due dates for a card. The
// closing date is this month's closing day when today has not passed it yet,
// otherwise next month's. A due day numerically below the closing day rolls
// into the month after closing (cards whose bill is due early next month).
// Days 29-31 are clamped to the actual last day of shorter months.
func NextCycle(closingDay, dueDay int, today time.Time) BillingCycle {
	today = truncateToDay(today)

	closing := ClampToMonth(today.Year(), today.Month(), closingDay)
	if today.Day() > closingDay {
		next := today.AddDate(0, 1, 0)
		closing = ClampToMonth(next.Year(), next.Month(), closingDay)
	}

	due := ClampToMonth(closing.Year(), closing.Month(), dueDay)
	if dueDay < closingDay {
		after := closing.AddDate(0, 1, 0)
		due = ClampToMonth(after.Year(), after.Month(), dueDay)
	}

	return BillingCycle{
		ClosingDate:      closing,
		DueDate:          due,
		DaysUntilClosing: DaysBetween(today, closing),
		DaysUntilDue:     DaysBetween(today, due),
	}
}

// CurrentDueDate returns the due date of the most recently closed cycle, the
// bill the cardholder currently owes. Alert derivation compares it against
// today to detect overdue bills, which the forward-looking NextCycle never
// reports. A due day below the closing day rolls into the month after
// closing, same as NextCycle.
func CurrentDueDate(closingDay, dueDay int, today time.Time) time.Time {
	today = truncateToDay(today)

	closing := ClampToMonth(today.Year(), today.Month(), closingDay)
	if today.Day() <= closingDay {
		prev := FirstOfMonth(today).AddDate(0, -1, 0)
		closing = ClampToMonth(prev.Year(), prev.Month(), closingDay)
	}

	due := ClampToMonth(closing.Year(), closing.Month(), dueDay)
	if dueDay < closingDay {
		after := closing.AddDate(0, 1, 0)
		due = ClampToMonth(after.Year(), after.Month(), dueDay)
	}
	return due
}

// ClampToMonth builds a date in the given month, clamping the day to the
// month's actual last day (31 in February becomes the 28th or 29th).
func ClampToMonth(year int, month time.Month, day int) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from one date to another, ignoring
// the time of day. Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	from = truncateToDay(from)
	to = truncateToDay(to)
	return int(to.Sub(from).Hours() / 24)
}

// FirstOfMonth is the reference-month bucket for a date.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
