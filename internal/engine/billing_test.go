package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextCycleSameMonth(t *testing.T) {
	// Today before the closing day: closes this month, due after closing.
	cycle := NextCycle(20, 27, date(2026, time.March, 10))

	assert.Equal(t, date(2026, time.March, 20), cycle.ClosingDate)
	assert.Equal(t, date(2026, time.March, 27), cycle.DueDate)
	assert.Equal(t, 10, cycle.DaysUntilClosing)
	assert.Equal(t, 17, cycle.DaysUntilDue)
}

func TestNextCycleRollsToNextMonth(t *testing.T) {
	// Today past the closing day: closes next month.
	cycle := NextCycle(5, 10, date(2026, time.March, 15))

	assert.Equal(t, date(2026, time.April, 5), cycle.ClosingDate)
	assert.Equal(t, date(2026, time.April, 10), cycle.DueDate)
}

func TestNextCycleDueRollsAfterClosing(t *testing.T) {
	// Due day numerically before the closing day: the bill is due early in
	// the month after closing.
	cycle := NextCycle(25, 5, date(2026, time.March, 10))

	assert.Equal(t, date(2026, time.March, 25), cycle.ClosingDate)
	assert.Equal(t, date(2026, time.April, 5), cycle.DueDate)
}

func TestNextCycleClampsFebruary(t *testing.T) {
	// Closing day 31 in February clamps to the 28th, not March 3rd.
	cycle := NextCycle(31, 10, date(2026, time.February, 10))
	assert.Equal(t, date(2026, time.February, 28), cycle.ClosingDate)

	// Leap year clamps to the 29th.
	leap := NextCycle(31, 10, date(2028, time.February, 10))
	assert.Equal(t, date(2028, time.February, 29), leap.ClosingDate)
}

func TestCurrentDueDatePastDue(t *testing.T) {
	// Closing day 3, due day 10, today the 15th: the June bill closed on the
	// 3rd, was due the 10th, and is five days overdue.
	due := CurrentDueDate(3, 10, date(2026, time.June, 15))
	assert.Equal(t, date(2026, time.June, 10), due)
	assert.Equal(t, -5, DaysBetween(date(2026, time.June, 15), due))
}

func TestCurrentDueDateRollsToNextMonth(t *testing.T) {
	// Closing 25, due 5: the cycle closed on March 25 is due April 5. On
	// March 28 the bill is still ahead, not overdue.
	due := CurrentDueDate(25, 5, date(2026, time.March, 28))
	assert.Equal(t, date(2026, time.April, 5), due)
	assert.Equal(t, 8, DaysBetween(date(2026, time.March, 28), due))

	// Before this month's closing, the owed bill is February's, due March 5.
	due = CurrentDueDate(25, 5, date(2026, time.March, 10))
	assert.Equal(t, date(2026, time.March, 5), due)
	assert.Equal(t, -5, DaysBetween(date(2026, time.March, 10), due))
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2026, time.May, 1, 23, 50, 0, 0, time.UTC)
	to := time.Date(2026, time.May, 2, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(from, to))
}

func TestFirstOfMonth(t *testing.T) {
	assert.Equal(t, date(2026, time.August, 1), FirstOfMonth(date(2026, time.August, 28)))
}
