package game

import "time"

// dateLayout is the calendar-date format used everywhere in the store.
// All dates are UTC; the day boundary is UTC midnight.
const dateLayout = "2006-01-02"

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// nextGameDate returns the date of the game day that begins at a
// rotation boundary: the day after the tally being closed. A stale or
// absent tally (the scheduled rotation missed a day) opens the current
// date instead.
func nextGameDate(closedDate string, now time.Time) string {
	today := DateOf(now)
	if closedDate < today {
		return today
	}
	closed, err := time.Parse(dateLayout, closedDate)
	if err != nil {
		return today
	}
	return DateOf(closed.AddDate(0, 0, 1))
}

// DaysBetween returns the number of calendar days from date "from" to
// date "to". Unparseable dates fall back to the epoch, which makes the
// gap large enough to count as inactive.
func DaysBetween(from, to string) int {
	f, err := time.Parse(dateLayout, from)
	if err != nil {
		f = time.Unix(0, 0).UTC()
	}
	t, err := time.Parse(dateLayout, to)
	if err != nil {
		t = time.Unix(0, 0).UTC()
	}
	return int(t.Sub(f).Hours() / 24)
}
