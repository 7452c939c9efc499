package workdays

import (
	"time"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
)

const dateLayout = "2006-01-02"

// Calendar answers working-day questions: weekends are always excluded, plus
// any configured holidays. The zero value is a valid weekends-only calendar.
//
// All methods operate on civil dates, not instants: inputs are normalised to
// midnight UTC first, so evaluating the same subject on the same day always
// yields the same answer regardless of the caller's timezone.
type Calendar struct {
	holidays map[string]struct{}
}

// New builds a calendar excluding the given holiday dates.
func New(holidays []time.Time) Calendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[DateOf(h).Format(dateLayout)] = struct{}{}
	}
	return Calendar{holidays: set}
}

// DateOf truncates a timestamp to its civil date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWorkingDay reports whether the date is neither a weekend nor a holiday.
func (c Calendar) IsWorkingDay(t time.Time) bool {
	day := DateOf(t)
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := c.holidays[day.Format(dateLayout)]
	return !holiday
}

// AddWorkingDays returns the date n working days after date (or before, for
// negative n). Weekends and holidays are skipped; the starting date itself is
// never counted. A zero date fails with apperrors.ErrInvalidDate.
func (c Calendar) AddWorkingDays(date time.Time, n int) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, apperrors.ErrInvalidDate
	}

	day := DateOf(date)
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}

	for remaining := n; remaining > 0; {
		day = day.AddDate(0, 0, step)
		if c.IsWorkingDay(day) {
			remaining--
		}
	}
	return day, nil
}

// WorkingDaysElapsed counts the working days after from, up to and including
// to. It returns 0 when to is on or before from, and is monotonically
// non-decreasing as to advances. Zero dates fail with
// apperrors.ErrInvalidDate.
func (c Calendar) WorkingDaysElapsed(from, to time.Time) (int, error) {
	if from.IsZero() || to.IsZero() {
		return 0, apperrors.ErrInvalidDate
	}

	start := DateOf(from)
	end := DateOf(to)
	if !end.After(start) {
		return 0, nil
	}

	elapsed := 0
	for day := start.AddDate(0, 0, 1); !day.After(end); day = day.AddDate(0, 0, 1) {
		if c.IsWorkingDay(day) {
			elapsed++
		}
	}
	return elapsed, nil
}
