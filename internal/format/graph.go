package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Graph periods.
const (
	PeriodDay      = "day"
	PeriodSevenDay = "seven_day"
	PeriodMonth    = "month"
	PeriodYear     = "year"
)

// Custom ranges of at least this many days are graphed per year.
const yearlyRangeDays = 30

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidInterval = errors.New("invalid interval")
)

var (
	englishMonths = [...]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	frenchMonths = [...]string{"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre"}
)

// GraphDate renders t as a graph label, "14th March 2026" / "14 mars 2026",
// or "March 2026" / "mars 2026" without the day. Languages other than "fr"
// render in English.
func GraphDate(t time.Time, lang string, withDay bool) string {
	month := englishMonths[t.Month()-1]
	day := strconv.Itoa(t.Day()) + englishOrdinal(t.Day())
	if strings.EqualFold(lang, "fr") {
		month = frenchMonths[t.Month()-1]
		day = strconv.Itoa(t.Day())
		if t.Day() == 1 {
			day += "er"
		}
	}

	if !withDay {
		return fmt.Sprintf("%s %d", month, t.Year())
	}
	return fmt.Sprintf("%s %s %d", day, month, t.Year())
}

func englishOrdinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// Range is the time span behind a graph.
type Range struct {
	Period string
	Start  time.Time
	End    time.Time
}

// GraphPeriod resolves a named period to the range ending now. Any other
// period is a custom range parsed from startAt and endAt (YYYY-MM-DD or
// RFC 3339) spanning whole days; a custom range of 30 days or more comes
// back with Period set to "year".
func GraphPeriod(period, startAt, endAt string, now time.Time) (Range, error) {
	r := Range{Period: period, End: now}
	y, m, d := now.Date()
	loc := now.Location()

	switch period {
	case PeriodDay:
		r.Start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case PeriodSevenDay:
		offset := (int(now.Weekday()) + 6) % 7 // weeks start on Monday
		r.Start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case PeriodMonth:
		r.Start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case PeriodYear:
		r.Start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		start, err := parseDate(startAt, loc)
		if err != nil {
			return Range{}, err
		}
		end, err := parseDate(endAt, loc)
		if err != nil {
			return Range{}, err
		}
		r.Start = startOfDay(start)
		r.End = startOfDay(end).AddDate(0, 0, 1).Add(-time.Nanosecond)

		days := r.End.Sub(r.Start)
		if days < 0 {
			days = -days
		}
		if int(days/(24*time.Hour)) >= yearlyRangeDays {
			r.Period = PeriodYear
		}
	}
	return r, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, time.RFC3339, time.DateTime} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Interval is a calendar step such as "1 day" or "3 months".
type Interval struct {
	N    int
	Unit string // hour, day, week, month or year
}

// ParseInterval parses "<n> <unit>" or a bare unit ("month" means 1 month).
// Units may be plural.
func ParseInterval(s string) (Interval, error) {
	fields := strings.Fields(strings.ToLower(s))
	iv := Interval{N: 1}
	switch len(fields) {
	case 1:
		iv.Unit = fields[0]
	case 2:
		n, err := strconv.Atoi(fields[0])
		if err != nil || n <= 0 {
			return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
		}
		iv.N, iv.Unit = n, fields[1]
	default:
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}

	iv.Unit = strings.TrimSuffix(iv.Unit, "s")
	switch iv.Unit {
	case "hour", "day", "week", "month", "year":
		return iv, nil
	}
	return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
}

func (iv Interval) add(t time.Time) time.Time {
	switch iv.Unit {
	case "hour":
		return t.Add(time.Duration(iv.N) * time.Hour)
	case "week":
		return t.AddDate(0, 0, 7*iv.N)
	case "month":
		return t.AddDate(0, iv.N, 0)
	case "year":
		return t.AddDate(iv.N, 0, 0)
	}
	return t.AddDate(0, 0, iv.N)
}

// DatesBetween walks from start to end (inclusive) in steps of interval and
// returns the graph points. The bounds themselves are left out unless
// isFirst keeps every point but the last, or addEndDate keeps every point
// but the first.
func DatesBetween(start, end time.Time, interval string, isFirst, addEndDate bool) ([]time.Time, error) {
	iv, err := ParseInterval(interval)
	if err != nil {
		return nil, err
	}

	var points []time.Time
	for p := start; !p.After(end); p = iv.add(p) {
		points = append(points, p)
	}

	dates := make([]time.Time, 0, len(points))
	for i, p := range points {
		inner := !p.Equal(start) && !p.Equal(end)
		if inner || (isFirst && i < len(points)-1) || (addEndDate && i > 0) {
			dates = append(dates, p)
		}
	}
	return dates, nil
}
