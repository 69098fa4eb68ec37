// Package schedule holds the pure time and distance math behind availability:
// a fixed-offset business clock, date-only arithmetic, slot expansion and
// haversine distance. Nothing here reads the host timezone.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultOffsetMinutes is the business timezone, UTC+8
const DefaultOffsetMinutes = 8 * 60

// DateLayout is the bare calendar date format
const DateLayout = "2006-01-02"

const instantLayout = "2006-01-02T15:04:05-07:00"

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// fallbackLayouts are tried in order for strings that are not YYYY-MM-DD
var fallbackLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// BusinessClock converts between absolute instants and wall-clock times in a
// single fixed-offset zone.
type BusinessClock struct {
	offsetMinutes int
	loc           *time.Location
}

// NewBusinessClock creates a clock for a fixed UTC offset in minutes
func NewBusinessClock(offsetMinutes int) BusinessClock {
	return BusinessClock{
		offsetMinutes: offsetMinutes,
		loc:           time.FixedZone(zoneName(offsetMinutes), offsetMinutes*60),
	}
}

// Location returns the fixed zone of the clock
func (c BusinessClock) Location() *time.Location {
	if c.loc == nil {
		return NewBusinessClock(DefaultOffsetMinutes).loc
	}
	return c.loc
}

// OffsetMinutes returns the configured UTC offset
func (c BusinessClock) OffsetMinutes() int {
	return c.offsetMinutes
}

// LocalClockToInstant resolves a "HH:MM" wall-clock time on the calendar day of
// date (taken in UTC) to an absolute instant. Unparseable parts count as zero.
func (c BusinessClock) LocalClockToInstant(date time.Time, clock string) time.Time {
	hours, minutes := parseClock(clock)
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, hours, minutes, 0, 0, c.Location())
}

// localInstantLayouts are wall-clock timestamps without an offset
var localInstantLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseInstant parses an ISO-8601 timestamp. A timestamp without an offset is
// read as business-local wall-clock time.
func (c BusinessClock) ParseInstant(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	var lastErr error
	for _, layout := range localInstantLayouts {
		t, err := time.ParseInLocation(layout, value, c.Location())
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatInstant renders t as ISO-8601 with the business offset, e.g. 2025-03-10T09:00:00+08:00
func (c BusinessClock) FormatInstant(t time.Time) string {
	return t.In(c.Location()).Format(instantLayout)
}

// FormatDate renders the business-local calendar date of t
func (c BusinessClock) FormatDate(t time.Time) string {
	return t.In(c.Location()).Format(DateLayout)
}

// Today returns the business-local calendar date of now as a UTC midnight
func (c BusinessClock) Today(now time.Time) time.Time {
	y, m, d := now.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDateOnly parses YYYY-MM-DD as UTC midnight. Other strings go through the
// generic layouts and are truncated to the UTC midnight of their instant.
func ParseDateOnly(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if dateOnlyPattern.MatchString(value) {
		return time.Parse(DateLayout, value)
	}
	for _, layout := range fallbackLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return TruncateDate(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// TruncateDate returns the UTC midnight of t's UTC calendar day
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by n calendar days
func AddDays(date time.Time, n int) time.Time {
	return TruncateDate(date).AddDate(0, 0, n)
}

// AddDaysString shifts a YYYY-MM-DD string; other strings are returned unchanged
func AddDaysString(value string, n int) string {
	if !dateOnlyPattern.MatchString(value) {
		return value
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return value
	}
	return parsed.AddDate(0, 0, n).Format(DateLayout)
}

// EnumerateDates lists every calendar day from start to end inclusive
func EnumerateDates(start, end time.Time) []time.Time {
	var dates []time.Time
	limit := TruncateDate(end)
	for cursor := TruncateDate(start); !cursor.After(limit); cursor = cursor.AddDate(0, 0, 1) {
		dates = append(dates, cursor)
	}
	return dates
}

func parseClock(clock string) (int, int) {
	parts := strings.SplitN(clock, ":", 2)
	hours, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	minutes := 0
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return hours, minutes
}

func zoneName(offsetMinutes int) string {
	sign := "+"
	if offsetMinutes < 0 {
		sign = "-"
		offsetMinutes = -offsetMinutes
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, offsetMinutes/60, offsetMinutes%60)
}
