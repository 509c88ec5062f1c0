package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	// dateTimeLocalLayout is what browsers send for <input type="datetime-local">.
	dateTimeLocalLayout = "2006-01-02T15:04"
)

var (
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

	jsonNull = []byte("null")
)

// Date is a calendar date without time of day. The zero Date means "no date" and encodes as JSON null.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(NowFunc())
}

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, CleanString(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

// ParseDateClamped parses YYYY-MM-DD, clamping a day past the end of the month to the month's last day
// (eg. 2024-02-31 -> 2024-02-29). Such dates were written by older versions of the fee ledger.
func ParseDateClamped(s string) (Date, error) {
	s = CleanString(s)
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' { // full ISO timestamp
		s = s[:len(DateLayout)]
	}
	if len(s) != len(DateLayout) || s[4] != '-' || s[7] != '-' {
		return Date{}, ErrInvalidDate
	}
	m, err := ParseMonth(s[:7])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	day, err := strconv.Atoi(s[8:])
	if err != nil || day < 1 || day > 31 {
		return Date{}, ErrInvalidDate
	}
	return m.DateOn(day), nil
}

func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// CalendarMonth returns the Month d falls in.
func (d Date) CalendarMonth() Month {
	return MonthOf(d.t.Year(), d.t.Month())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decoding date")
	}
	if CleanString(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDateClamped(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Month is a calendar month formatted as YYYY-MM. Months compare correctly as strings.
type Month string

func MonthOf(year int, month time.Month) Month {
	return Month(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// CurrentMonth returns the current local calendar month.
func CurrentMonth() Month {
	return Today().CalendarMonth()
}

func ParseMonth(s string) (Month, error) {
	m := Month(CleanString(s))
	if !m.Valid() {
		return "", ErrInvalidMonth
	}
	return m, nil
}

func (m Month) Valid() bool {
	_, _, err := m.yearMonth()
	return err == nil
}

func (m Month) yearMonth() (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, string(m))
	if err != nil {
		return 0, 0, ErrInvalidMonth
	}
	return t.Year(), t.Month(), nil
}

func (m Month) first() time.Time {
	y, mon, _ := m.yearMonth()
	return time.Date(y, mon, 1, 0, 0, 0, 0, time.UTC)
}

// Prev returns the calendar month immediately preceding m, or "" if m is malformed.
func (m Month) Prev() Month {
	if !m.Valid() {
		return ""
	}
	t := m.first().AddDate(0, -1, 0)
	return MonthOf(t.Year(), t.Month())
}

// Next returns the calendar month immediately following m, or "" if m is malformed.
func (m Month) Next() Month {
	if !m.Valid() {
		return ""
	}
	t := m.first().AddDate(0, 1, 0)
	return MonthOf(t.Year(), t.Month())
}

func (m Month) Before(o Month) bool { return m < o }

// MonthsUntil returns how many months o is after m, negative when o comes first.
// It is 0 when either month is malformed.
func (m Month) MonthsUntil(o Month) int {
	y1, m1, err := m.yearMonth()
	if err != nil {
		return 0
	}
	y2, m2, err := o.yearMonth()
	if err != nil {
		return 0
	}
	return (y2-y1)*12 + int(m2) - int(m1)
}

// DaysIn returns the number of days in m.
func (m Month) DaysIn() int {
	if !m.Valid() {
		return 0
	}
	return m.first().AddDate(0, 1, -1).Day()
}

// DateOn returns the date with the given day of month in m, clamped to the month's last day.
func (m Month) DateOn(day int) Date {
	if !m.Valid() {
		return Date{}
	}
	if last := m.DaysIn(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	f := m.first()
	return NewDate(f.Year(), f.Month(), day)
}

// Days returns every date of m in order.
func (m Month) Days() []Date {
	n := m.DaysIn()
	days := make([]Date, 0, n)
	for day := 1; day <= n; day++ {
		days = append(days, m.DateOn(day))
	}
	return days
}

func (m Month) Contains(d Date) bool {
	return !d.IsZero() && d.CalendarMonth() == m
}

func (m Month) String() string { return string(m) }

// DateTime is a point in time. It encodes as RFC3339 and also decodes the browser's local
// "YYYY-MM-DDTHH:MM" form.
type DateTime struct {
	time.Time
}

func Now() DateTime {
	return DateTime{NowFunc()}
}

func ParseDateTime(s string) (DateTime, error) {
	s = CleanString(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{t}, nil
		}
	}
	for _, layout := range []string{dateTimeLocalLayout, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return DateTime{t}, nil
		}
	}
	return DateTime{}, errors.Errorf("invalid datetime %q", s)
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	if dt.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(dt.Format(time.RFC3339))
}

func (dt *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*dt = DateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decoding datetime")
	}
	if CleanString(s) == "" {
		*dt = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}
