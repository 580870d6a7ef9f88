// Package jalali provides the Jalali (Solar Hijri) calendar dates used on
// every user-facing surface of the service, with conversion to and from the
// Gregorian timestamps that storage keeps. Conversion happens only at these
// boundaries; all comparisons and day arithmetic stay within one calendar.
package jalali

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// String layouts for the fixed wire formats.
const (
	DateLayout     = "1401/01/23"
	DateTimeLayout = "1401/01/23 12:00:00"
)

var tehran = ptime.Iran()

// Date is a Jalali calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// DateTime is a Jalali calendar date with a time of day.
type DateTime struct {
	Date   Date
	Hour   int
	Minute int
	Second int
}

// DateOf converts a Gregorian instant to the Jalali date of that instant
// in the Tehran zone.
func DateOf(t time.Time) Date {
	pt := ptime.New(t.In(tehran))
	return Date{Year: pt.Year(), Month: int(pt.Month()), Day: pt.Day()}
}

// DateTimeOf converts a Gregorian instant to the Jalali datetime of that
// instant in the Tehran zone.
func DateTimeOf(t time.Time) DateTime {
	pt := ptime.New(t.In(tehran))
	return DateTime{
		Date:   Date{Year: pt.Year(), Month: int(pt.Month()), Day: pt.Day()},
		Hour:   pt.Hour(),
		Minute: pt.Minute(),
		Second: pt.Second(),
	}
}

// Today returns the current Jalali date in the Tehran zone.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns the Gregorian instant at midnight of d in the Tehran zone.
func (d Date) Time() time.Time {
	return ptime.Date(d.Year, ptime.Month(d.Month), d.Day, 0, 0, 0, 0, tehran).Time()
}

// AddDays returns the date n days after d (n may be negative). The shift is
// applied on the Gregorian axis and converted back, so month and leap-year
// boundaries of both calendars are respected.
func (d Date) AddDays(n int) Date {
	noon := ptime.Date(d.Year, ptime.Month(d.Month), d.Day, 12, 0, 0, 0, tehran).Time()
	return DateOf(noon.AddDate(0, 0, n))
}

// Compare returns -1, 0 or 1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	a := d.Year*10000 + d.Month*100 + d.Day
	b := o.Year*10000 + o.Month*100 + o.Day
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is later than o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// Equal reports whether d and o are the same date.
func (d Date) Equal(o Date) bool { return d.Compare(o) == 0 }

// String formats d as "YYYY/MM/DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Time returns the Gregorian instant of dt in the Tehran zone.
func (dt DateTime) Time() time.Time {
	return ptime.Date(
		dt.Date.Year, ptime.Month(dt.Date.Month), dt.Date.Day,
		dt.Hour, dt.Minute, dt.Second, 0, tehran,
	).Time()
}

// TruncateToHour returns dt with minute and second forced to zero.
func (dt DateTime) TruncateToHour() DateTime {
	dt.Minute = 0
	dt.Second = 0
	return dt
}

// String formats dt as "YYYY/MM/DD HH:MM:SS".
func (dt DateTime) String() string {
	return fmt.Sprintf("%s %02d:%02d:%02d", dt.Date, dt.Hour, dt.Minute, dt.Second)
}

// ParseDate parses a strict "YYYY/MM/DD" Jalali date.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) || s[4] != '/' || s[7] != '/' {
		return Date{}, fmt.Errorf("jalali: %q is not a %q date", s, "YYYY/MM/DD")
	}
	year, err1 := atoi(s[0:4])
	month, err2 := atoi(s[5:7])
	day, err3 := atoi(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, fmt.Errorf("jalali: %q is not a %q date", s, "YYYY/MM/DD")
	}
	d := Date{Year: year, Month: month, Day: day}
	if !d.valid() {
		return Date{}, fmt.Errorf("jalali: %q is not a valid calendar date", s)
	}
	return d, nil
}

// ParseDateTime parses a strict "YYYY/MM/DD HH:MM:SS" Jalali datetime.
func ParseDateTime(s string) (DateTime, error) {
	if len(s) != len(DateTimeLayout) || s[10] != ' ' || s[13] != ':' || s[16] != ':' {
		return DateTime{}, fmt.Errorf("jalali: %q is not a %q datetime", s, "YYYY/MM/DD HH:MM:SS")
	}
	d, err := ParseDate(s[0:10])
	if err != nil {
		return DateTime{}, err
	}
	hour, err1 := atoi(s[11:13])
	minute, err2 := atoi(s[14:16])
	second, err3 := atoi(s[17:19])
	if err1 != nil || err2 != nil || err3 != nil {
		return DateTime{}, fmt.Errorf("jalali: %q is not a %q datetime", s, "YYYY/MM/DD HH:MM:SS")
	}
	if hour > 23 || minute > 59 || second > 59 {
		return DateTime{}, fmt.Errorf("jalali: %q has an out-of-range time of day", s)
	}
	return DateTime{Date: d, Hour: hour, Minute: minute, Second: second}, nil
}

// valid reports whether d is a real calendar date. The candidate is pushed
// through a full Gregorian round trip and must come back unchanged, which
// rejects normalized values such as 1400/12/30 in a non-leap year.
func (d Date) valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return false
	}
	noon := ptime.Date(d.Year, ptime.Month(d.Month), d.Day, 12, 0, 0, 0, tehran)
	back := ptime.New(noon.Time())
	return back.Year() == d.Year && int(back.Month()) == d.Month && back.Day() == d.Day
}

// atoi is a strict digits-only parser; strconv.Atoi would accept signs.
func atoi(s string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("jalali: non-digit %q", c)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
