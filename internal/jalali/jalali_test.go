package jalali

import (
	"testing"
	"time"
)

// Known Jalali/Gregorian pairs, including leap-year boundaries on both sides.
var conversionPairs = []struct {
	jalali    Date
	gregorian time.Time
}{
	{Date{1399, 12, 30}, time.Date(2021, 3, 20, 0, 0, 0, 0, time.UTC)},
	{Date{1400, 1, 1}, time.Date(2021, 3, 21, 0, 0, 0, 0, time.UTC)},
	{Date{1401, 1, 1}, time.Date(2022, 3, 21, 0, 0, 0, 0, time.UTC)},
	{Date{1401, 1, 5}, time.Date(2022, 3, 25, 0, 0, 0, 0, time.UTC)},
	{Date{1401, 2, 1}, time.Date(2022, 4, 21, 0, 0, 0, 0, time.UTC)},
	{Date{1402, 8, 15}, time.Date(2023, 11, 6, 0, 0, 0, 0, time.UTC)},
	{Date{1403, 1, 1}, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)},
}

func TestFromTime(t *testing.T) {
	for _, pair := range conversionPairs {
		// Noon keeps the instant inside the same Tehran calendar day.
		instant := pair.gregorian.Add(12 * time.Hour)
		if got := DateOf(instant); !got.Equal(pair.jalali) {
			t.Errorf("DateOf(%v) = %v; want %v", instant, got, pair.jalali)
		}
	}
}

func TestDateTime_GregorianDay(t *testing.T) {
	for _, pair := range conversionPairs {
		got := pair.jalali.Time().In(tehran)
		y, m, d := got.Date()
		wy, wm, wd := pair.gregorian.Date()
		if y != wy || m != wm || d != wd {
			t.Errorf("%v.Time() = %v; want Gregorian day %v", pair.jalali, got, pair.gregorian)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Errorf("%v.Time() = %v; want midnight", pair.jalali, got)
		}
	}
}

// Every date over several years must survive Jalali -> Gregorian -> Jalali
// and Gregorian -> Jalali -> Gregorian unchanged.
func TestRoundTrip(t *testing.T) {
	start := time.Date(2020, 1, 1, 12, 0, 0, 0, tehran)
	for i := 0; i < 6*366; i++ {
		instant := start.AddDate(0, 0, i)
		d := DateOf(instant)

		back := DateOf(d.Time().Add(12 * time.Hour))
		if !back.Equal(d) {
			t.Fatalf("jalali round trip broke at %v: %v -> %v", instant, d, back)
		}

		gy, gm, gd := d.Time().In(tehran).Date()
		iy, im, id := instant.Date()
		if gy != iy || gm != im || gd != id {
			t.Fatalf("gregorian round trip broke at %v: got %04d-%02d-%02d", instant, gy, gm, gd)
		}
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		d    Date
		n    int
		want Date
	}{
		{"within month", Date{1401, 1, 5}, 1, Date{1401, 1, 6}},
		{"month boundary", Date{1401, 1, 31}, 1, Date{1401, 2, 1}},
		{"year boundary", Date{1400, 12, 29}, 1, Date{1401, 1, 1}},
		{"into leap day", Date{1399, 12, 29}, 1, Date{1399, 12, 30}},
		{"leap day forward", Date{1399, 12, 30}, 1, Date{1400, 1, 1}},
		{"backward over year", Date{1401, 1, 1}, -1, Date{1400, 12, 29}},
		{"week back", Date{1401, 1, 10}, -7, Date{1401, 1, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.AddDays(tc.n); !got.Equal(tc.want) {
				t.Errorf("%v.AddDays(%d) = %v; want %v", tc.d, tc.n, got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a := Date{1400, 1, 1}
	b := Date{1401, 1, 5}
	if !a.Before(b) || b.Before(a) {
		t.Errorf("Before(%v, %v) inconsistent", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Errorf("After(%v, %v) inconsistent", b, a)
	}
	if !a.Equal(a) || a.Equal(b) {
		t.Errorf("Equal(%v, %v) inconsistent", a, b)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"1401/01/23", Date{1401, 1, 23}, false},
		{"1399/12/30", Date{1399, 12, 30}, false},
		{"1400/12/30", Date{}, true}, // 1400 is not a leap year
		{"1401/13/01", Date{}, true},
		{"1401/06/32", Date{}, true},
		{"1401/07/31", Date{}, true}, // Mehr has 30 days
		{"1401-01-23", Date{}, true},
		{"1401/1/23", Date{}, true},
		{"23/01/1401", Date{}, true},
		{"1401/01/2a", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range tests {
		got, err := ParseDate(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDate(%q) error = %v; wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		in      string
		want    DateTime
		wantErr bool
	}{
		{"1401/01/23 12:00:00", DateTime{Date{1401, 1, 23}, 12, 0, 0}, false},
		{"1401/01/23 00:30:59", DateTime{Date{1401, 1, 23}, 0, 30, 59}, false},
		{"1401/01/23 24:00:00", DateTime{}, true},
		{"1401/01/23 12:60:00", DateTime{}, true},
		{"1401/01/23T12:00:00", DateTime{}, true},
		{"1401/01/23 12:00", DateTime{}, true},
		{"1401/01/23", DateTime{}, true},
	}
	for _, tc := range tests {
		got, err := ParseDateTime(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDateTime(%q) error = %v; wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("ParseDateTime(%q) = %+v; want %+v", tc.in, got, tc.want)
		}
	}
}

func TestStringFormatting(t *testing.T) {
	d := Date{1401, 1, 5}
	if got := d.String(); got != "1401/01/05" {
		t.Errorf("Date.String() = %q; want %q", got, "1401/01/05")
	}
	dt := DateTime{Date: d, Hour: 7, Minute: 30, Second: 9}
	if got := dt.String(); got != "1401/01/05 07:30:09" {
		t.Errorf("DateTime.String() = %q; want %q", got, "1401/01/05 07:30:09")
	}

	// Format and parse are exact inverses.
	parsed, err := ParseDate(d.String())
	if err != nil || !parsed.Equal(d) {
		t.Errorf("ParseDate(%q) = %v, %v; want %v", d.String(), parsed, err, d)
	}
}

func TestTruncateToHour(t *testing.T) {
	dt := DateTime{Date: Date{1401, 2, 1}, Hour: 13, Minute: 45, Second: 12}
	got := dt.TruncateToHour()
	if got.Hour != 13 || got.Minute != 0 || got.Second != 0 {
		t.Errorf("TruncateToHour() = %+v; want minute and second zeroed", got)
	}
}

// Stored instants come back from the database in whatever zone the driver
// picks (UTC for timestamptz columns). Conversion must depend only on the
// instant, never on the carried location.
func TestDateTimeOf_LocationIndependent(t *testing.T) {
	zones := []*time.Location{time.UTC, time.FixedZone("UTC+5", 5*3600), tehran}
	for _, pair := range conversionPairs {
		// 23:00 Tehran sits on the next UTC calendar day, the worst case.
		instant := pair.jalali.Time().Add(23 * time.Hour)
		want := DateTimeOf(instant)
		if want.Date != pair.jalali || want.Hour != 23 {
			t.Fatalf("DateTimeOf(%v) = %+v; want %v hour 23", instant, want, pair.jalali)
		}
		for _, zone := range zones {
			if got := DateTimeOf(instant.In(zone)); got != want {
				t.Errorf("DateTimeOf(%v in %v) = %+v; want %+v", instant, zone, got, want)
			}
		}
	}
}
