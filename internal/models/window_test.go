package models

import (
	"errors"
	"testing"

	"github.com/arezooghiami/pahbar/internal/jalali"
)

func summaryOf(first, last jalali.Date) *DiscoDateSummary {
	return &DiscoDateSummary{
		FirstDate: first.Time(),
		LastDate:  last.Time(),
	}
}

func TestComputeNextWindow_NilSummary(t *testing.T) {
	window, err := ComputeNextWindow(nil, jalali.Date{Year: 1401, Month: 1, Day: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window != nil {
		t.Errorf("expected nil window, got %+v", window)
	}
}

func TestComputeNextWindow(t *testing.T) {
	today := jalali.Date{Year: 1401, Month: 1, Day: 10}

	tests := []struct {
		name    string
		first   jalali.Date
		last    jalali.Date
		want    DateWindow
		wantErr bool
	}{
		{
			name:  "gap since last upload",
			first: jalali.Date{Year: 1400, Month: 1, Day: 1},
			last:  jalali.Date{Year: 1401, Month: 1, Day: 5},
			want: DateWindow{
				FromStart:   "1400/01/01",
				FromDefault: "1401/01/06",
				FromEnd:     "1401/01/09",
				ToStart:     "1400/01/01",
				ToDefault:   "1401/01/09",
				ToEnd:       "1401/01/09",
			},
		},
		{
			name:  "covered through yesterday collapses to yesterday",
			first: jalali.Date{Year: 1400, Month: 1, Day: 1},
			last:  jalali.Date{Year: 1401, Month: 1, Day: 9},
			want: DateWindow{
				FromStart:   "1400/01/01",
				FromDefault: "1401/01/09",
				FromEnd:     "1401/01/09",
				ToStart:     "1400/01/01",
				ToDefault:   "1401/01/09",
				ToEnd:       "1401/01/09",
			},
		},
		{
			name:  "records already include today",
			first: jalali.Date{Year: 1400, Month: 1, Day: 1},
			last:  jalali.Date{Year: 1401, Month: 1, Day: 10},
			want: DateWindow{
				FromStart:   "1400/01/01",
				FromDefault: "1401/01/09",
				FromEnd:     "1401/01/09",
				ToStart:     "1400/01/01",
				ToDefault:   "1401/01/09",
				ToEnd:       "1401/01/09",
			},
		},
		{
			name:  "spans a year boundary",
			first: jalali.Date{Year: 1399, Month: 12, Day: 30},
			last:  jalali.Date{Year: 1400, Month: 1, Day: 1},
			want: DateWindow{
				FromStart:   "1399/12/30",
				FromDefault: "1400/01/02",
				FromEnd:     "1401/01/09",
				ToStart:     "1399/12/30",
				ToDefault:   "1401/01/09",
				ToEnd:       "1401/01/09",
			},
		},
		{
			name:    "first record today is inconsistent",
			first:   jalali.Date{Year: 1401, Month: 1, Day: 10},
			last:    jalali.Date{Year: 1401, Month: 1, Day: 10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := ComputeNextWindow(summaryOf(tt.first, tt.last), today)

			if tt.wantErr {
				var werr *WindowError
				if !errors.As(err, &werr) {
					t.Fatalf("expected WindowError, got %T: %v", err, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *window != tt.want {
				t.Errorf("window = %+v, want %+v", *window, tt.want)
			}
			assertWindowInvariants(t, window)
		})
	}
}

func assertWindowInvariants(t *testing.T, w *DateWindow) {
	t.Helper()

	parse := func(s string) jalali.Date {
		d, err := jalali.ParseDate(s)
		if err != nil {
			t.Fatalf("window field %q is not a valid local date: %v", s, err)
		}
		return d
	}

	fromStart := parse(w.FromStart)
	fromDefault := parse(w.FromDefault)
	fromEnd := parse(w.FromEnd)
	toStart := parse(w.ToStart)
	toDefault := parse(w.ToDefault)
	toEnd := parse(w.ToEnd)

	if fromStart.After(fromDefault) || fromDefault.After(fromEnd) {
		t.Errorf("from bounds out of order: %+v", w)
	}
	if toStart.After(toDefault) || toDefault.After(toEnd) {
		t.Errorf("to bounds out of order: %+v", w)
	}
	if fromDefault.After(toDefault) {
		t.Errorf("defaults out of order: %+v", w)
	}
}

func TestNewDateWindow_Invariants(t *testing.T) {
	d := func(y, m, day int) jalali.Date { return jalali.Date{Year: y, Month: m, Day: day} }

	tests := []struct {
		name    string
		args    [6]jalali.Date
		wantErr bool
	}{
		{
			name: "ordered window",
			args: [6]jalali.Date{
				d(1400, 1, 1), d(1401, 1, 6), d(1401, 1, 9),
				d(1400, 1, 1), d(1401, 1, 9), d(1401, 1, 9),
			},
		},
		{
			name: "from_start after from_default",
			args: [6]jalali.Date{
				d(1401, 1, 7), d(1401, 1, 6), d(1401, 1, 9),
				d(1400, 1, 1), d(1401, 1, 9), d(1401, 1, 9),
			},
			wantErr: true,
		},
		{
			name: "from_default after to_default",
			args: [6]jalali.Date{
				d(1400, 1, 1), d(1401, 1, 9), d(1401, 1, 9),
				d(1400, 1, 1), d(1401, 1, 6), d(1401, 1, 9),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.args
			window, err := NewDateWindow(a[0], a[1], a[2], a[3], a[4], a[5])
			if tt.wantErr {
				var werr *WindowError
				if !errors.As(err, &werr) {
					t.Fatalf("expected WindowError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if window == nil {
				t.Fatal("expected window")
			}
		})
	}
}
