package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/arezooghiami/pahbar/internal/jalali"
)

const (
	// CanonicalLayout is the Gregorian layout records are persisted in.
	CanonicalLayout = "2006-01-02 15:04:05"

	// HoursPerDay is the number of load slots in one local day.
	HoursPerDay = 24

	// maxGregorianYear guards against Gregorian dates fed where local
	// ones belong.
	maxGregorianYear = 2100
)

// HourlyLoad is one measured load value of a disco at an exact hour.
type HourlyLoad struct {
	ID         int64     `db:"id" json:"id"`
	DiscoID    int       `db:"disco_id" json:"disco_id"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	LoadMWh    float64   `db:"load_mwh" json:"load_mwh"`
	Source     string    `db:"source" json:"source"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Canonical returns the persisted Gregorian form of the record's timestamp.
func (l *HourlyLoad) Canonical() string {
	return l.RecordedAt.Format(CanonicalLayout)
}

// NewHourlyLoad validates one local-datetime/load pair into a record.
// The datetime is truncated to the whole hour before conversion.
func NewHourlyLoad(discoID int, datetimeStr, loadStr string) (*HourlyLoad, error) {
	dt, err := jalali.ParseDateTime(datetimeStr)
	if err != nil {
		return nil, &DateTimeFormatError{Value: datetimeStr}
	}

	recordedAt := dt.TruncateToHour().Time()
	if year := recordedAt.Year(); year > maxGregorianYear {
		return nil, &ImplausibleDateError{Value: datetimeStr, Year: year}
	}

	load, err := strconv.ParseFloat(strings.TrimSpace(loadStr), 64)
	if err != nil || load < 0 {
		return nil, &LoadValueError{Value: loadStr}
	}

	return newHourlyLoad(discoID, recordedAt, load)
}

func newHourlyLoad(discoID int, recordedAt time.Time, load float64) (*HourlyLoad, error) {
	if discoID <= 0 {
		return nil, &RecordError{Message: fmt.Sprintf("disco id must be positive, got %d", discoID)}
	}
	return &HourlyLoad{
		DiscoID:    discoID,
		RecordedAt: recordedAt,
		LoadMWh:    load,
		Source:     "manual",
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// LoadRow is one uploaded day: a local date and up to 24 hourly cells.
// Empty cells mean the hour was not reported.
type LoadRow struct {
	Date  string
	Cells [HoursPerDay]string
}

// LoadTable is an uploaded batch of day rows.
type LoadTable []LoadRow

// Records validates the whole table into hourly records, row by row and
// hour by hour. The first bad cell aborts the batch.
func (t LoadTable) Records(discoID int) ([]*HourlyLoad, error) {
	var records []*HourlyLoad
	for i, row := range t {
		for hour, cell := range row.Cells {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			datetime := fmt.Sprintf("%s %02d:00:00", row.Date, hour)
			rec, err := NewHourlyLoad(discoID, datetime, cell)
			if err != nil {
				return nil, &BatchError{Row: i, Hour: hour, Date: row.Date, Err: err}
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// DayLoads is the retrieval shape of one local day: 24 slots, zero where
// no positive load was recorded.
type DayLoads struct {
	Date  string
	Hours [HoursPerDay]float64
}

// MarshalJSON flattens the day into {"date": ..., "H0": ..., ..., "H23": ...}.
func (d *DayLoads) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteString(`{"date":`)
	b.WriteString(strconv.Quote(d.Date))
	for h, v := range d.Hours {
		fmt.Fprintf(&b, `,"H%d":%s`, h, strconv.FormatFloat(v, 'f', -1, 64))
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// FormatDayLoads groups records into per-day rows sorted by local date.
// Slots keep their zero default unless a positive load was recorded.
func FormatDayLoads(records []*HourlyLoad) []*DayLoads {
	byDate := make(map[string]*DayLoads)
	for _, rec := range records {
		dt := jalali.DateTimeOf(rec.RecordedAt)
		key := dt.Date.String()
		day, ok := byDate[key]
		if !ok {
			day = &DayLoads{Date: key}
			byDate[key] = day
		}
		if rec.LoadMWh > 0 {
			day.Hours[dt.Hour] = rec.LoadMWh
		}
	}

	days := make([]*DayLoads, 0, len(byDate))
	for _, day := range byDate {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}
