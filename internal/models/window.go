package models

import (
	"time"

	"github.com/arezooghiami/pahbar/internal/jalali"
)

// DiscoDateSummary holds the first and last record dates of a disco.
type DiscoDateSummary struct {
	FirstDate time.Time `db:"first_date"`
	LastDate  time.Time `db:"last_date"`
}

// DateWindow bounds the date pickers of the next upload. All six fields
// are local dates.
type DateWindow struct {
	FromStart   string `json:"from_start"`
	FromDefault string `json:"from_default"`
	FromEnd     string `json:"from_end"`
	ToStart     string `json:"to_start"`
	ToDefault   string `json:"to_default"`
	ToEnd       string `json:"to_end"`
}

// NewDateWindow builds a window and enforces its internal ordering.
func NewDateWindow(fromStart, fromDefault, fromEnd, toStart, toDefault, toEnd jalali.Date) (*DateWindow, error) {
	if fromStart.After(fromDefault) {
		return nil, &WindowError{Message: "from_start is after from_default"}
	}
	if fromDefault.After(fromEnd) {
		return nil, &WindowError{Message: "from_default is after from_end"}
	}
	if toStart.After(toDefault) {
		return nil, &WindowError{Message: "to_start is after to_default"}
	}
	if toDefault.After(toEnd) {
		return nil, &WindowError{Message: "to_default is after to_end"}
	}
	if fromDefault.After(toDefault) {
		return nil, &WindowError{Message: "from_default is after to_default"}
	}
	if fromEnd.After(toEnd) {
		return nil, &WindowError{Message: "from_end is after to_end"}
	}

	return &DateWindow{
		FromStart:   fromStart.String(),
		FromDefault: fromDefault.String(),
		FromEnd:     fromEnd.String(),
		ToStart:     toStart.String(),
		ToDefault:   toDefault.String(),
		ToEnd:       toEnd.String(),
	}, nil
}

// ComputeNextWindow derives the next upload window from a disco's date
// summary. A nil summary (no records yet) yields a nil window.
func ComputeNextWindow(summary *DiscoDateSummary, today jalali.Date) (*DateWindow, error) {
	if summary == nil {
		return nil, nil
	}

	yesterday := today.AddDays(-1)

	// The day after the last record, clamped so the default never passes
	// yesterday even when records run through today.
	firstMissing := jalali.DateOf(summary.LastDate).AddDays(1)
	if firstMissing.After(yesterday) {
		firstMissing = yesterday
	}

	start := jalali.DateOf(summary.FirstDate)

	return NewDateWindow(start, firstMissing, yesterday, start, yesterday, yesterday)
}
