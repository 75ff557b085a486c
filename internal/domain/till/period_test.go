package till

import (
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

func TestParsePeriod(t *testing.T) {
	loc := time.FixedZone("COT", -5*60*60)

	tests := []struct {
		name      string
		kind      string
		value     string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"day", "day", "2024-03-15",
			time.Date(2024, 3, 15, 0, 0, 0, 0, loc), time.Date(2024, 3, 16, 0, 0, 0, 0, loc)},
		{"month", "month", "2024-02",
			time.Date(2024, 2, 1, 0, 0, 0, 0, loc), time.Date(2024, 3, 1, 0, 0, 0, 0, loc)},
		{"december", "month", "2023-12",
			time.Date(2023, 12, 1, 0, 0, 0, 0, loc), time.Date(2024, 1, 1, 0, 0, 0, 0, loc)},
		{"week", "week", "2024-W05",
			time.Date(2024, 1, 29, 0, 0, 0, 0, loc), time.Date(2024, 2, 5, 0, 0, 0, 0, loc)},
		{"week one starting in previous year", "week", "2020-W01",
			time.Date(2019, 12, 30, 0, 0, 0, 0, loc), time.Date(2020, 1, 6, 0, 0, 0, 0, loc)},
		{"week 53", "week", "2020-W53",
			time.Date(2020, 12, 28, 0, 0, 0, 0, loc), time.Date(2021, 1, 4, 0, 0, 0, 0, loc)},
		{"kind is case insensitive", "DAY", "2024-03-15",
			time.Date(2024, 3, 15, 0, 0, 0, 0, loc), time.Date(2024, 3, 16, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePeriod(tt.kind, tt.value, loc)
			if err != nil {
				t.Fatalf("ParsePeriod() error = %v", err)
			}
			if !p.Start.Equal(tt.wantStart) || !p.End.Equal(tt.wantEnd) {
				t.Fatalf("ParsePeriod() = [%v, %v), want [%v, %v)", p.Start, p.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParsePeriodInvalid(t *testing.T) {
	tests := []struct {
		kind  string
		value string
	}{
		{"year", "2024"},
		{"day", "15/03/2024"},
		{"day", "2024-02-30"},
		{"month", "2024-13"},
		{"week", "2024-05"},
		{"week", "2024-W5"},
		{"week", "2024-W00"},
		{"week", "2021-W53"},
		{"week", "2024-W54"},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.value, func(t *testing.T) {
			_, err := ParsePeriod(tt.kind, tt.value, time.UTC)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("ParsePeriod(%q, %q) error = %v, want validation error", tt.kind, tt.value, err)
			}
		})
	}
}

func TestPeriodUsesBusinessTimezone(t *testing.T) {
	loc := time.FixedZone("COT", -5*60*60)
	p, err := ParsePeriod("day", "2024-03-15", loc)
	if err != nil {
		t.Fatalf("ParsePeriod() error = %v", err)
	}

	// 02:00 UTC do dia 16 ainda é dia 15 no fuso do negócio
	late := time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC)
	if !p.Contains(late) {
		t.Fatalf("período %v deveria conter %v", p, late)
	}
	early := time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)
	if p.Contains(early) {
		t.Fatalf("período %v não deveria conter %v", p, early)
	}
}

func TestPeriodValueRoundTrip(t *testing.T) {
	loc := time.UTC
	at := time.Date(2024, 1, 31, 15, 0, 0, 0, loc)

	for _, kind := range []PeriodKind{PeriodDay, PeriodWeek, PeriodMonth} {
		value := PeriodValue(kind, at, loc)
		p, err := ParsePeriod(string(kind), value, loc)
		if err != nil {
			t.Fatalf("ParsePeriod(%s, %s) error = %v", kind, value, err)
		}
		if !p.Contains(at) {
			t.Fatalf("período %s %s não contém %v", kind, value, at)
		}
	}
}

func TestTillClose(t *testing.T) {
	tl, err := NewTill("ana", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("NewTill() error = %v", err)
	}
	tl.Total = decimal.RequireFromString("35.00")

	if !tl.ExpectedCash().Equal(decimal.RequireFromString("135")) {
		t.Fatalf("ExpectedCash() = %s", tl.ExpectedCash())
	}
	if err := tl.Close(decimal.RequireFromString("130.50"), time.Now()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if tl.Open || tl.ClosedAt == nil {
		t.Fatalf("caixa deveria estar fechado: %+v", tl)
	}
	if !tl.Difference().Equal(decimal.RequireFromString("-4.50")) {
		t.Fatalf("Difference() = %s", tl.Difference())
	}
	if err := tl.Close(decimal.Zero, time.Now()); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("segundo Close() error = %v, want conflict", err)
	}
}

func TestNewTillValidation(t *testing.T) {
	if _, err := NewTill("  ", decimal.Zero); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("operador vazio: error = %v", err)
	}
	if _, err := NewTill("ana", decimal.NewFromInt(-1)); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("fundo negativo: error = %v", err)
	}
}
