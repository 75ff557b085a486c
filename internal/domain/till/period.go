package till

import (
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
)

// PeriodKind define o agrupamento usado no fechamento por período
type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"   // Valor no formato 2006-01-02
	PeriodWeek  PeriodKind = "week"  // Semana ISO no formato 2006-W05
	PeriodMonth PeriodKind = "month" // Valor no formato 2006-01
)

// Period é um intervalo [Start, End) no fuso horário do negócio
type Period struct {
	Kind  PeriodKind
	Value string
	Start time.Time
	End   time.Time
}

// Contains verifica se o instante pertence ao período
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// ParsePeriod interpreta o tipo e o valor do período no fuso informado
func ParsePeriod(kind, value string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	p := Period{Kind: PeriodKind(strings.ToLower(strings.TrimSpace(kind))), Value: value}

	switch p.Kind {
	case PeriodDay:
		day, err := time.ParseInLocation("2006-01-02", value, loc)
		if err != nil {
			return Period{}, apperr.Validation("value", "dia deve estar no formato AAAA-MM-DD")
		}
		p.Start = day
		p.End = day.AddDate(0, 0, 1)
	case PeriodWeek:
		start, err := isoWeekStart(value, loc)
		if err != nil {
			return Period{}, err
		}
		p.Start = start
		p.End = start.AddDate(0, 0, 7)
	case PeriodMonth:
		month, err := time.ParseInLocation("2006-01", value, loc)
		if err != nil {
			return Period{}, apperr.Validation("value", "mês deve estar no formato AAAA-MM")
		}
		p.Start = month
		p.End = month.AddDate(0, 1, 0)
	default:
		return Period{}, apperr.Validation("period", fmt.Sprintf("período %q inválido, use day, week ou month", kind))
	}
	return p, nil
}

// isoWeekStart retorna a segunda-feira que inicia a semana ISO "AAAA-Www"
func isoWeekStart(value string, loc *time.Location) (time.Time, error) {
	invalid := apperr.Validation("value", "semana deve estar no formato AAAA-Www")

	var year, week int
	if n, err := fmt.Sscanf(strings.ToUpper(value), "%4d-W%2d", &year, &week); err != nil || n != 2 {
		return time.Time{}, invalid
	}
	if len(value) != len("2006-W01") || week < 1 || week > 53 {
		return time.Time{}, invalid
	}

	// 4 de janeiro sempre pertence à semana 1
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	start := jan4.AddDate(0, 0, -offset+(week-1)*7)

	if y, w := start.ISOWeek(); y != year || w != week {
		return time.Time{}, apperr.Validation("value", fmt.Sprintf("o ano %d não possui a semana %d", year, week))
	}
	return start, nil
}

// PeriodValue retorna o valor do período que contém o instante
func PeriodValue(kind PeriodKind, t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	switch kind {
	case PeriodWeek:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case PeriodMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
