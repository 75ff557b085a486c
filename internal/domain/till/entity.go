package till

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/pkg/money"
	"github.com/shopspring/decimal"
)

// Till representa uma sessão de caixa.
// Total é o acumulado das vendas atribuídas ao caixa.
type Till struct {
	ID           string           `json:"id"`
	Operator     string           `json:"operator"`
	OpeningFloat decimal.Decimal  `json:"opening_float"`
	ClosingFloat *decimal.Decimal `json:"closing_float,omitempty"`
	Open         bool             `json:"open"`
	OpenedAt     time.Time        `json:"opened_at"`
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
	Total        decimal.Decimal  `json:"total"`
}

// NewTill abre uma nova sessão de caixa com total zerado
func NewTill(operator string, openingFloat decimal.Decimal) (*Till, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return nil, apperr.Validation("operator", "operador é obrigatório")
	}
	openingFloat = money.Normalize(openingFloat)
	if openingFloat.IsNegative() {
		return nil, apperr.Validation("opening_float", "fundo de caixa não pode ser negativo")
	}

	return &Till{
		ID:           uuid.New().String(),
		Operator:     operator,
		OpeningFloat: openingFloat,
		Open:         true,
		OpenedAt:     time.Now(),
		Total:        money.Zero,
	}, nil
}

// Close fecha o caixa registrando o valor contado na gaveta
func (t *Till) Close(closingFloat decimal.Decimal, at time.Time) error {
	if !t.Open {
		return apperr.Conflict("caixa %s já está fechado", t.ID)
	}
	closingFloat = money.Normalize(closingFloat)
	if closingFloat.IsNegative() {
		return apperr.Validation("closing_float", "valor de fechamento não pode ser negativo")
	}
	t.Open = false
	t.ClosingFloat = &closingFloat
	t.ClosedAt = &at
	return nil
}

// ExpectedCash retorna o valor esperado na gaveta: fundo inicial mais vendas
func (t *Till) ExpectedCash() decimal.Decimal {
	return money.Normalize(t.OpeningFloat.Add(t.Total))
}

// Difference retorna a diferença entre o valor contado e o esperado.
// Retorna zero enquanto o caixa estiver aberto.
func (t *Till) Difference() decimal.Decimal {
	if t.ClosingFloat == nil {
		return money.Zero
	}
	return money.Normalize(t.ClosingFloat.Sub(t.ExpectedCash()))
}
