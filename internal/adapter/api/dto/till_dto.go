package dto

import (
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/shopspring/decimal"
)

// OpenTillRequest representa os dados de abertura de caixa.
// Sem operator, o nome do usuário autenticado é usado.
type OpenTillRequest struct {
	Operator     string          `json:"operator"`
	OpeningFloat decimal.Decimal `json:"opening_float" swaggertype:"string" example:"100.00"`
}

// CloseTillRequest representa os dados de fechamento de caixa
type CloseTillRequest struct {
	ClosingFloat decimal.Decimal `json:"closing_float" swaggertype:"string" example:"135.00"`
}

// TillResponse representa a resposta com dados de um caixa
type TillResponse struct {
	ID           string     `json:"id"`
	Operator     string     `json:"operator"`
	OpeningFloat string     `json:"opening_float"`
	ClosingFloat *string    `json:"closing_float,omitempty"`
	Open         bool       `json:"open"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	Total        string     `json:"total"`
	ExpectedCash string     `json:"expected_cash"`
	Difference   *string    `json:"difference,omitempty"`
}

// ToTillResponse converte um caixa do domínio para DTO de resposta
func ToTillResponse(t *till.Till) TillResponse {
	resp := TillResponse{
		ID:           t.ID,
		Operator:     t.Operator,
		OpeningFloat: Amount(t.OpeningFloat),
		ClosingFloat: optionalAmount(t.ClosingFloat),
		Open:         t.Open,
		OpenedAt:     t.OpenedAt,
		ClosedAt:     t.ClosedAt,
		Total:        Amount(t.Total),
		ExpectedCash: Amount(t.ExpectedCash()),
	}
	if !t.Open {
		diff := t.Difference()
		resp.Difference = optionalAmount(&diff)
	}
	return resp
}

// ToTillResponses converte uma lista de caixas
func ToTillResponses(tills []*till.Till) []TillResponse {
	out := make([]TillResponse, len(tills))
	for i, t := range tills {
		out[i] = ToTillResponse(t)
	}
	return out
}
