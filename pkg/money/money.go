package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Scale é o número de casas decimais usado para preços, totais e estoque
const Scale int32 = 2

// DefaultCurrency é a moeda usada quando nenhuma é configurada (sol peruano)
const DefaultCurrency = gomoney.PEN

// Zero é o valor decimal zero já normalizado
var Zero = decimal.Zero

// Normalize arredonda um valor para a escala fixa de persistência
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Parse converte texto em decimal normalizado.
// Aceita vírgula como separador decimal ("12,50").
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, nil
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("valor decimal inválido %q: %w", s, err)
	}
	return Normalize(d), nil
}

// Sum soma uma lista de valores e normaliza o resultado
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Normalize(total)
}

// Format formata um valor monetário na moeda informada, ex.: "S/15.00".
// Códigos desconhecidos caem na moeda padrão.
func Format(d decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" || gomoney.GetCurrency(code) == nil {
		code = DefaultCurrency
	}
	cur := gomoney.GetCurrency(code)
	minor := Normalize(d).Shift(int32(cur.Fraction)).IntPart()
	return gomoney.New(minor, code).Display()
}
