package till

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository define a interface para operações de repositório de caixas
type Repository interface {
	// Create cria um novo caixa
	Create(ctx context.Context, t *Till) error

	// FindByID busca um caixa pelo ID
	FindByID(ctx context.Context, id string) (*Till, error)

	// FindByIDForUpdate busca um caixa bloqueando a linha até o fim da transação
	FindByIDForUpdate(ctx context.Context, id string) (*Till, error)

	// FindOpen retorna o caixa aberto ou nil quando não há nenhum
	FindOpen(ctx context.Context) (*Till, error)

	// FindOpenForUpdate retorna o caixa aberto bloqueando a linha
	FindOpenForUpdate(ctx context.Context) (*Till, error)

	// LockOpening serializa aberturas de caixa dentro da transação corrente
	LockOpening(ctx context.Context) error

	// Update grava o estado de abertura/fechamento do caixa
	Update(ctx context.Context, t *Till) error

	// AddToTotal soma delta ao total acumulado do caixa
	AddToTotal(ctx context.Context, id string, delta decimal.Decimal) error

	// ListOpenBetween lista os caixas abertos com abertura em [from, to)
	ListOpenBetween(ctx context.Context, from, to time.Time) ([]*Till, error)

	// List lista o histórico de caixas, mais recentes primeiro
	List(ctx context.Context, limit, offset int) ([]*Till, error)
}
