// Package memory implementa os repositórios em memória, usados quando
// DATABASE_URL não está configurada e nos testes dos serviços.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/internal/domain/customer"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/hugohenrick/erp-ceramica/internal/domain/transaction"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
)

type txKey struct{}

type storedSale struct {
	sale  sale.Sale
	lines []sale.Line
}

type state struct {
	categories map[string]catalog.Category
	products   map[string]catalog.Product
	customers  map[string]customer.Customer
	tills      map[string]till.Till
	sales      map[string]storedSale
	users      map[string]user.User
}

func (s *state) clone() *state {
	sales := make(map[string]storedSale, len(s.sales))
	for id, ss := range s.sales {
		sales[id] = storedSale{sale: ss.sale, lines: slices.Clone(ss.lines)}
	}
	return &state{
		categories: maps.Clone(s.categories),
		products:   maps.Clone(s.products),
		customers:  maps.Clone(s.customers),
		tills:      maps.Clone(s.tills),
		sales:      sales,
		users:      maps.Clone(s.users),
	}
}

// Store guarda todas as entidades em memória protegidas por um único mutex.
// Dentro de WithinTransaction o mutex fica preso até o fim da função.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore cria um armazenamento vazio
func NewStore() *Store {
	return &Store{data: &state{
		categories: make(map[string]catalog.Category),
		products:   make(map[string]catalog.Product),
		customers:  make(map[string]customer.Customer),
		tills:      make(map[string]till.Till),
		sales:      make(map[string]storedSale),
		users:      make(map[string]user.User),
	}}
}

var _ transaction.Manager = (*Store)(nil)

func inTx(ctx context.Context) bool {
	v, ok := ctx.Value(txKey{}).(bool)
	return ok && v
}

func (s *Store) lock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.Lock()
	}
}

func (s *Store) unlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.Unlock()
	}
}

// WithinTransaction executa fn com o armazenamento bloqueado.
// Se fn retornar erro o estado anterior é restaurado.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Repositórios expostos pelo armazenamento

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{store: s} }
func (s *Store) Products() *ProductRepository   { return &ProductRepository{store: s} }
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{store: s} }
func (s *Store) Tills() *TillRepository         { return &TillRepository{store: s} }
func (s *Store) Sales() *SaleRepository         { return &SaleRepository{store: s} }
func (s *Store) Users() *UserRepository         { return &UserRepository{store: s} }

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
