package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/customer"
)

// CustomerRepository implementa customer.Repository em memória
type CustomerRepository struct{ store *Store }

var _ customer.Repository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for _, existing := range r.store.data.customers {
		if existing.Name == c.Name {
			return apperr.Conflict("cliente %s já existe", c.Name)
		}
	}
	r.store.data.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	c, ok := r.store.data.customers[id]
	if !ok {
		return nil, apperr.NotFound("cliente", id)
	}
	return &c, nil
}

func (r *CustomerRepository) FindByName(ctx context.Context, name string) (*customer.Customer, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for _, c := range r.store.data.customers {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, apperr.NotFound("cliente", name)
}

func (r *CustomerRepository) List(ctx context.Context, query string, limit, offset int) ([]*customer.Customer, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*customer.Customer, 0, len(r.store.data.customers))
	for _, c := range r.store.data.customers {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), query) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}
