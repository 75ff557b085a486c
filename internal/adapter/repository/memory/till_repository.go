package memory

import (
	"context"
	"sort"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/hugohenrick/erp-ceramica/pkg/money"
	"github.com/shopspring/decimal"
)

// TillRepository implementa till.Repository em memória
type TillRepository struct{ store *Store }

var _ till.Repository = (*TillRepository)(nil)

// openConflict reproduz o índice único parcial de caixas abertos
func (r *TillRepository) openConflict(t *till.Till) bool {
	if !t.Open {
		return false
	}
	for id, existing := range r.store.data.tills {
		if id != t.ID && existing.Open {
			return true
		}
	}
	return false
}

func (r *TillRepository) Create(ctx context.Context, t *till.Till) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	if r.openConflict(t) {
		return apperr.Conflict("já existe um caixa aberto")
	}
	r.store.data.tills[t.ID] = *t
	return nil
}

func (r *TillRepository) FindByID(ctx context.Context, id string) (*till.Till, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	t, ok := r.store.data.tills[id]
	if !ok {
		return nil, apperr.NotFound("caixa", id)
	}
	return &t, nil
}

func (r *TillRepository) FindByIDForUpdate(ctx context.Context, id string) (*till.Till, error) {
	return r.FindByID(ctx, id)
}

func (r *TillRepository) FindOpen(ctx context.Context) (*till.Till, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for _, t := range r.store.data.tills {
		if t.Open {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TillRepository) FindOpenForUpdate(ctx context.Context) (*till.Till, error) {
	return r.FindOpen(ctx)
}

// LockOpening não faz nada: o mutex do armazenamento já serializa a transação
func (r *TillRepository) LockOpening(ctx context.Context) error {
	return nil
}

func (r *TillRepository) Update(ctx context.Context, t *till.Till) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	current, ok := r.store.data.tills[t.ID]
	if !ok {
		return apperr.NotFound("caixa", t.ID)
	}
	if r.openConflict(t) {
		return apperr.Conflict("já existe um caixa aberto")
	}
	// O total só muda via AddToTotal
	updated := *t
	updated.Total = current.Total
	r.store.data.tills[t.ID] = updated
	return nil
}

func (r *TillRepository) AddToTotal(ctx context.Context, id string, delta decimal.Decimal) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	t, ok := r.store.data.tills[id]
	if !ok {
		return apperr.NotFound("caixa", id)
	}
	t.Total = money.Normalize(t.Total.Add(delta))
	r.store.data.tills[id] = t
	return nil
}

func (r *TillRepository) ListOpenBetween(ctx context.Context, from, to time.Time) ([]*till.Till, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	out := make([]*till.Till, 0)
	for _, t := range r.store.data.tills {
		if t.Open && !t.OpenedAt.Before(from) && t.OpenedAt.Before(to) {
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out, nil
}

func (r *TillRepository) List(ctx context.Context, limit, offset int) ([]*till.Till, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	out := make([]*till.Till, 0, len(r.store.data.tills))
	for _, t := range r.store.data.tills {
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return paginate(out, limit, offset), nil
}
