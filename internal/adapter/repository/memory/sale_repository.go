package memory

import (
	"context"
	"sort"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
)

// SaleRepository implementa sale.Repository em memória
type SaleRepository struct{ store *Store }

var _ sale.Repository = (*SaleRepository)(nil)

func (ss storedSale) toSale(withLines bool) *sale.Sale {
	s := ss.sale
	s.Lines = nil
	if withLines {
		s.Lines = make([]*sale.Line, 0, len(ss.lines))
		for _, l := range ss.lines {
			s.Lines = append(s.Lines, &l)
		}
	}
	return &s
}

// NextNumber retorna o maior número existente mais um
func (r *SaleRepository) NextNumber(ctx context.Context) (int64, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	var max int64
	for _, ss := range r.store.data.sales {
		if ss.sale.Number > max {
			max = ss.sale.Number
		}
	}
	return max + 1, nil
}

func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for _, existing := range r.store.data.sales {
		if existing.sale.Number == s.Number {
			return apperr.Conflict("número de venda %d já utilizado", s.Number)
		}
	}
	if s.TillID != nil {
		if _, ok := r.store.data.tills[*s.TillID]; !ok {
			return apperr.NotFound("caixa", *s.TillID)
		}
	}

	stored := storedSale{sale: *s}
	stored.sale.Lines = nil
	for _, l := range s.Lines {
		stored.lines = append(stored.lines, *l)
	}
	r.store.data.sales[s.ID] = stored
	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	ss, ok := r.store.data.sales[id]
	if !ok {
		return nil, apperr.NotFound("venda", id)
	}
	return ss.toSale(true), nil
}

func (r *SaleRepository) FindByIDForUpdate(ctx context.Context, id string) (*sale.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *SaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	ss, ok := r.store.data.sales[s.ID]
	if !ok {
		return apperr.NotFound("venda", s.ID)
	}
	if s.TillID != nil {
		if _, ok := r.store.data.tills[*s.TillID]; !ok {
			return apperr.NotFound("caixa", *s.TillID)
		}
	}
	ss.sale.Total = s.Total
	ss.sale.TillID = s.TillID
	r.store.data.sales[s.ID] = ss
	return nil
}

func (r *SaleRepository) CreateLine(ctx context.Context, l *sale.Line) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	ss, ok := r.store.data.sales[l.SaleID]
	if !ok {
		return apperr.NotFound("venda", l.SaleID)
	}
	ss.lines = append(ss.lines, *l)
	r.store.data.sales[l.SaleID] = ss
	return nil
}

func (r *SaleRepository) UpdateLine(ctx context.Context, l *sale.Line) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	ss, ok := r.store.data.sales[l.SaleID]
	if !ok {
		return apperr.NotFound("venda", l.SaleID)
	}
	for i := range ss.lines {
		if ss.lines[i].ID == l.ID {
			ss.lines[i].Quantity = l.Quantity
			ss.lines[i].UnitPrice = l.UnitPrice
			return nil
		}
	}
	return apperr.NotFound("item de venda", l.ID)
}

func (r *SaleRepository) DeleteLine(ctx context.Context, lineID string) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for id, ss := range r.store.data.sales {
		for i := range ss.lines {
			if ss.lines[i].ID == lineID {
				ss.lines = append(ss.lines[:i:i], ss.lines[i+1:]...)
				r.store.data.sales[id] = ss
				return nil
			}
		}
	}
	return apperr.NotFound("item de venda", lineID)
}

func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	if _, ok := r.store.data.sales[id]; !ok {
		return apperr.NotFound("venda", id)
	}
	delete(r.store.data.sales, id)
	return nil
}

func (r *SaleRepository) List(ctx context.Context, f sale.Filter) ([]*sale.Sale, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	out := make([]*sale.Sale, 0)
	for _, ss := range r.store.data.sales {
		if f.TillID != "" && !ss.sale.BelongsTo(f.TillID) {
			continue
		}
		out = append(out, ss.toSale(false))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return paginate(out, f.Limit, f.Offset), nil
}
