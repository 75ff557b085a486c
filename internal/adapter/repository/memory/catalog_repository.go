package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
)

// CategoryRepository implementa catalog.CategoryRepository em memória
type CategoryRepository struct{ store *Store }

var _ catalog.CategoryRepository = (*CategoryRepository)(nil)

func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for _, existing := range r.store.data.categories {
		if existing.Name == c.Name {
			return apperr.Conflict("categoria %s já existe", c.Name)
		}
	}
	r.store.data.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*catalog.Category, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	c, ok := r.store.data.categories[id]
	if !ok {
		return nil, apperr.NotFound("categoria", id)
	}
	return &c, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for _, c := range r.store.data.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, apperr.NotFound("categoria", name)
}

func (r *CategoryRepository) List(ctx context.Context) ([]*catalog.Category, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	out := make([]*catalog.Category, 0, len(r.store.data.categories))
	for _, c := range r.store.data.categories {
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	if _, ok := r.store.data.categories[id]; !ok {
		return apperr.NotFound("categoria", id)
	}
	for _, p := range r.store.data.products {
		if p.CategoryID == id {
			return apperr.Conflict("categoria possui produtos vinculados")
		}
	}
	delete(r.store.data.categories, id)
	return nil
}

// ProductRepository implementa catalog.ProductRepository em memória
type ProductRepository struct{ store *Store }

var _ catalog.ProductRepository = (*ProductRepository)(nil)

// withCategory devolve uma cópia do produto com o nome da categoria preenchido
func (r *ProductRepository) withCategory(p catalog.Product) *catalog.Product {
	if c, ok := r.store.data.categories[p.CategoryID]; ok {
		p.Category = c.Name
	}
	return &p
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	if _, ok := r.store.data.categories[p.CategoryID]; !ok {
		return apperr.NotFound("categoria", p.CategoryID)
	}
	r.store.data.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	p, ok := r.store.data.products[id]
	if !ok {
		return nil, apperr.NotFound("produto", id)
	}
	return r.withCategory(p), nil
}

// FindByIDForUpdate equivale a FindByID: o mutex da transação já serializa o acesso
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *ProductRepository) List(ctx context.Context, f catalog.ProductFilter) ([]*catalog.Product, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]*catalog.Product, 0)
	for _, p := range r.store.data.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Brand), query) {
			continue
		}
		out = append(out, r.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	if _, ok := r.store.data.products[p.ID]; !ok {
		return apperr.NotFound("produto", p.ID)
	}
	if _, ok := r.store.data.categories[p.CategoryID]; !ok {
		return apperr.NotFound("categoria", p.CategoryID)
	}
	r.store.data.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	if _, ok := r.store.data.products[id]; !ok {
		return apperr.NotFound("produto", id)
	}
	r.deleteProduct(id)
	return nil
}

func (r *ProductRepository) DeleteAll(ctx context.Context) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for id := range r.store.data.products {
		r.deleteProduct(id)
	}
	return nil
}

// deleteProduct remove o produto e desvincula os itens de venda que o referenciam
func (r *ProductRepository) deleteProduct(id string) {
	delete(r.store.data.products, id)
	for saleID, ss := range r.store.data.sales {
		changed := false
		for i := range ss.lines {
			if ss.lines[i].ProductID != nil && *ss.lines[i].ProductID == id {
				ss.lines[i].ProductID = nil
				changed = true
			}
		}
		if changed {
			r.store.data.sales[saleID] = ss
		}
	}
}

func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	count := 0
	for _, p := range r.store.data.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}
