package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/internal/domain/transaction"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProductRequest reúne os dados de criação ou edição de um produto.
// Quando CategoryID é vazio, CategoryName é buscado ou criado.
type ProductRequest struct {
	Name         string
	Brand        string
	CategoryID   string
	CategoryName string
	Stock        decimal.Decimal
	Unit         catalog.Unit
	Price        decimal.Decimal
	Sold         decimal.Decimal
	Supplier     string
}

// CatalogService gerencia categorias, produtos e a importação de planilhas
type CatalogService struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	tx         transaction.Manager
	logger     logger.Logger
}

// NewCatalogService cria o serviço de catálogo
func NewCatalogService(categories catalog.CategoryRepository, products catalog.ProductRepository, tx transaction.Manager, log logger.Logger) *CatalogService {
	return &CatalogService{categories: categories, products: products, tx: tx, logger: log}
}

// CreateCategory cria uma categoria com nome único em maiúsculas
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*catalog.Category, error) {
	c, err := catalog.NewCategory(name)
	if err != nil {
		return nil, err
	}

	_, err = s.categories.FindByName(ctx, c.Name)
	if err == nil {
		return nil, apperr.Conflict("categoria %s já existe", c.Name)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("erro ao buscar categoria: %w", err)
	}

	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories lista as categorias em ordem alfabética
func (s *CatalogService) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	return s.categories.List(ctx)
}

// DeleteCategory remove uma categoria sem produtos vinculados
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.categories.FindByID(ctx, id); err != nil {
			return err
		}
		count, err := s.products.CountByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("erro ao contar produtos da categoria: %w", err)
		}
		if count > 0 {
			return apperr.Conflict("categoria possui %d produto(s) vinculado(s)", count)
		}
		return s.categories.Delete(ctx, id)
	})
}

// categoryFor busca ou cria a categoria pelo nome normalizado
func (s *CatalogService) categoryFor(ctx context.Context, name string) (*catalog.Category, error) {
	name = catalog.NormalizeCategoryName(name)
	c, err := s.categories.FindByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("erro ao buscar categoria: %w", err)
	}

	c, err = catalog.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) resolveCategory(ctx context.Context, req ProductRequest) (*catalog.Category, error) {
	if req.CategoryID != "" {
		return s.categories.FindByID(ctx, req.CategoryID)
	}
	if strings.TrimSpace(req.CategoryName) != "" {
		return s.categoryFor(ctx, req.CategoryName)
	}
	return nil, apperr.Validation("category_id", "categoria é obrigatória")
}

func (req ProductRequest) input(categoryID string) catalog.ProductInput {
	return catalog.ProductInput{
		Name:       req.Name,
		Brand:      req.Brand,
		CategoryID: categoryID,
		Stock:      req.Stock,
		Unit:       req.Unit,
		Price:      req.Price,
		Sold:       req.Sold,
		Supplier:   req.Supplier,
	}
}

// CreateProduct cadastra um produto
func (s *CatalogService) CreateProduct(ctx context.Context, req ProductRequest) (*catalog.Product, error) {
	var created *catalog.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.resolveCategory(ctx, req)
		if err != nil {
			return err
		}
		p, err := catalog.NewProduct(req.input(c.ID))
		if err != nil {
			return err
		}
		if err := s.products.Create(ctx, p); err != nil {
			return fmt.Errorf("erro ao criar produto: %w", err)
		}
		p.Category = c.Name
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("produto criado", "product_id", created.ID, "name", created.Name)
	return created, nil
}

// UpdateProduct altera os dados de um produto
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*catalog.Product, error) {
	var updated *catalog.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		c, err := s.resolveCategory(ctx, req)
		if err != nil {
			return err
		}
		if err := p.Apply(req.input(c.ID)); err != nil {
			return err
		}
		if err := s.products.Update(ctx, p); err != nil {
			return fmt.Errorf("erro ao atualizar produto: %w", err)
		}
		p.Category = c.Name
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetProduct busca um produto pelo ID
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// DeleteProduct remove um produto. Os itens de venda mantêm o nome registrado.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("produto removido", "product_id", id)
	return nil
}

// ListProducts lista produtos por nome ou marca e categoria
func (s *CatalogService) ListProducts(ctx context.Context, f catalog.ProductFilter) ([]*catalog.Product, error) {
	return s.products.List(ctx, f)
}

// ReplaceCatalog apaga todos os produtos e recria o catálogo a partir das linhas.
// Linhas sem nome são ignoradas. Retorna a quantidade de produtos criados.
func (s *CatalogService) ReplaceCatalog(ctx context.Context, rows []catalog.Row, defaultCategory string) (int, error) {
	if strings.TrimSpace(defaultCategory) == "" {
		defaultCategory = catalog.DefaultCategoryName
	}

	created := 0
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.products.DeleteAll(ctx); err != nil {
			return fmt.Errorf("erro ao limpar catálogo: %w", err)
		}

		categories := make(map[string]*catalog.Category)
		for _, row := range rows {
			if strings.TrimSpace(row.Name) == "" {
				continue
			}

			name := catalog.NormalizeCategoryName(row.Category)
			if name == "" {
				name = catalog.NormalizeCategoryName(defaultCategory)
			}
			c, ok := categories[name]
			if !ok {
				var err error
				if c, err = s.categoryFor(ctx, name); err != nil {
					return err
				}
				categories[name] = c
			}

			unit := catalog.UnitPiece
			if strings.TrimSpace(row.Format) != "" {
				parsed, ok := catalog.ParseUnit(row.Format)
				if !ok {
					return apperr.Validation(fmt.Sprintf("linha %d", row.Line), fmt.Sprintf("formato %q inválido", row.Format))
				}
				unit = parsed
			}

			p, err := catalog.NewProduct(catalog.ProductInput{
				Name:       row.Name,
				Brand:      row.Brand,
				CategoryID: c.ID,
				Stock:      row.Stock,
				Unit:       unit,
				Price:      row.Price,
				Sold:       row.Sold,
				Supplier:   row.Supplier,
			})
			if err != nil {
				var verr *apperr.ValidationError
				if errors.As(err, &verr) {
					return apperr.Validation(fmt.Sprintf("linha %d", row.Line), verr.Error())
				}
				return err
			}
			if err := s.products.Create(ctx, p); err != nil {
				return fmt.Errorf("erro ao criar produto da linha %d: %w", row.Line, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("catálogo substituído", "products", created)
	return created, nil
}

// ExportCatalog retorna todas as linhas do catálogo em ordem de nome
func (s *CatalogService) ExportCatalog(ctx context.Context) ([]catalog.Row, error) {
	products, err := s.products.List(ctx, catalog.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("erro ao listar produtos: %w", err)
	}
	rows := make([]catalog.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, catalog.RowFromProduct(p))
	}
	return rows, nil
}
