package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/hugohenrick/erp-ceramica/internal/domain/transaction"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
	"github.com/hugohenrick/erp-ceramica/pkg/money"
	"github.com/shopspring/decimal"
)

// LineRequest descreve um item pedido na venda.
// UnitPrice nulo usa o preço atual do produto.
type LineRequest struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// RegisterSaleInput reúne os dados para registrar uma venda
type RegisterSaleInput struct {
	CustomerName string
	DocumentType sale.DocumentType
	Lines        []LineRequest
}

// UpdateLineInput altera um item existente. UnitPrice nulo mantém o preço.
type UpdateLineInput struct {
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// SaleService registra vendas e mantém o total dos caixas consistente
type SaleService struct {
	sales     sale.Repository
	products  catalog.ProductRepository
	tills     till.Repository
	customers *CustomerService
	tx        transaction.Manager
	receipt   ReceiptSettings
	logger    logger.Logger
}

// NewSaleService cria o serviço de vendas
func NewSaleService(
	sales sale.Repository,
	products catalog.ProductRepository,
	tills till.Repository,
	customers *CustomerService,
	tx transaction.Manager,
	receipt ReceiptSettings,
	log logger.Logger,
) *SaleService {
	return &SaleService{
		sales:     sales,
		products:  products,
		tills:     tills,
		customers: customers,
		tx:        tx,
		receipt:   receipt,
		logger:    log,
	}
}

func validateLineRequest(i int, l LineRequest) error {
	field := fmt.Sprintf("lines[%d]", i)
	if strings.TrimSpace(l.ProductID) == "" {
		return apperr.Validation(field+".product_id", "produto é obrigatório")
	}
	if !money.Normalize(l.Quantity).IsPositive() {
		return apperr.Validation(field+".quantity", "quantidade deve ser maior que zero")
	}
	if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
		return apperr.Validation(field+".unit_price", "preço unitário não pode ser negativo")
	}
	return nil
}

func (in RegisterSaleInput) validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return apperr.Validation("customer_name", "nome do cliente é obrigatório")
	}
	if !in.DocumentType.Valid() {
		return apperr.Validation("document_type", "tipo de documento inválido")
	}
	if len(in.Lines) == 0 {
		return apperr.Validation("lines", "a venda precisa de ao menos um item")
	}
	for i, l := range in.Lines {
		if err := validateLineRequest(i, l); err != nil {
			return err
		}
	}
	return nil
}

// lockProducts bloqueia os produtos em ordem de ID para evitar deadlocks
func (s *SaleService) lockProducts(ctx context.Context, ids []string) (map[string]*catalog.Product, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)

	products := make(map[string]*catalog.Product, len(unique))
	for _, id := range unique {
		p, err := s.products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		products[id] = p
	}
	return products, nil
}

func (s *SaleService) saveProducts(ctx context.Context, products map[string]*catalog.Product) error {
	ids := make([]string, 0, len(products))
	for id := range products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := s.products.Update(ctx, products[id]); err != nil {
			return fmt.Errorf("erro ao atualizar estoque: %w", err)
		}
	}
	return nil
}

// RegisterSale registra a venda em uma única transação.
// Todos os itens são validados contra o estoque antes de qualquer gravação.
func (s *SaleService) RegisterSale(ctx context.Context, in RegisterSaleInput) (*sale.Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *sale.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.tills.FindOpenForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("erro ao buscar caixa aberto: %w", err)
		}
		if open == nil {
			return apperr.Validation("", "nenhum caixa aberto: abra um caixa antes de registrar vendas")
		}

		ids := make([]string, 0, len(in.Lines))
		for _, l := range in.Lines {
			ids = append(ids, l.ProductID)
		}
		products, err := s.lockProducts(ctx, ids)
		if err != nil {
			return err
		}

		requested := make(map[string]decimal.Decimal, len(products))
		for _, l := range in.Lines {
			p := products[l.ProductID]
			requested[p.ID] = requested[p.ID].Add(money.Normalize(l.Quantity))
			if !p.HasStock(requested[p.ID]) {
				return &apperr.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Requested:   requested[p.ID],
					Available:   p.Stock,
				}
			}
		}

		c, err := s.customers.ResolveCustomer(ctx, in.CustomerName)
		if err != nil {
			return err
		}

		number, err := s.sales.NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("erro ao gerar número da venda: %w", err)
		}

		sl := sale.NewSale(c.ID, c.Name, in.DocumentType)
		sl.Number = number
		sl.TillID = &open.ID
		for _, l := range in.Lines {
			p := products[l.ProductID]
			price := p.Price
			if l.UnitPrice != nil {
				price = *l.UnitPrice
			}
			line, err := sale.NewLine(sl.ID, p.ID, p.Name, l.Quantity, price)
			if err != nil {
				return err
			}
			if err := p.Withdraw(line.Quantity); err != nil {
				return err
			}
			sl.Lines = append(sl.Lines, line)
		}
		sl.Total = sl.ComputeTotal()

		if err := s.sales.Create(ctx, sl); err != nil {
			return fmt.Errorf("erro ao gravar venda: %w", err)
		}
		if err := s.saveProducts(ctx, products); err != nil {
			return err
		}
		if err := s.tills.AddToTotal(ctx, open.ID, sl.Total); err != nil {
			return fmt.Errorf("erro ao atualizar total do caixa: %w", err)
		}

		created = sl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("venda registrada", "sale_id", created.ID, "number", created.Number,
		"total", created.Total.StringFixed(money.Scale), "till_id", *created.TillID)
	return created, nil
}

// lockTill bloqueia o caixa da venda, ou o caixa aberto quando a venda não tem caixa.
// Caixa antes de produtos, na mesma ordem de RegisterSale.
func (s *SaleService) lockTill(ctx context.Context, sl *sale.Sale) error {
	if sl.TillID == nil {
		if _, err := s.tills.FindOpenForUpdate(ctx); err != nil {
			return fmt.Errorf("erro ao buscar caixa aberto: %w", err)
		}
		return nil
	}
	if _, err := s.tills.FindByIDForUpdate(ctx, *sl.TillID); err != nil {
		return err
	}
	return nil
}

// reconcile recalcula o total da venda e ajusta o total dos caixas envolvidos.
// previousTotal e previousTill são os valores gravados antes da alteração.
func (s *SaleService) reconcile(ctx context.Context, sl *sale.Sale, previousTotal decimal.Decimal, previousTill *string) error {
	sl.Total = sl.ComputeTotal()

	if sl.TillID == nil {
		open, err := s.tills.FindOpenForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("erro ao buscar caixa aberto: %w", err)
		}
		if open != nil {
			sl.TillID = &open.ID
		}
	}

	switch {
	case previousTill != nil && sl.TillID != nil && *previousTill == *sl.TillID:
		if delta := sl.Total.Sub(previousTotal); !delta.IsZero() {
			if err := s.tills.AddToTotal(ctx, *sl.TillID, delta); err != nil {
				return fmt.Errorf("erro ao atualizar total do caixa: %w", err)
			}
		}
	default:
		if previousTill != nil {
			if err := s.tills.AddToTotal(ctx, *previousTill, previousTotal.Neg()); err != nil {
				return fmt.Errorf("erro ao atualizar total do caixa anterior: %w", err)
			}
		}
		if sl.TillID != nil {
			if err := s.tills.AddToTotal(ctx, *sl.TillID, sl.Total); err != nil {
				return fmt.Errorf("erro ao atualizar total do caixa: %w", err)
			}
		}
	}

	if err := s.sales.Update(ctx, sl); err != nil {
		return fmt.Errorf("erro ao atualizar venda: %w", err)
	}
	return nil
}

// AddLine adiciona um item a uma venda existente
func (s *SaleService) AddLine(ctx context.Context, saleID string, req LineRequest) (*sale.Sale, error) {
	if err := validateLineRequest(0, req); err != nil {
		return nil, err
	}

	var updated *sale.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sl, err := s.sales.FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if err := s.lockTill(ctx, sl); err != nil {
			return err
		}
		previousTotal, previousTill := sl.Total, sl.TillID

		p, err := s.products.FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		price := p.Price
		if req.UnitPrice != nil {
			price = *req.UnitPrice
		}
		line, err := sale.NewLine(sl.ID, p.ID, p.Name, req.Quantity, price)
		if err != nil {
			return err
		}
		if err := p.Withdraw(line.Quantity); err != nil {
			return err
		}
		if err := s.products.Update(ctx, p); err != nil {
			return fmt.Errorf("erro ao atualizar estoque: %w", err)
		}
		if err := s.sales.CreateLine(ctx, line); err != nil {
			return fmt.Errorf("erro ao gravar item: %w", err)
		}
		sl.Lines = append(sl.Lines, line)

		if err := s.reconcile(ctx, sl, previousTotal, previousTill); err != nil {
			return err
		}
		updated = sl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateLine altera quantidade e preço de um item, ajustando o estoque pela diferença
func (s *SaleService) UpdateLine(ctx context.Context, saleID, lineID string, in UpdateLineInput) (*sale.Sale, error) {
	if !money.Normalize(in.Quantity).IsPositive() {
		return nil, apperr.Validation("quantity", "quantidade deve ser maior que zero")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit_price", "preço unitário não pode ser negativo")
	}

	var updated *sale.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sl, err := s.sales.FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if err := s.lockTill(ctx, sl); err != nil {
			return err
		}
		previousTotal, previousTill := sl.Total, sl.TillID

		line, ok := sl.FindLine(lineID)
		if !ok {
			return apperr.NotFound("item de venda", lineID)
		}
		price := line.UnitPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		previousQty := line.Quantity
		if err := line.Set(in.Quantity, price); err != nil {
			return err
		}

		if delta := line.Quantity.Sub(previousQty); !delta.IsZero() && line.ProductID != nil {
			p, err := s.products.FindByIDForUpdate(ctx, *line.ProductID)
			if err != nil {
				return err
			}
			if err := p.Withdraw(delta); err != nil {
				return err
			}
			if err := s.products.Update(ctx, p); err != nil {
				return fmt.Errorf("erro ao atualizar estoque: %w", err)
			}
		}
		if err := s.sales.UpdateLine(ctx, line); err != nil {
			return fmt.Errorf("erro ao atualizar item: %w", err)
		}

		if err := s.reconcile(ctx, sl, previousTotal, previousTill); err != nil {
			return err
		}
		updated = sl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveLine remove um item e devolve a quantidade ao estoque
func (s *SaleService) RemoveLine(ctx context.Context, saleID, lineID string) (*sale.Sale, error) {
	var updated *sale.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sl, err := s.sales.FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if err := s.lockTill(ctx, sl); err != nil {
			return err
		}
		previousTotal, previousTill := sl.Total, sl.TillID

		line, ok := sl.FindLine(lineID)
		if !ok {
			return apperr.NotFound("item de venda", lineID)
		}
		if len(sl.Lines) == 1 {
			return apperr.Validation("lines", "a venda precisa de ao menos um item; exclua a venda")
		}

		if line.ProductID != nil {
			p, err := s.products.FindByIDForUpdate(ctx, *line.ProductID)
			if err != nil {
				return err
			}
			if err := p.Withdraw(line.Quantity.Neg()); err != nil {
				return err
			}
			if err := s.products.Update(ctx, p); err != nil {
				return fmt.Errorf("erro ao devolver estoque: %w", err)
			}
		}
		if err := s.sales.DeleteLine(ctx, line.ID); err != nil {
			return fmt.Errorf("erro ao remover item: %w", err)
		}

		lines := make([]*sale.Line, 0, len(sl.Lines)-1)
		for _, l := range sl.Lines {
			if l.ID != line.ID {
				lines = append(lines, l)
			}
		}
		sl.Lines = lines

		if err := s.reconcile(ctx, sl, previousTotal, previousTill); err != nil {
			return err
		}
		updated = sl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignTill atribui a venda a outro caixa, que precisa estar aberto
func (s *SaleService) AssignTill(ctx context.Context, saleID, tillID string) (*sale.Sale, error) {
	var updated *sale.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sl, err := s.sales.FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		target, err := s.tills.FindByIDForUpdate(ctx, tillID)
		if err != nil {
			return err
		}
		if !target.Open {
			return apperr.Conflict("caixa %s está fechado e não aceita novas vendas", target.ID)
		}

		previousTotal, previousTill := sl.Total, sl.TillID
		sl.TillID = &target.ID
		if err := s.reconcile(ctx, sl, previousTotal, previousTill); err != nil {
			return err
		}
		updated = sl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("venda reatribuída", "sale_id", updated.ID, "till_id", tillID)
	return updated, nil
}

// DeleteSale exclui a venda, devolve o estoque e desconta o total do caixa
func (s *SaleService) DeleteSale(ctx context.Context, saleID string) error {
	var deleted *sale.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sl, err := s.sales.FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if err := s.lockTill(ctx, sl); err != nil {
			return err
		}

		ids := make([]string, 0, len(sl.Lines))
		for _, l := range sl.Lines {
			if l.ProductID != nil {
				ids = append(ids, *l.ProductID)
			}
		}
		products, err := s.lockProducts(ctx, ids)
		if err != nil {
			return err
		}
		for _, l := range sl.Lines {
			if l.ProductID == nil {
				continue
			}
			if err := products[*l.ProductID].Withdraw(l.Quantity.Neg()); err != nil {
				return err
			}
		}
		if err := s.saveProducts(ctx, products); err != nil {
			return err
		}

		if sl.TillID != nil && !sl.Total.IsZero() {
			if err := s.tills.AddToTotal(ctx, *sl.TillID, sl.Total.Neg()); err != nil {
				return fmt.Errorf("erro ao atualizar total do caixa: %w", err)
			}
		}
		if err := s.sales.Delete(ctx, sl.ID); err != nil {
			return fmt.Errorf("erro ao excluir venda: %w", err)
		}
		deleted = sl
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("venda excluída", "sale_id", deleted.ID, "number", deleted.Number)
	return nil
}

// GetSale busca uma venda com seus itens
func (s *SaleService) GetSale(ctx context.Context, id string) (*sale.Sale, error) {
	return s.sales.FindByID(ctx, id)
}

// ListSales lista vendas, mais recentes primeiro
func (s *SaleService) ListSales(ctx context.Context, f sale.Filter) ([]*sale.Sale, error) {
	if f.TillID != "" {
		if _, err := uuid.Parse(f.TillID); err != nil {
			return nil, apperr.Validation("till_id", "identificador de caixa inválido")
		}
	}
	return s.sales.List(ctx, f)
}
