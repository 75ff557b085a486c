package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/hugohenrick/erp-ceramica/internal/domain/transaction"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
	"github.com/hugohenrick/erp-ceramica/pkg/money"
	"github.com/shopspring/decimal"
)

// TillService controla a abertura e o fechamento dos caixas
type TillService struct {
	tills    till.Repository
	tx       transaction.Manager
	location *time.Location
	logger   logger.Logger
}

// NewTillService cria o serviço de caixas.
// location é o fuso usado para agrupar caixas no fechamento por período.
func NewTillService(tills till.Repository, tx transaction.Manager, location *time.Location, log logger.Logger) *TillService {
	if location == nil {
		location = time.UTC
	}
	return &TillService{tills: tills, tx: tx, location: location, logger: log}
}

// OpenTill abre um novo caixa. Só pode existir um caixa aberto por vez.
func (s *TillService) OpenTill(ctx context.Context, operator string, openingFloat decimal.Decimal) (*till.Till, error) {
	t, err := till.NewTill(operator, openingFloat)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tills.LockOpening(ctx); err != nil {
			return err
		}
		open, err := s.tills.FindOpenForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("erro ao buscar caixa aberto: %w", err)
		}
		if open != nil {
			return apperr.Conflict("já existe um caixa aberto (%s)", open.ID)
		}
		return s.tills.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("caixa aberto", "till_id", t.ID, "operator", t.Operator, "opening_float", t.OpeningFloat.StringFixed(money.Scale))
	return t, nil
}

// CloseTill fecha o caixa informado registrando o valor de fechamento
func (s *TillService) CloseTill(ctx context.Context, tillID string, closingFloat decimal.Decimal) (*till.Till, error) {
	var closed *till.Till
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		t, err := s.tills.FindByIDForUpdate(ctx, tillID)
		if err != nil {
			return err
		}
		if err := t.Close(closingFloat, time.Now()); err != nil {
			return err
		}
		if err := s.tills.Update(ctx, t); err != nil {
			return err
		}
		closed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("caixa fechado", "till_id", closed.ID, "total", closed.Total.StringFixed(money.Scale),
		"difference", closed.Difference().StringFixed(money.Scale))
	return closed, nil
}

// ClosePeriod fecha todos os caixas abertos cuja abertura cai no período.
// Cada caixa é fechado com o valor esperado: fundo inicial mais vendas.
func (s *TillService) ClosePeriod(ctx context.Context, kind, value string) ([]*till.Till, error) {
	period, err := till.ParsePeriod(kind, value, s.location)
	if err != nil {
		return nil, err
	}

	var closed []*till.Till
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		candidates, err := s.tills.ListOpenBetween(ctx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("erro ao listar caixas do período: %w", err)
		}
		now := time.Now()
		for _, c := range candidates {
			t, err := s.tills.FindByIDForUpdate(ctx, c.ID)
			if err != nil {
				return err
			}
			if !t.Open {
				continue
			}
			if err := t.Close(t.ExpectedCash(), now); err != nil {
				return err
			}
			if err := s.tills.Update(ctx, t); err != nil {
				return err
			}
			closed = append(closed, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fechamento por período", "period", string(period.Kind), "value", period.Value, "closed", len(closed))
	if closed == nil {
		closed = []*till.Till{}
	}
	return closed, nil
}

// CurrentOpenTill retorna o caixa aberto ou nil
func (s *TillService) CurrentOpenTill(ctx context.Context) (*till.Till, error) {
	t, err := s.tills.FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar caixa aberto: %w", err)
	}
	return t, nil
}

// GetTill busca um caixa pelo ID
func (s *TillService) GetTill(ctx context.Context, id string) (*till.Till, error) {
	return s.tills.FindByID(ctx, id)
}

// ListTills lista o histórico de caixas, mais recentes primeiro
func (s *TillService) ListTills(ctx context.Context, limit, offset int) ([]*till.Till, error) {
	return s.tills.List(ctx, limit, offset)
}
