package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Classes de erro de negócio. Use errors.Is para testar a classe
// e errors.As para obter os dados estruturados.
var (
	ErrValidation        = errors.New("dados inválidos")
	ErrNotFound          = errors.New("registro não encontrado")
	ErrConflict          = errors.New("conflito de estado")
	ErrInsufficientStock = errors.New("estoque insuficiente")
)

// ValidationError indica campos obrigatórios ausentes ou valores fora das regras
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError indica uma entidade inexistente
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s não encontrado(a)", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError indica uma operação incompatível com o estado atual
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// InsufficientStockError indica que a quantidade pedida excede o estoque disponível
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("estoque insuficiente para %s: solicitado %s, disponível %s",
		e.ProductName, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Validation cria um ValidationError
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound cria um NotFoundError
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Conflict cria um ConflictError
func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
