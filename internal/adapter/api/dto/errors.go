package dto

import (
	"errors"
	"net/http"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
)

// FromError converte um erro de negócio no status HTTP e na resposta correspondentes.
// Erros desconhecidos viram 500 sem expor detalhes internos.
func FromError(err error) (int, ErrorResponse) {
	var stockErr *apperr.InsufficientStockError
	if errors.As(err, &stockErr) {
		resp := NewErrorResponse(http.StatusUnprocessableEntity, "Estoque insuficiente", err.Error())
		resp.ProductID = stockErr.ProductID
		resp.Available = Amount(stockErr.Available)
		return http.StatusUnprocessableEntity, resp
	}

	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, NewErrorResponse(http.StatusNotFound, "Registro não encontrado", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, NewErrorResponse(http.StatusConflict, "Conflito", err.Error())
	}
	return http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "Erro interno do servidor", "")
}
