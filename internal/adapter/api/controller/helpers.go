package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
)

// respondError escreve a resposta de erro correspondente à classe do erro
func respondError(ctx *gin.Context, log logger.Logger, err error) {
	status, resp := dto.FromError(err)
	if status >= http.StatusInternalServerError {
		log.Error("erro ao processar requisição", "method", ctx.Request.Method, "path", ctx.FullPath(), "error", err)
	}
	ctx.JSON(status, resp)
}

// badRequest responde 400 para payloads que não puderam ser lidos
func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
}

// pagination lê page e page_size da query string
func pagination(ctx *gin.Context) dto.PaginationParams {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	return dto.GetPagination(page, pageSize)
}
