package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ceramica/internal/service"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
)

// TillController gerencia abertura, fechamento e consulta de caixas
type TillController struct {
	tillService *service.TillService
	logger      logger.Logger
}

// NewTillController cria uma nova instância de TillController
func NewTillController(tillService *service.TillService, logger logger.Logger) *TillController {
	return &TillController{
		tillService: tillService,
		logger:      logger,
	}
}

// Open abre um novo caixa
// @Summary Abrir caixa
// @Description Abre um caixa com o fundo inicial informado. Só pode haver um caixa aberto.
// @Tags tills
// @Accept json
// @Produce json
// @Security Bearer
// @Param till body dto.OpenTillRequest true "Dados de abertura"
// @Success 201 {object} dto.TillResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tills [post]
func (c *TillController) Open(ctx *gin.Context) {
	var req dto.OpenTillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	operator := req.Operator
	if operator == "" {
		operator = auth.GetCurrentUser(ctx).Name
	}

	t, err := c.tillService.OpenTill(ctx, operator, req.OpeningFloat)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToTillResponse(t))
}

// Close fecha um caixa
// @Summary Fechar caixa
// @Tags tills
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do caixa"
// @Param till body dto.CloseTillRequest true "Valor contado na gaveta"
// @Success 200 {object} dto.TillResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tills/{id}/close [post]
func (c *TillController) Close(ctx *gin.Context) {
	var req dto.CloseTillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	t, err := c.tillService.CloseTill(ctx, ctx.Param("id"), req.ClosingFloat)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTillResponse(t))
}

// ClosePeriod fecha os caixas abertos em um dia, semana ou mês
// @Summary Fechar caixas por período
// @Description period: day (2024-03-15), week (2024-W11) ou month (2024-03)
// @Tags tills
// @Produce json
// @Security Bearer
// @Param period path string true "day, week ou month"
// @Param value path string true "Valor do período"
// @Success 200 {array} dto.TillResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /tills/close-period/{period}/{value} [post]
func (c *TillController) ClosePeriod(ctx *gin.Context) {
	closed, err := c.tillService.ClosePeriod(ctx, ctx.Param("period"), ctx.Param("value"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTillResponses(closed))
}

// Current retorna o caixa aberto
// @Summary Caixa aberto
// @Tags tills
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.TillResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tills/current [get]
func (c *TillController) Current(ctx *gin.Context) {
	t, err := c.tillService.CurrentOpenTill(ctx)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	if t == nil {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Nenhum caixa aberto", ""))
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTillResponse(t))
}

// Get retorna um caixa pelo ID
// @Summary Buscar caixa
// @Tags tills
// @Produce json
// @Security Bearer
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.TillResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tills/{id} [get]
func (c *TillController) Get(ctx *gin.Context) {
	t, err := c.tillService.GetTill(ctx, ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTillResponse(t))
}

// List lista o histórico de caixas
// @Summary Listar caixas
// @Tags tills
// @Produce json
// @Security Bearer
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.ListResponse[dto.TillResponse]
// @Router /tills [get]
func (c *TillController) List(ctx *gin.Context) {
	p := pagination(ctx)
	tills, err := c.tillService.ListTills(ctx, p.PageSize, p.Offset())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(dto.ToTillResponses(tills), p))
}
