package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/hugohenrick/erp-ceramica/internal/service"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
)

// SaleController gerencia o registro e a edição de vendas
type SaleController struct {
	saleService *service.SaleService
	logger      logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(saleService *service.SaleService, logger logger.Logger) *SaleController {
	return &SaleController{
		saleService: saleService,
		logger:      logger,
	}
}

func toLineRequest(l dto.SaleLineRequest) service.LineRequest {
	return service.LineRequest{
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
	}
}

// Register registra uma venda no caixa aberto
// @Summary Registrar venda
// @Description Valida todos os itens, baixa o estoque e soma o total ao caixa aberto
// @Tags sales
// @Accept json
// @Produce json
// @Security Bearer
// @Param sale body dto.SaleRequest true "Dados da venda"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Register(ctx *gin.Context) {
	var req dto.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	in := service.RegisterSaleInput{
		CustomerName: req.CustomerName,
		DocumentType: sale.DocumentType(req.DocumentType),
		Lines:        make([]service.LineRequest, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, toLineRequest(l))
	}

	s, err := c.saleService.RegisterSale(ctx, in)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToSaleResponse(s))
}

// List lista vendas
// @Summary Listar vendas
// @Tags sales
// @Produce json
// @Security Bearer
// @Param till_id query string false "ID do caixa"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.ListResponse[dto.SaleResponse]
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	p := pagination(ctx)
	sales, err := c.saleService.ListSales(ctx, sale.Filter{
		TillID: ctx.Query("till_id"),
		Limit:  p.PageSize,
		Offset: p.Offset(),
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(dto.ToSaleResponses(sales), p))
}

// Get retorna uma venda com seus itens
// @Summary Buscar venda
// @Tags sales
// @Produce json
// @Security Bearer
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) Get(ctx *gin.Context) {
	s, err := c.saleService.GetSale(ctx, ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// Delete exclui uma venda devolvendo o estoque
// @Summary Excluir venda
// @Tags sales
// @Security Bearer
// @Param id path string true "ID da venda"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id} [delete]
func (c *SaleController) Delete(ctx *gin.Context) {
	if err := c.saleService.DeleteSale(ctx, ctx.Param("id")); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddLine adiciona um item a uma venda
// @Summary Adicionar item
// @Tags sales
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da venda"
// @Param line body dto.SaleLineRequest true "Item"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sales/{id}/lines [post]
func (c *SaleController) AddLine(ctx *gin.Context) {
	var req dto.SaleLineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	s, err := c.saleService.AddLine(ctx, ctx.Param("id"), toLineRequest(req))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// UpdateLine altera quantidade ou preço de um item
// @Summary Alterar item
// @Tags sales
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da venda"
// @Param lineId path string true "ID do item"
// @Param line body dto.UpdateSaleLineRequest true "Novos valores"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sales/{id}/lines/{lineId} [put]
func (c *SaleController) UpdateLine(ctx *gin.Context) {
	var req dto.UpdateSaleLineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	s, err := c.saleService.UpdateLine(ctx, ctx.Param("id"), ctx.Param("lineId"), service.UpdateLineInput{
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// RemoveLine remove um item da venda
// @Summary Remover item
// @Tags sales
// @Produce json
// @Security Bearer
// @Param id path string true "ID da venda"
// @Param lineId path string true "ID do item"
// @Success 200 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id}/lines/{lineId} [delete]
func (c *SaleController) RemoveLine(ctx *gin.Context) {
	s, err := c.saleService.RemoveLine(ctx, ctx.Param("id"), ctx.Param("lineId"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// AssignTill move a venda para outro caixa
// @Summary Trocar caixa da venda
// @Tags sales
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da venda"
// @Param till body dto.AssignTillRequest true "Caixa de destino"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sales/{id}/till [put]
func (c *SaleController) AssignTill(ctx *gin.Context) {
	var req dto.AssignTillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	s, err := c.saleService.AssignTill(ctx, ctx.Param("id"), req.TillID)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// Receipt retorna a nota de venda
// @Summary Nota de venda
// @Tags sales
// @Produce json
// @Security Bearer
// @Param id path string true "ID da venda"
// @Success 200 {object} service.Receipt
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id}/receipt [get]
func (c *SaleController) Receipt(ctx *gin.Context) {
	r, err := c.saleService.Receipt(ctx, ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, r)
}
