package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ceramica/internal/service"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
)

// CustomerController gerencia as requisições relacionadas a clientes
type CustomerController struct {
	customerService *service.CustomerService
	logger          logger.Logger
}

// NewCustomerController cria uma nova instância de CustomerController
func NewCustomerController(customerService *service.CustomerService, logger logger.Logger) *CustomerController {
	return &CustomerController{
		customerService: customerService,
		logger:          logger,
	}
}

// List lista clientes
// @Summary Listar clientes
// @Description Lista clientes em ordem alfabética, com busca parcial pelo nome
// @Tags customers
// @Produce json
// @Security Bearer
// @Param q query string false "Trecho do nome"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.ListResponse[dto.CustomerResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /customers [get]
func (c *CustomerController) List(ctx *gin.Context) {
	p := pagination(ctx)
	customers, err := c.customerService.ListCustomers(ctx, ctx.Query("q"), p.PageSize, p.Offset())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	data := make([]dto.CustomerResponse, len(customers))
	for i, cu := range customers {
		data[i] = dto.ToCustomerResponse(cu)
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(data, p))
}

// Get retorna um cliente pelo ID
// @Summary Buscar cliente
// @Tags customers
// @Produce json
// @Security Bearer
// @Param id path string true "ID do cliente"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/{id} [get]
func (c *CustomerController) Get(ctx *gin.Context) {
	cu, err := c.customerService.GetCustomer(ctx, ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToCustomerResponse(cu))
}
