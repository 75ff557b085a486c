package controller

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/spreadsheet"
	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/internal/service"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
)

// Tamanho máximo aceito para a planilha importada
const maxImportSize = 10 << 20

// CatalogController gerencia categorias, produtos e a troca de planilhas
type CatalogController struct {
	catalogService *service.CatalogService
	logger         logger.Logger
}

// NewCatalogController cria uma nova instância de CatalogController
func NewCatalogController(catalogService *service.CatalogService, logger logger.Logger) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		logger:         logger,
	}
}

// CreateCategory cria uma categoria
// @Summary Criar categoria
// @Tags categories
// @Accept json
// @Produce json
// @Security Bearer
// @Param category body dto.CategoryRequest true "Dados da categoria"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /categories [post]
func (c *CatalogController) CreateCategory(ctx *gin.Context) {
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	category, err := c.catalogService.CreateCategory(ctx, req.Name)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// ListCategories lista as categorias
// @Summary Listar categorias
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.catalogService.ListCategories(ctx)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	data := make([]dto.CategoryResponse, len(categories))
	for i, cat := range categories {
		data[i] = dto.ToCategoryResponse(cat)
	}
	ctx.JSON(http.StatusOK, data)
}

// DeleteCategory remove uma categoria sem produtos
// @Summary Excluir categoria
// @Tags categories
// @Security Bearer
// @Param id path string true "ID da categoria"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /categories/{id} [delete]
func (c *CatalogController) DeleteCategory(ctx *gin.Context) {
	if err := c.catalogService.DeleteCategory(ctx, ctx.Param("id")); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func toProductRequest(req dto.ProductRequest) (service.ProductRequest, error) {
	out := service.ProductRequest{
		Name:         req.Name,
		Brand:        req.Brand,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		Stock:        req.Stock,
		Price:        req.Price,
		Sold:         req.Sold,
		Supplier:     req.Supplier,
	}
	if req.Unit != "" {
		unit, ok := catalog.ParseUnit(req.Unit)
		if !ok {
			return out, apperr.Validation("unit", fmt.Sprintf("unidade %q inválida", req.Unit))
		}
		out.Unit = unit
	}
	return out, nil
}

// CreateProduct cria um produto
// @Summary Criar produto
// @Tags products
// @Accept json
// @Produce json
// @Security Bearer
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products [post]
func (c *CatalogController) CreateProduct(ctx *gin.Context) {
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	in, err := toProductRequest(req)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	p, err := c.catalogService.CreateProduct(ctx, in)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToProductResponse(p))
}

// ListProducts lista produtos
// @Summary Listar produtos
// @Description Lista produtos por nome, com busca parcial por nome ou marca
// @Tags products
// @Produce json
// @Security Bearer
// @Param q query string false "Trecho do nome ou da marca"
// @Param category_id query string false "ID da categoria"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.ListResponse[dto.ProductResponse]
// @Router /products [get]
func (c *CatalogController) ListProducts(ctx *gin.Context) {
	p := pagination(ctx)
	products, err := c.catalogService.ListProducts(ctx, catalog.ProductFilter{
		Query:      ctx.Query("q"),
		CategoryID: ctx.Query("category_id"),
		Limit:      p.PageSize,
		Offset:     p.Offset(),
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(dto.ToProductResponses(products), p))
}

// GetProduct retorna um produto pelo ID
// @Summary Buscar produto
// @Tags products
// @Produce json
// @Security Bearer
// @Param id path string true "ID do produto"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (c *CatalogController) GetProduct(ctx *gin.Context) {
	p, err := c.catalogService.GetProduct(ctx, ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// UpdateProduct atualiza um produto
// @Summary Atualizar produto
// @Tags products
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do produto"
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [put]
func (c *CatalogController) UpdateProduct(ctx *gin.Context) {
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	in, err := toProductRequest(req)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	p, err := c.catalogService.UpdateProduct(ctx, ctx.Param("id"), in)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// DeleteProduct remove um produto. As vendas mantêm o nome do item.
// @Summary Excluir produto
// @Tags products
// @Security Bearer
// @Param id path string true "ID do produto"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [delete]
func (c *CatalogController) DeleteProduct(ctx *gin.Context) {
	if err := c.catalogService.DeleteProduct(ctx, ctx.Param("id")); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// readUpload lê a planilha do campo multipart "file" ou do corpo da requisição
func readUpload(ctx *gin.Context) (io.Reader, error) {
	if fh, err := ctx.FormFile("file"); err == nil {
		if fh.Size > maxImportSize {
			return nil, apperr.Validation("file", "arquivo excede o tamanho máximo")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("erro ao abrir arquivo enviado: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler arquivo enviado: %w", err)
		}
		return bytes.NewReader(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxImportSize+1))
	if err != nil {
		return nil, fmt.Errorf("erro ao ler corpo da requisição: %w", err)
	}
	if len(data) > maxImportSize {
		return nil, apperr.Validation("file", "arquivo excede o tamanho máximo")
	}
	return bytes.NewReader(data), nil
}

// ImportCatalog substitui o catálogo pelo conteúdo de uma planilha CSV
// @Summary Importar catálogo
// @Description Apaga todos os produtos e recria o catálogo a partir de uma planilha CSV
// @Tags catalog
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "Planilha CSV"
// @Param default_category query string false "Categoria para linhas sem categoria"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /catalog/import [post]
func (c *CatalogController) ImportCatalog(ctx *gin.Context) {
	r, err := readUpload(ctx)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	rows, err := spreadsheet.Decode(r)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	created, err := c.catalogService.ReplaceCatalog(ctx, rows, ctx.Query("default_category"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ImportResponse{Created: created})
}

// ExportCatalog baixa o catálogo como planilha CSV
// @Summary Exportar catálogo
// @Tags catalog
// @Produce text/csv
// @Security Bearer
// @Success 200 {file} file
// @Router /catalog/export [get]
func (c *CatalogController) ExportCatalog(ctx *gin.Context) {
	rows, err := c.catalogService.ExportCatalog(ctx)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.Encode(&buf, rows); err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	filename := fmt.Sprintf("catalogo-%s.csv", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
