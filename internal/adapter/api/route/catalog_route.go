package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
)

// RegisterCatalogRoutes registra as rotas de categorias, produtos e planilhas.
// Leitura é livre para operadores; escrita exige administrador.
func RegisterCatalogRoutes(r *gin.RouterGroup, catalogController *controller.CatalogController) {
	adminOnly := auth.RoleAuthMiddleware(string(user.RoleAdmin))

	categories := r.Group("/categories")
	{
		categories.GET("", catalogController.ListCategories)
		categories.POST("", adminOnly, catalogController.CreateCategory)
		categories.DELETE("/:id", adminOnly, catalogController.DeleteCategory)
	}

	products := r.Group("/products")
	{
		products.GET("", catalogController.ListProducts)
		products.GET("/:id", catalogController.GetProduct)
		products.POST("", adminOnly, catalogController.CreateProduct)
		products.PUT("/:id", adminOnly, catalogController.UpdateProduct)
		products.DELETE("/:id", adminOnly, catalogController.DeleteProduct)
	}

	transfer := r.Group("/catalog")
	{
		transfer.GET("/export", catalogController.ExportCatalog)
		transfer.POST("/import", adminOnly, catalogController.ImportCatalog)
	}
}
