package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
)

// RegisterSaleRoutes registra as rotas de vendas
func RegisterSaleRoutes(r *gin.RouterGroup, saleController *controller.SaleController) {
	sales := r.Group("/sales")
	{
		sales.POST("", saleController.Register)
		sales.GET("", saleController.List)
		sales.GET("/:id", saleController.Get)
		sales.DELETE("/:id", auth.RoleAuthMiddleware(string(user.RoleAdmin)), saleController.Delete)
		sales.POST("/:id/lines", saleController.AddLine)
		sales.PUT("/:id/lines/:lineId", saleController.UpdateLine)
		sales.DELETE("/:id/lines/:lineId", saleController.RemoveLine)
		sales.PUT("/:id/till", saleController.AssignTill)
		sales.GET("/:id/receipt", saleController.Receipt)
	}
}
