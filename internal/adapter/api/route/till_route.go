package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
)

// RegisterTillRoutes registra as rotas de caixa
func RegisterTillRoutes(r *gin.RouterGroup, tillController *controller.TillController) {
	tills := r.Group("/tills")
	{
		tills.POST("", tillController.Open)
		tills.GET("", tillController.List)
		tills.GET("/current", tillController.Current)
		tills.GET("/:id", tillController.Get)
		tills.POST("/:id/close", tillController.Close)
		tills.POST("/close-period/:period/:value", auth.RoleAuthMiddleware(string(user.RoleAdmin)), tillController.ClosePeriod)
	}
}
