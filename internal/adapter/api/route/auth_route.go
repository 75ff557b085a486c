package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController, jwtService *auth.JWTService) {
	authRouter := router.Group("/auth")
	{
		// Rota de login (não requer autenticação)
		authRouter.POST("/login", authController.Login)

		// Aceita tokens expirados, por isso fica fora do middleware
		authRouter.POST("/refresh", authController.RefreshToken)

		authRouter.GET("/me", auth.JWTAuthMiddleware(jwtService), authController.Me)
	}
}

// SetupUserRoutes configura o cadastro de operadores, restrito a administradores
func SetupUserRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	users := router.Group("/users")
	users.Use(auth.RoleAuthMiddleware(string(user.RoleAdmin)))
	{
		users.POST("", authController.CreateUser)
	}
}
