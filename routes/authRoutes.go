package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/controllers"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-email/:token", controllers.VerifyEmail)
		auth.POST("/forgot-password", controllers.SendPasswordResetLink)
		auth.POST("/reset-password/:token", controllers.ResetPassword)
	}
}
