package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
}
