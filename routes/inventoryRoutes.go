package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/controllers"
	"github.com/slicelab/pizzeria-api/middlewares"
)

func InventoryRoutes(server *gin.Engine) {
	inventory := server.Group("/inventory", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		inventory.GET("", controllers.GetInventory)
		inventory.POST("/:type", controllers.CreateInventoryItem)
		inventory.PUT("/:type/:id", controllers.UpdateInventoryItem)
		inventory.DELETE("/:type/:id", controllers.DeleteInventoryItem)
	}
}
