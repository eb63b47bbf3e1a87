package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/controllers"
	"github.com/slicelab/pizzeria-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		orders.GET("/admin", controllers.GetAllOrders)
		orders.GET("/admin/statistics", controllers.GetOrderStatistics)
		orders.GET("/admin/status/:status", controllers.GetOrdersByStatus)
		orders.GET("/admin/date-range", controllers.GetOrdersByDateRange)
		orders.GET("/:orderId", controllers.GetOrder)
		orders.PUT("/:orderId/status", controllers.UpdateOrderStatus)
		orders.PUT("/:orderId/cancel", controllers.CancelOrder)
	}
}
