package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/controllers"
	"github.com/slicelab/pizzeria-api/middlewares"
)

func PizzaRoutes(server *gin.Engine) {
	pizza := server.Group("/pizza")
	{
		pizza.GET("/bases", controllers.GetBases)
		pizza.GET("/sauces", controllers.GetSauces)
		pizza.GET("/cheeses", controllers.GetCheeses)
		pizza.GET("/toppings", controllers.GetToppings)

		pizza.POST("/order", middlewares.RequireAuth(), controllers.CreateOrder)
		pizza.POST("/verify-payment", middlewares.RequireAuth(), controllers.VerifyPayment)
		pizza.GET("/orders", middlewares.RequireAuth(), controllers.GetMyOrders)
		pizza.GET("/order/:orderId", middlewares.RequireAuth(), controllers.GetMyOrder)
	}
}
