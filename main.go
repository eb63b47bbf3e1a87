package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/controllers"
	"github.com/slicelab/pizzeria-api/initializers"
	"github.com/slicelab/pizzeria-api/routes"
	"github.com/slicelab/pizzeria-api/services"
)

func init() {
	initializers.LoadEnv()
	initializers.ConnectToDB()
	initializers.SyncDatabase()
}

func main() {
	notifier := services.NewNotifier()
	gateway := services.NewPaymentGateway()
	inventory := services.NewInventoryService(initializers.DB, notifier)
	orders := services.NewOrderService(initializers.DB, inventory, gateway, notifier)
	controllers.Init(orders, inventory, notifier)

	// Hourly low-stock sweep, independent of request handling.
	stopAuditor := services.StartStockAuditor(inventory, time.Hour)
	defer stopAuditor()

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.DefaultRoutes(server)
	routes.AuthRoutes(server)
	routes.PizzaRoutes(server)
	routes.OrderRoutes(server)
	routes.InventoryRoutes(server)
	server.Run()
}
