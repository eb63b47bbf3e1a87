package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Pizzeria API 🍕. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account
- POST "/auth/verify-email/:token" - Verify user email
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:token" - Reset user password

PIZZA
- GET "/pizza/bases" - List available pizza bases
- GET "/pizza/sauces" - List available sauces
- GET "/pizza/cheeses" - List available cheeses
- GET "/pizza/toppings" - List available toppings
- POST "/pizza/order" - Create a new pizza order
- POST "/pizza/verify-payment" - Confirm payment for an order
- GET "/pizza/orders" - List your orders
- GET "/pizza/order/:orderId" - Get one of your orders

ORDERS (admin)
- GET "/orders/admin" - List all orders
- GET "/orders/admin/statistics" - Order statistics
- GET "/orders/admin/status/:status" - Orders by status
- GET "/orders/admin/date-range" - Orders by date range
- GET "/orders/:orderId" - Get order by ID
- PUT "/orders/:orderId/status" - Update order status
- PUT "/orders/:orderId/cancel" - Cancel an order

INVENTORY (admin)
- GET "/inventory" - All four catalogs
- POST "/inventory/:type" - Add inventory item
- PUT "/inventory/:type/:id" - Update stock and threshold
- DELETE "/inventory/:type/:id" - Delete inventory item`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
