package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/initializers"
	"github.com/slicelab/pizzeria-api/models"
	"github.com/slicelab/pizzeria-api/services"
)

func listAvailable(ctx *gin.Context, category models.Category) {
	var items []models.CatalogItem
	result := initializers.DB.
		Where("category = ? AND available = ?", category, true).
		Find(&items)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch catalog items")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"items": items})
}

func GetBases(ctx *gin.Context)    { listAvailable(ctx, models.CategoryBase) }
func GetSauces(ctx *gin.Context)   { listAvailable(ctx, models.CategorySauce) }
func GetCheeses(ctx *gin.Context)  { listAvailable(ctx, models.CategoryCheese) }
func GetToppings(ctx *gin.Context) { listAvailable(ctx, models.CategoryTopping) }

// CreateOrder builds a pizza order from the selected components and opens a
// payment-gateway order for it.
func CreateOrder(ctx *gin.Context) {
	var orderInfo struct {
		Base        uint    `json:"base" binding:"required"`
		Sauce       uint    `json:"sauce" binding:"required"`
		Cheese      uint    `json:"cheese" binding:"required"`
		Toppings    []uint  `json:"toppings"`
		TotalAmount float64 `json:"totalAmount"`
	}
	if err := ctx.ShouldBindJSON(&orderInfo); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := ctx.GetInt("userID")
	order, gatewayOrder, err := orderService.Create(userID, services.CreateOrderInput{
		BaseID:      orderInfo.Base,
		SauceID:     orderInfo.Sauce,
		CheeseID:    orderInfo.Cheese,
		ToppingIDs:  orderInfo.Toppings,
		ClientTotal: orderInfo.TotalAmount,
	})
	if err != nil {
		handleServiceError(ctx, err, "Error creating order")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orderId":        order.ID,
		"gatewayOrderId": gatewayOrder.ID,
		"amount":         gatewayOrder.Amount,
		"currency":       gatewayOrder.Currency,
	})
}

// VerifyPayment confirms an order once the gateway callback signature checks
// out.
func VerifyPayment(ctx *gin.Context) {
	var paymentInfo struct {
		GatewayOrderID string `json:"gatewayOrderId" binding:"required"`
		PaymentID      string `json:"paymentId" binding:"required"`
		Signature      string `json:"signature" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&paymentInfo); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := orderService.ConfirmPayment(paymentInfo.GatewayOrderID, paymentInfo.PaymentID, paymentInfo.Signature); err != nil {
		handleServiceError(ctx, err, "Error verifying payment")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Payment verified and order confirmed"})
}

// GetMyOrders lists the caller's orders, newest first
func GetMyOrders(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	orders, err := orderService.ListByUser(userID)
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

// GetMyOrder returns a single order scoped to the caller
func GetMyOrder(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	userID := ctx.GetInt("userID")
	order, err := orderService.GetForUser(uint(orderID), userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to fetch order.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}
