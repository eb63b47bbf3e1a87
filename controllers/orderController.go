package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/initializers"
	"github.com/slicelab/pizzeria-api/models"
	"gorm.io/gorm"
)

// GetAllOrders lists every order for the admin console
func GetAllOrders(ctx *gin.Context) {
	orders, err := orderService.ListAll()
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

// GetOrdersByStatus filters orders on a single status value
func GetOrdersByStatus(ctx *gin.Context) {
	status, ok := models.ParseOrderStatus(ctx.Param("status"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid status")
		return
	}

	orders, err := orderService.ListByStatus(status)
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

// GetOrdersByDateRange lists orders created between startDate and endDate
// (RFC 3339 or YYYY-MM-DD query parameters).
func GetOrdersByDateRange(ctx *gin.Context) {
	from, err := parseDateParam(ctx.Query("startDate"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid startDate")
		return
	}
	to, err := parseDateParam(ctx.Query("endDate"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid endDate")
		return
	}

	orders, err := orderService.ListByDateRange(from, to)
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// GetOrder returns a single order by id (admin)
func GetOrder(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var order models.Order
	result := initializers.DB.Preload("Items").First(&order, orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order.")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus advances an order along the fulfilment flow
func UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	status, ok := models.ParseOrderStatus(orderStatusData.Status)
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid status")
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	order, err := orderService.UpdateStatus(uint(orderID), status)
	if err != nil {
		handleServiceError(ctx, err, "Failed to update order status")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels a non-delivered order and restores its components
func CancelOrder(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	order, err := orderService.Cancel(uint(orderID))
	if err != nil {
		handleServiceError(ctx, err, "Failed to cancel order")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// GetOrderStatistics aggregates counts per status and total revenue
func GetOrderStatistics(ctx *gin.Context) {
	stats, err := orderService.Statistics()
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch order statistics")
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
