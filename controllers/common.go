package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/services"
)

var (
	orderService     services.OrderService
	inventoryService services.InventoryService
	notifier         *services.Notifier
)

// Init wires the service layer into the handler package. Called once from
// main after the database connection is up.
func Init(orders services.OrderService, inventory services.InventoryService, mail *services.Notifier) {
	orderService = orders
	inventoryService = inventory
	notifier = mail
}

// handleServiceError maps service errors onto HTTP statuses.
func handleServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUnavailable),
		errors.Is(err, services.ErrTotalMismatch),
		errors.Is(err, services.ErrInvalidSignature):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidTransition):
		sendErrorResponse(ctx, http.StatusConflict, err.Error())
	default:
		log.Println("Unhandled service error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, fallback)
	}
}
