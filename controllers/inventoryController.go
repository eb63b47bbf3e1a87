package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/slicelab/pizzeria-api/initializers"
	"github.com/slicelab/pizzeria-api/models"
	"gorm.io/gorm"
)

// GetInventory returns the whole catalog grouped by category, including
// unavailable and out-of-stock items.
func GetInventory(ctx *gin.Context) {
	var items []models.CatalogItem
	if result := initializers.DB.Order("category, name").Find(&items); result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch inventory")
		return
	}

	grouped := gin.H{
		"bases":    []models.CatalogItem{},
		"sauces":   []models.CatalogItem{},
		"cheeses":  []models.CatalogItem{},
		"toppings": []models.CatalogItem{},
	}
	keys := map[models.Category]string{
		models.CategoryBase:    "bases",
		models.CategorySauce:   "sauces",
		models.CategoryCheese:  "cheeses",
		models.CategoryTopping: "toppings",
	}
	for _, item := range items {
		key := keys[item.Category]
		grouped[key] = append(grouped[key].([]models.CatalogItem), item)
	}

	sendJSONResponse(ctx, http.StatusOK, grouped)
}

// CreateInventoryItem adds a new catalog item under the :type category
func CreateInventoryItem(ctx *gin.Context) {
	category, err := models.ParseCategory(ctx.Param("type"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var itemData struct {
		Name      string  `json:"name" binding:"required"`
		Price     float64 `json:"price" binding:"min=0"`
		Quantity  int     `json:"quantity" binding:"min=0"`
		Threshold int     `json:"threshold" binding:"min=0"`
	}
	if err := ctx.ShouldBindJSON(&itemData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	item := models.CatalogItem{
		Category:  category,
		Name:      itemData.Name,
		Price:     itemData.Price,
		Quantity:  itemData.Quantity,
		Threshold: itemData.Threshold,
		Available: true,
	}
	if result := initializers.DB.Create(&item); result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create inventory item")
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

// UpdateInventoryItem sets quantity and threshold on an existing item and
// raises a low-stock alert when the new level sits at or below threshold.
func UpdateInventoryItem(ctx *gin.Context) {
	category, err := models.ParseCategory(ctx.Param("type"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse item id")
		return
	}

	var stockData struct {
		Quantity  *int `json:"quantity" binding:"required"`
		Threshold *int `json:"threshold" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&stockData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if *stockData.Quantity < 0 || *stockData.Threshold < 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "quantity and threshold must not be negative")
		return
	}

	item, err := inventoryService.Adjust(category, uint(itemID), *stockData.Quantity, *stockData.Threshold)
	if err != nil {
		handleServiceError(ctx, err, "Failed to update inventory item")
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// DeleteInventoryItem removes a catalog item
func DeleteInventoryItem(ctx *gin.Context) {
	category, err := models.ParseCategory(ctx.Param("type"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse item id")
		return
	}

	var item models.CatalogItem
	result := initializers.DB.Where("category = ?", category).First(&item, itemID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Item not found")
		} else {
			log.Println("Database error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch item")
		}
		return
	}

	if result := initializers.DB.Delete(&item); result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete inventory item")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
