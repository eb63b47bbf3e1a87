package initializers

import (
	"log"

	"github.com/slicelab/pizzeria-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(&models.User{}, &models.CatalogItem{}, &models.Order{}, &models.OrderItem{})
	log.Println("Database synced successfully.")
}
