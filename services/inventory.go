package services

import (
	"errors"

	"github.com/slicelab/pizzeria-api/models"
	"gorm.io/gorm"
)

type InventoryService interface {
	DecrementForOrder(order *models.Order) error
	RestoreForOrder(order *models.Order) error
	Adjust(category models.Category, id uint, quantity, threshold int) (*models.CatalogItem, error)
	AuditAll() error
}

type inventoryService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewInventoryService(db *gorm.DB, notifier *Notifier) InventoryService {
	return &inventoryService{db: db, notifier: notifier}
}

// DecrementForOrder takes one unit of every component the order consumes.
// Each decrement is conditional on quantity > 0, so concurrent confirmations
// can never drive stock negative; if any component is exhausted the whole
// transaction rolls back and nothing is decremented.
func (s *inventoryService) DecrementForOrder(order *models.Order) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range order.ComponentItemIDs() {
			result := tx.Model(&models.CatalogItem{}).
				Where("id = ? AND quantity > 0", id).
				UpdateColumn("quantity", gorm.Expr("quantity - 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		return nil
	})
}

// RestoreForOrder returns one unit of every component. No upper bound.
func (s *inventoryService) RestoreForOrder(order *models.Order) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range order.ComponentItemIDs() {
			result := tx.Model(&models.CatalogItem{}).
				Where("id = ?", id).
				UpdateColumn("quantity", gorm.Expr("quantity + 1"))
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
}

// Adjust sets quantity and threshold directly (admin override) and raises a
// low-stock alert when the new quantity sits at or below the threshold.
func (s *inventoryService) Adjust(category models.Category, id uint, quantity, threshold int) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := s.db.Where("category = ?", category).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.Threshold = threshold
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}

	if item.Quantity <= item.Threshold {
		s.notifier.LowStockAlert(item)
	}
	return &item, nil
}

// AuditAll sweeps the whole catalog and alerts for every item at or below
// its threshold. Safe to re-run; an item re-alerts while the condition holds.
func (s *inventoryService) AuditAll() error {
	var items []models.CatalogItem
	if err := s.db.Where("quantity <= threshold").Find(&items).Error; err != nil {
		return err
	}
	for _, item := range items {
		s.notifier.LowStockAlert(item)
	}
	return nil
}
