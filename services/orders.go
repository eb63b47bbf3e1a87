package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/slicelab/pizzeria-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateOrderInput struct {
	BaseID      uint
	SauceID     uint
	CheeseID    uint
	ToppingIDs  []uint
	ClientTotal float64
}

type OrderStatistics struct {
	TotalOrders  int64                        `json:"totalOrders"`
	ByStatus     map[models.OrderStatus]int64 `json:"byStatus"`
	TotalRevenue float64                      `json:"totalRevenue"`
}

type OrderService interface {
	Create(userID int, input CreateOrderInput) (*models.Order, *GatewayOrder, error)
	ConfirmPayment(gatewayOrderID, paymentID, signature string) (*models.Order, error)
	UpdateStatus(orderID uint, next models.OrderStatus) (*models.Order, error)
	Cancel(orderID uint) (*models.Order, error)
	ListByUser(userID int) ([]models.Order, error)
	GetForUser(orderID uint, userID int) (*models.Order, error)
	ListAll() ([]models.Order, error)
	ListByStatus(status models.OrderStatus) ([]models.Order, error)
	ListByDateRange(from, to time.Time) ([]models.Order, error)
	Statistics() (*OrderStatistics, error)
}

type orderService struct {
	db        *gorm.DB
	inventory InventoryService
	gateway   PaymentGateway
	notifier  *Notifier
}

func NewOrderService(db *gorm.DB, inventory InventoryService, gateway PaymentGateway, notifier *Notifier) OrderService {
	return &orderService{db: db, inventory: inventory, gateway: gateway, notifier: notifier}
}

func (s *orderService) loadComponent(id uint, category models.Category) (*models.CatalogItem, error) {
	if id == 0 {
		return nil, ErrValidation
	}
	var item models.CatalogItem
	err := s.db.Where("category = ?", category).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, ErrUnavailable
	}
	return &item, nil
}

// Create validates the selected components, recomputes the total from
// current catalog prices (the client total is only a cross-check), persists
// the order as pending with snapshotted line items and registers a gateway
// order for collection.
func (s *orderService) Create(userID int, input CreateOrderInput) (*models.Order, *GatewayOrder, error) {
	base, err := s.loadComponent(input.BaseID, models.CategoryBase)
	if err != nil {
		return nil, nil, err
	}
	sauce, err := s.loadComponent(input.SauceID, models.CategorySauce)
	if err != nil {
		return nil, nil, err
	}
	cheese, err := s.loadComponent(input.CheeseID, models.CategoryCheese)
	if err != nil {
		return nil, nil, err
	}

	components := []*models.CatalogItem{base, sauce, cheese}
	for _, toppingID := range input.ToppingIDs {
		topping, err := s.loadComponent(toppingID, models.CategoryTopping)
		if err != nil {
			return nil, nil, err
		}
		components = append(components, topping)
	}

	var total float64
	items := make([]models.OrderItem, 0, len(components))
	for _, component := range components {
		total += component.Price
		items = append(items, models.OrderItem{
			ItemID:   component.ID,
			Category: component.Category,
			Name:     component.Name,
			Price:    component.Price,
		})
	}

	if input.ClientTotal > 0 && math.Abs(total-input.ClientTotal) > 0.009 {
		return nil, nil, ErrTotalMismatch
	}

	toppingsJSON, err := json.Marshal(input.ToppingIDs)
	if err != nil {
		return nil, nil, err
	}

	// Register with the gateway before persisting, so a gateway failure
	// leaves no orphan pending order behind.
	gatewayOrder, err := s.gateway.CreateOrder(total, fmt.Sprintf("order_%s", uuid.NewString()))
	if err != nil {
		return nil, nil, err
	}

	order := models.Order{
		UserID:         userID,
		BaseID:         base.ID,
		SauceID:        sauce.ID,
		CheeseID:       cheese.ID,
		Toppings:       datatypes.JSON(toppingsJSON),
		Items:          items,
		TotalAmount:    total,
		Status:         models.OrderPending,
		PaymentOrderID: gatewayOrder.ID,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, nil, err
	}

	return &order, gatewayOrder, nil
}

// ConfirmPayment verifies the gateway callback signature, then moves the
// order to confirmed and takes its components out of stock. A bad signature
// or an exhausted component leaves the order pending and stock untouched.
func (s *orderService) ConfirmPayment(gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("payment_order_id = ?", gatewayOrderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !s.gateway.VerifySignature(gatewayOrderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	// A confirmed order must never decrement twice. The write is conditional
	// on the row still being pending, so two concurrent callbacks for the
	// same order cannot both claim it.
	if order.Status != models.OrderPending {
		return nil, ErrInvalidTransition
	}
	claim := s.db.Model(&order).
		Where("status = ?", models.OrderPending).
		Updates(map[string]any{"status": models.OrderConfirmed, "payment_id": paymentID})
	if claim.Error != nil {
		return nil, claim.Error
	}
	if claim.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	if err := s.inventory.DecrementForOrder(&order); err != nil {
		// Release the claim so the order can be confirmed again once stock
		// is back.
		revert := map[string]any{"status": models.OrderPending, "payment_id": ""}
		if revertErr := s.db.Model(&order).Updates(revert).Error; revertErr != nil {
			log.Printf("Failed to release order %d after decrement failure: %v", order.ID, revertErr)
		}
		return nil, err
	}
	order.Status = models.OrderConfirmed
	order.PaymentID = paymentID

	s.notifyStatus(&order)
	return &order, nil
}

// UpdateStatus advances an order along the admin flow. Cancellation goes
// through Cancel so inventory is restored.
func (s *orderService) UpdateStatus(orderID uint, next models.OrderStatus) (*models.Order, error) {
	if next == models.OrderCancelled {
		return s.Cancel(orderID)
	}
	// Confirmation belongs to the payment callback, which also takes stock.
	// An admin marking an order confirmed would skip the decrement.
	if next == models.OrderConfirmed {
		return nil, ErrInvalidTransition
	}

	var order models.Order
	err := s.db.Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	result := s.db.Model(&order).
		Where("status = ?", order.Status).
		Update("status", next)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}
	order.Status = next

	s.notifyStatus(&order)
	return &order, nil
}

// Cancel moves a non-terminal order to cancelled. Stock is restored only if
// it had been decremented, i.e. the order got past pending.
func (s *orderService) Cancel(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	wasDecremented := order.Status != models.OrderPending

	// Conditional on the observed status, so a concurrent cancel (or status
	// advance) loses and stock is restored at most once.
	result := s.db.Model(&order).
		Where("status = ?", order.Status).
		Update("status", models.OrderCancelled)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}
	order.Status = models.OrderCancelled

	if wasDecremented {
		if err := s.inventory.RestoreForOrder(&order); err != nil {
			log.Printf("Failed to restore inventory for cancelled order %d: %v", order.ID, err)
		}
	}

	if user, err := s.orderUser(&order); err == nil {
		s.notifier.OrderCancelled(*user, order.ID)
	}
	return &order, nil
}

func (s *orderService) orderUser(order *models.Order) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, order.UserID).Error; err != nil {
		log.Printf("User %d for order %d not found: %v", order.UserID, order.ID, err)
		return nil, err
	}
	return &user, nil
}

func (s *orderService) notifyStatus(order *models.Order) {
	if user, err := s.orderUser(order); err == nil {
		s.notifier.OrderStatusUpdate(*user, order.ID, order.Status)
	}
}

func (s *orderService) ListByUser(userID int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (s *orderService) GetForUser(orderID uint, userID int) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) ListAll() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (s *orderService) ListByStatus(status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Where("status = ?", status).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (s *orderService) ListByDateRange(from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Where("created_at BETWEEN ? AND ?", from, to).Order("created_at desc").Find(&orders).Error
	return orders, err
}

// Statistics aggregates order counts per status and total revenue over all
// non-cancelled orders.
func (s *orderService) Statistics() (*OrderStatistics, error) {
	stats := &OrderStatistics{ByStatus: make(map[models.OrderStatus]int64)}

	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}

	err = s.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
