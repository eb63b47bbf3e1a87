package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions is the single source of truth for legal status moves.
// Payment confirmation drives pending->confirmed; admins advance the rest.
// Cancellation is handled separately and allowed from any non-terminal state.
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderPending:   OrderConfirmed,
	OrderConfirmed: OrderPreparing,
	OrderPreparing: OrderReady,
	OrderReady:     OrderDelivered,
}

func ParseOrderStatus(value string) (OrderStatus, bool) {
	switch OrderStatus(value) {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderDelivered, OrderCancelled:
		return OrderStatus(value), true
	}
	return "", false
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo reports whether moving to next is a legal step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return orderTransitions[s] == next
}

type Order struct {
	gorm.Model
	UserID         int            `json:"userId"`
	BaseID         uint           `json:"baseId"`
	SauceID        uint           `json:"sauceId"`
	CheeseID       uint           `json:"cheeseId"`
	Toppings       datatypes.JSON `json:"toppings"`
	Items          []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount    float64        `json:"totalAmount"`
	Status         OrderStatus    `json:"status" gorm:"index;size:16"`
	PaymentOrderID string         `json:"paymentOrderId" gorm:"index"`
	PaymentID      string         `json:"paymentId"`
}

// OrderItem snapshots one component at order-creation time so later catalog
// price edits never change historical totals.
type OrderItem struct {
	gorm.Model
	OrderID  int      `json:"orderId"`
	ItemID   uint     `json:"itemId"`
	Category Category `json:"category" gorm:"size:16"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
}

// ComponentItemIDs lists every catalog item the order consumes, one entry
// per unit. A topping picked twice appears twice.
func (o *Order) ComponentItemIDs() []uint {
	ids := make([]uint, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ItemID)
	}
	return ids
}
