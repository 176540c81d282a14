package models

import "gorm.io/gorm"

// Order statuses. An order is created NEW and only its status may change
// afterwards.
const (
	OrderStatusNew       = "NEW"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCanceled  = "CANCELED"
	OrderStatusReturned  = "RETURNED"
)

// OrderStatuses is the closed set of valid statuses.
var OrderStatuses = []string{
	OrderStatusNew,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCanceled,
	OrderStatusReturned,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order links a customer to a set of items. Total is computed once at
// creation from the item price snapshots and never recomputed.
type Order struct {
	gorm.Model
	CustomerID uint        `gorm:"not null;index" json:"customerId"`
	Customer   *Customer   `json:"customer,omitempty"`
	ManagerID  uint        `gorm:"not null;index" json:"managerId"`
	Manager    *User       `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Total      float64     `gorm:"not null"       json:"total"`
	Status     string      `gorm:"size:50;not null;default:NEW" json:"status"`
	Items      []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the product price at order time.
type OrderItem struct {
	gorm.Model
	OrderID   uint     `gorm:"not null;index" json:"orderId"`
	ProductID uint     `gorm:"not null;index" json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"not null"       json:"quantity"`
	Price     float64  `gorm:"not null"       json:"price"`
}
