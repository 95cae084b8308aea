package models

import "time"

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether status is a known order status.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a checkout snapshot. Contact fields are captured verbatim and are
// not required to match a User record; ownership is by email correlation only.
// Prices and totals are snapshotted at creation time so later catalog price
// changes never alter a placed order.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	OrderID   string      `gorm:"uniqueIndex;size:60;not null" json:"orderId"`
	Name      string      `gorm:"size:255;not null" json:"name"`
	Email     string      `gorm:"size:255;not null;index" json:"email"`
	Phone     string      `gorm:"size:40;not null" json:"phone"`
	Address   string      `gorm:"type:text;not null" json:"address"`
	Status    string      `gorm:"size:20;not null;default:'pending'" json:"status"`
	Subtotal  float64     `gorm:"not null" json:"subtotal"`
	Shipping  float64     `gorm:"not null" json:"shipping"`
	Tax       float64     `gorm:"not null" json:"tax"`
	Total     float64     `gorm:"not null" json:"total"`
	Items     []OrderItem `gorm:"foreignKey:OrderRef" json:"items"`
}

// OrderItem is one line of an order. ProductID is the public product id and
// is a weak reference: deleting the product leaves the line intact.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderRef  uint    `gorm:"not null;index" json:"-"`
	ProductID string  `gorm:"size:40;not null" json:"productId"`
	Name      string  `gorm:"size:255;not null" json:"name"`
	UnitPrice float64 `gorm:"not null" json:"unitPrice"`
	Quantity  int     `gorm:"not null" json:"quantity"`
}
