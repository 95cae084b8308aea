package services

import (
	"github.com/google/uuid"

	"github.com/ashen-w/furnistore/internal/models"
)

// Pricing constants. The free-shipping boundary is strictly greater-than:
// a subtotal of exactly 100 still pays the flat fee.
const (
	FreeShippingThreshold = 100.0
	FlatShippingFee       = 10.0
	TaxRate               = 0.08
)

// Totals is the price breakdown of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// OrderService encapsulates order pricing and fulfillment rules.
// DB access stays in handlers, like the rest of the codebase.
type OrderService struct{}

// NewOrderService returns a stateless OrderService.
func NewOrderService() *OrderService { return &OrderService{} }

// ComputeTotals prices the given line items. Unit prices are taken from the
// items themselves, which are snapshotted from the catalog at checkout.
// Tax applies to the subtotal only, never to shipping.
func (s *OrderService) ComputeTotals(items []models.OrderItem) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.UnitPrice * float64(it.Quantity)
	}
	if t.Subtotal > FreeShippingThreshold {
		t.Shipping = 0
	} else {
		t.Shipping = FlatShippingFee
	}
	t.Tax = t.Subtotal * TaxRate
	t.Total = t.Subtotal + t.Shipping + t.Tax
	return t
}

// NewOrderID generates a unique public order identifier.
func (s *OrderService) NewOrderID() string {
	return "ORD-" + uuid.NewString()
}

// statusTransitions is the fulfillment state machine:
// pending -> processing|cancelled, processing -> shipped|cancelled,
// shipped -> delivered. delivered and cancelled are terminal.
var statusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func (s *OrderService) CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
