package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ashen-w/furnistore/internal/auth"
	"github.com/ashen-w/furnistore/internal/httpx"
	"github.com/ashen-w/furnistore/internal/models"
	"github.com/ashen-w/furnistore/internal/policy"
	"github.com/ashen-w/furnistore/internal/services"
	"github.com/ashen-w/furnistore/internal/validation"
)

// OrderHandler serves checkout and order-listing routes.
type OrderHandler struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

// NewOrderHandler builds an OrderHandler.
func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{DB: db, Svc: svc}
}

type orderInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Products []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"products"`
}

// Create handles POST /orders. Checkout is open to anonymous callers;
// contact fields are stored verbatim. Line-item names and unit prices are
// snapshotted from the catalog so the order total is fixed at creation.
// Stock is not decremented here (see DESIGN.md).
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input orderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	validation.Required("phone", input.Phone, v)
	validation.Required("address", input.Address, v)
	validation.NotEmptyList("products", len(input.Products), v)
	for _, line := range input.Products {
		if line.Quantity <= 0 {
			v["products"] = "quantity_must_be_positive"
		}
		if strings.TrimSpace(line.ProductID) == "" {
			v["products"] = "product_id_required"
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	isAdmin := policy.IsAdmin(auth.ClaimsFromContext(r.Context()))
	items := make([]models.OrderItem, 0, len(input.Products))
	for _, line := range input.Products {
		var product models.Product
		if err := h.DB.Where("product_id = ?", line.ProductID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.JSONError(w, http.StatusNotFound, "product_not_found", map[string]string{"productId": line.ProductID})
				return
			}
			log.Error().Err(err).Msg("resolve product")
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
		// Hidden items stay invisible at checkout too, same opacity rule
		// as the catalog read path.
		if !product.IsAvailable && !isAdmin {
			httpx.JSONError(w, http.StatusNotFound, "product_not_found", map[string]string{"productId": line.ProductID})
			return
		}
		items = append(items, models.OrderItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
	}

	totals := h.Svc.ComputeTotals(items)
	order := models.Order{
		OrderID:  h.Svc.NewOrderID(),
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Status:   models.OrderStatusPending,
		Subtotal: totals.Subtotal,
		Shipping: totals.Shipping,
		Tax:      totals.Tax,
		Total:    totals.Total,
		Items:    items,
	}
	if err := h.DB.Create(&order).Error; err != nil {
		log.Error().Err(err).Msg("create order")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// ListMine handles GET /orders: the caller's own orders, newest first,
// correlated by the email in the bearer token.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	var orders []models.Order
	if err := h.DB.Preload("Items").
		Where("email = ?", claims.Email).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		log.Error().Err(err).Msg("list own orders")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}
