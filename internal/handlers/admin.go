package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ashen-w/furnistore/internal/httpx"
	"github.com/ashen-w/furnistore/internal/models"
	"github.com/ashen-w/furnistore/internal/services"
	"github.com/ashen-w/furnistore/internal/validation"
)

// AdminHandler serves the privileged order and user management routes.
// Role enforcement happens in the router via policy.RequireAdmin; these
// handlers assume an admin identity.
type AdminHandler struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(db *gorm.DB, svc *services.OrderService) *AdminHandler {
	return &AdminHandler{DB: db, Svc: svc}
}

// ListOrders handles GET /admin/orders, newest first.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var orders []models.Order
	if err := h.DB.Preload("Items").Order("created_at desc").Find(&orders).Error; err != nil {
		log.Error().Err(err).Msg("list orders")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /admin/orders/{orderId}. Transitions are
// restricted to the fulfillment state machine; anything else answers 409.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")
	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"status": "invalid_value"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").Where("order_id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		log.Error().Err(err).Msg("load order")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if !h.Svc.CanTransition(order.Status, input.Status) {
		httpx.JSONError(w, http.StatusConflict, "invalid_status_transition", map[string]string{
			"from": order.Status,
			"to":   input.Status,
		})
		return
	}
	order.Status = input.Status
	if err := h.DB.Save(&order).Error; err != nil {
		log.Error().Err(err).Msg("update order status")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated",
		"order":   order,
	})
}

// ListUsers handles GET /admin/users. Password hashes never serialize
// (json:"-" on the model).
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Order("id asc").Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("list users")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

// userByPathID loads a user from the {id} path segment, writing the error
// response itself when it returns nil.
func (h *AdminHandler) userByPathID(w http.ResponseWriter, r *http.Request) *models.User {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil
	}
	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
			return nil
		}
		log.Error().Err(err).Msg("load user")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return nil
	}
	return &user
}

// ToggleBlock handles PATCH /admin/users/{id}/block, flipping the flag.
func (h *AdminHandler) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	user := h.userByPathID(w, r)
	if user == nil {
		return
	}
	user.IsBlocked = !user.IsBlocked
	if err := h.DB.Save(user).Error; err != nil {
		log.Error().Err(err).Msg("toggle block")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	verb := "unblocked"
	if user.IsBlocked {
		verb = "blocked"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "User " + verb + " successfully",
		"user":    user,
	})
}

// ChangeRole handles PATCH /admin/users/{id}/role. Any of the three roles
// may be assigned; there is no last-admin protection (see DESIGN.md).
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !models.ValidRole(input.Role) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"role": "invalid_value"})
		return
	}
	user := h.userByPathID(w, r)
	if user == nil {
		return
	}
	user.Role = input.Role
	if err := h.DB.Save(user).Error; err != nil {
		log.Error().Err(err).Msg("change role")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "User role updated",
		"user":    user,
	})
}

// DeleteUser handles DELETE /admin/users/{id}. Hard delete.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := h.userByPathID(w, r)
	if user == nil {
		return
	}
	if err := h.DB.Delete(user).Error; err != nil {
		log.Error().Err(err).Msg("delete user")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
