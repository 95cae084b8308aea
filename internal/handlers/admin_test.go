package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ashen-w/furnistore/internal/models"
	"github.com/ashen-w/furnistore/internal/services"
)

func seedOrder(t *testing.T, db *gorm.DB, status string) models.Order {
	t.Helper()
	svc := services.NewOrderService()
	o := models.Order{
		OrderID:  svc.NewOrderID(),
		Name:     "Jane Doe",
		Email:    "jane@test.com",
		Phone:    "0771234567",
		Address:  "12 Lake Rd",
		Status:   status,
		Subtotal: 30,
		Shipping: 10,
		Tax:      2.4,
		Total:    42.4,
		Items:    []models.OrderItem{{ProductID: "FURN001", Name: "Oak Chair", UnitPrice: 30, Quantity: 1}},
	}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func patchStatus(t *testing.T, h *AdminHandler, orderID, status string) *httptest.ResponseRecorder {
	t.Helper()
	req := asAdmin(httptest.NewRequest(http.MethodPatch, "/admin/orders/"+orderID,
		strings.NewReader(`{"status":"`+status+`"}`)))
	req.SetPathValue("orderId", orderID)
	w := httptest.NewRecorder()
	h.UpdateOrderStatus(w, req)
	return w
}

func TestUpdateOrderStatusEnforcesTransitions(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db, services.NewOrderService())
	o := seedOrder(t, db, models.OrderStatusPending)

	// pending -> shipped skips processing and is rejected.
	if w := patchStatus(t, h, o.OrderID, models.OrderStatusShipped); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}

	// pending -> processing -> shipped -> delivered walks the machine.
	for _, status := range []string{
		models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered,
	} {
		if w := patchStatus(t, h, o.OrderID, status); w.Code != http.StatusOK {
			t.Fatalf("transition to %s: expected 200 got %d body=%s", status, w.Code, w.Body.String())
		}
	}

	// delivered is terminal.
	if w := patchStatus(t, h, o.OrderID, models.OrderStatusCancelled); w.Code != http.StatusConflict {
		t.Fatalf("delivered order cancelled: expected 409 got %d", w.Code)
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db, services.NewOrderService())
	if w := patchStatus(t, h, "ORD-missing", models.OrderStatusProcessing); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestUpdateOrderStatusInvalidValue(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db, services.NewOrderService())
	o := seedOrder(t, db, models.OrderStatusPending)
	if w := patchStatus(t, h, o.OrderID, "teleported"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db, services.NewOrderService())
	first := seedOrder(t, db, models.OrderStatusPending)
	second := seedOrder(t, db, models.OrderStatusPending)
	// Force distinct creation order in sqlite's timestamp resolution.
	db.Model(&models.Order{}).Where("id = ?", first.ID).Update("created_at", first.CreatedAt.Add(-time.Second))

	w := httptest.NewRecorder()
	h.ListOrders(w, asAdmin(httptest.NewRequest(http.MethodGet, "/admin/orders", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var orders []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders got %d", len(orders))
	}
	if orders[0].OrderID != second.OrderID {
		t.Fatalf("expected newest first, got %s", orders[0].OrderID)
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("items not preloaded: %+v", orders[0])
	}
}

func TestListUsersExcludesPassword(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db, services.NewOrderService())
	seedUser(t, db, "jane@test.com", "password123", models.RoleCustomer)

	w := httptest.NewRecorder()
	h.ListUsers(w, asAdmin(httptest.NewRequest(http.MethodGet, "/admin/users", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(strings.ToLower(body), "password") || strings.Contains(body, "$2a$") {
		t.Fatalf("password must never serialize: %s", body)
	}
}

func TestToggleBlock(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db, services.NewOrderService())
	u := seedUser(t, db, "jane@test.com", "password123", models.RoleCustomer)

	toggle := func() *httptest.ResponseRecorder {
		id := strconv.Itoa(int(u.ID))
		req := asAdmin(httptest.NewRequest(http.MethodPatch, "/admin/users/"+id+"/block", nil))
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.ToggleBlock(w, req)
		return w
	}

	if w := toggle(); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "blocked") {
		t.Fatalf("first toggle: %d %s", w.Code, w.Body.String())
	}
	var reloaded models.User
	db.First(&reloaded, u.ID)
	if !reloaded.IsBlocked {
		t.Fatal("user should be blocked")
	}

	if w := toggle(); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "unblocked") {
		t.Fatalf("second toggle: %d %s", w.Code, w.Body.String())
	}
	db.First(&reloaded, u.ID)
	if reloaded.IsBlocked {
		t.Fatal("user should be unblocked again")
	}
}

func TestChangeRole(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db, services.NewOrderService())
	u := seedUser(t, db, "jane@test.com", "password123", models.RoleCustomer)
	id := strconv.Itoa(int(u.ID))

	req := asAdmin(httptest.NewRequest(http.MethodPatch, "/admin/users/"+id+"/role",
		strings.NewReader(`{"role":"moderator"}`)))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.ChangeRole(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var reloaded models.User
	db.First(&reloaded, u.ID)
	if reloaded.Role != models.RoleModerator {
		t.Fatalf("role not updated: %s", reloaded.Role)
	}

	// Unknown role value is rejected before any lookup.
	req = asAdmin(httptest.NewRequest(http.MethodPatch, "/admin/users/"+id+"/role",
		strings.NewReader(`{"role":"emperor"}`)))
	req.SetPathValue("id", id)
	w = httptest.NewRecorder()
	h.ChangeRole(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db, services.NewOrderService())
	u := seedUser(t, db, "jane@test.com", "password123", models.RoleCustomer)
	id := strconv.Itoa(int(u.ID))

	req := asAdmin(httptest.NewRequest(http.MethodDelete, "/admin/users/"+id, nil))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.DeleteUser(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("user should be hard-deleted, %d remain", count)
	}

	// Deleting again reports not found.
	w = httptest.NewRecorder()
	req = asAdmin(httptest.NewRequest(http.MethodDelete, "/admin/users/"+id, nil))
	req.SetPathValue("id", id)
	h.DeleteUser(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}
