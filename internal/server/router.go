package server

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/ashen-w/furnistore/internal/auth"
	"github.com/ashen-w/furnistore/internal/config"
	"github.com/ashen-w/furnistore/internal/handlers"
	"github.com/ashen-w/furnistore/internal/httpx"
	"github.com/ashen-w/furnistore/internal/policy"
	"github.com/ashen-w/furnistore/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares
// applied. Identity decoding runs for every request; role enforcement is
// attached per route so there is a single checkpoint per handler.
func New(db *gorm.DB, cfg config.Config, tokens *auth.TokenManager) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	orderSvc := services.NewOrderService()

	// Users
	uh := handlers.NewUserHandler(db, tokens, cfg.ResetBaseURL)
	mux.HandleFunc("POST /users", uh.Register)
	mux.HandleFunc("POST /users/login", uh.Login)
	mux.HandleFunc("POST /users/forgot-password", uh.ForgotPassword)
	mux.HandleFunc("POST /users/reset-password/{token}", uh.ResetPassword)
	mux.Handle("GET /users/profile", policy.RequireAuth(http.HandlerFunc(uh.GetProfile)))
	mux.Handle("PUT /users/profile", policy.RequireAuth(http.HandlerFunc(uh.UpdateProfile)))

	// Catalog
	ph := handlers.NewProductHandler(db)
	mux.HandleFunc("GET /products", ph.List)
	mux.HandleFunc("GET /products/{productId}", ph.Get)
	mux.Handle("POST /products", policy.RequireAdmin(http.HandlerFunc(ph.Create)))
	mux.Handle("PUT /products/{productId}", policy.RequireAdmin(http.HandlerFunc(ph.Update)))
	mux.Handle("DELETE /products/{productId}", policy.RequireAdmin(http.HandlerFunc(ph.Delete)))

	// Orders
	oh := handlers.NewOrderHandler(db, orderSvc)
	mux.HandleFunc("POST /orders", oh.Create)
	mux.Handle("GET /orders", policy.RequireAuth(http.HandlerFunc(oh.ListMine)))

	// Admin
	ah := handlers.NewAdminHandler(db, orderSvc)
	mux.Handle("GET /admin/orders", policy.RequireAdmin(http.HandlerFunc(ah.ListOrders)))
	mux.Handle("PATCH /admin/orders/{orderId}", policy.RequireAdmin(http.HandlerFunc(ah.UpdateOrderStatus)))
	mux.Handle("GET /admin/users", policy.RequireAdmin(http.HandlerFunc(ah.ListUsers)))
	mux.Handle("PATCH /admin/users/{id}/block", policy.RequireAdmin(http.HandlerFunc(ah.ToggleBlock)))
	mux.Handle("PATCH /admin/users/{id}/role", policy.RequireAdmin(http.HandlerFunc(ah.ChangeRole)))
	mux.Handle("DELETE /admin/users/{id}", policy.RequireAdmin(http.HandlerFunc(ah.DeleteUser)))

	return withCORS(cfg.CORSOrigins, tokens.Middleware(withRecover(withLogging(mux))))
}
