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
	"github.com/ashen-w/furnistore/internal/validation"
)

// ProductHandler serves the catalog routes. Reads are open to anyone but
// filtered by availability; writes are behind admin policy middleware.
type ProductHandler struct {
	DB *gorm.DB
}

// NewProductHandler builds a ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler { return &ProductHandler{DB: db} }

// List handles GET /products. Admins see the full catalog including hidden
// items; everyone else only sees available products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB
	if !policy.IsAdmin(auth.ClaimsFromContext(r.Context())) {
		dbq = dbq.Where("is_available = ?", true)
	}
	var products []models.Product
	if err := dbq.Order("id desc").Find(&products).Error; err != nil {
		log.Error().Err(err).Msg("list products")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

// Get handles GET /products/{productId}. A hidden product answers 404 to
// non-admins, indistinguishable from a missing one.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	var product models.Product
	if err := h.DB.Where("product_id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		log.Error().Err(err).Msg("get product")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if !product.IsAvailable && !policy.IsAdmin(auth.ClaimsFromContext(r.Context())) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

type productInput struct {
	ProductID     string   `json:"productId"`
	Name          string   `json:"name"`
	AltNames      []string `json:"altNames"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
	LabelledPrice float64  `json:"labelledPrice"`
	Price         float64  `json:"price"`
	Stock         int      `json:"stock"`
	Category      string   `json:"category"`
	IsAvailable   *bool    `json:"isAvailable"`
}

// Create handles POST /products (admin). Validation runs server-side even
// though the dashboard validates too.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("productId", input.ProductID, v)
	validation.Required("name", input.Name, v)
	validation.Required("description", input.Description, v)
	validation.Required("category", input.Category, v)
	validation.PositiveFloat("price", input.Price, v)
	validation.NonNegativeFloat("labelledPrice", input.LabelledPrice, v)
	validation.NonNegativeInt("stock", input.Stock, v)
	validation.NotEmptyList("images", len(input.Images), v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}
	product := models.Product{
		ProductID:     strings.TrimSpace(input.ProductID),
		Name:          input.Name,
		AltNames:      input.AltNames,
		Description:   input.Description,
		Images:        input.Images,
		LabelledPrice: input.LabelledPrice,
		Price:         input.Price,
		Stock:         input.Stock,
		Category:      input.Category,
		IsAvailable:   available,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		if isDuplicateErr(err) {
			httpx.JSONError(w, http.StatusConflict, "product_id_already_exists", nil)
			return
		}
		log.Error().Err(err).Msg("create product")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{productId} (admin). Only provided fields
// change.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	var product models.Product
	if err := h.DB.Where("product_id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		log.Error().Err(err).Msg("load product")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	var patch struct {
		Name          *string   `json:"name"`
		AltNames      *[]string `json:"altNames"`
		Description   *string   `json:"description"`
		Images        *[]string `json:"images"`
		LabelledPrice *float64  `json:"labelledPrice"`
		Price         *float64  `json:"price"`
		Stock         *int      `json:"stock"`
		Category      *string   `json:"category"`
		IsAvailable   *bool     `json:"isAvailable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := validation.Violations{}
	if patch.Name != nil {
		validation.Required("name", *patch.Name, v)
	}
	if patch.Price != nil {
		validation.PositiveFloat("price", *patch.Price, v)
	}
	if patch.Stock != nil {
		validation.NonNegativeInt("stock", *patch.Stock, v)
	}
	if patch.Images != nil {
		validation.NotEmptyList("images", len(*patch.Images), v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.AltNames != nil {
		product.AltNames = *patch.AltNames
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Images != nil {
		product.Images = *patch.Images
	}
	if patch.LabelledPrice != nil {
		product.LabelledPrice = *patch.LabelledPrice
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.IsAvailable != nil {
		product.IsAvailable = *patch.IsAvailable
	}
	if err := h.DB.Save(&product).Error; err != nil {
		log.Error().Err(err).Msg("update product")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{productId} (admin). Deleting an unknown
// id is not an error; the delete is idempotent by public product id.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if err := h.DB.Where("product_id = ?", productID).Delete(&models.Product{}).Error; err != nil {
		log.Error().Err(err).Msg("delete product")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
