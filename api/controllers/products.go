package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/api/middleware"
	"github.com/pvsmart/pvsmart-backend/api/responses"
	"github.com/pvsmart/pvsmart-backend/api/validators"
	productsvc "github.com/pvsmart/pvsmart-backend/internal/products"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/logger"
)

// ListProducts serves the storefront catalog. Owners can pass
// include_hidden=true to see deactivated listings.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filters, err := catalogFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct adds a catalog listing. Owner only; the SKU is generated.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct deactivates a listing; the row stays for order history.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Subcategory *string  `json:"subcategory,omitempty"`
	Price       string   `json:"price" validate:"required"`
	MRP         *string  `json:"mrp,omitempty"`
	Stock       int      `json:"stock" validate:"min=0"`
	Unit        string   `json:"unit,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

func (r createProductRequest) toInput() productsvc.CreateProductInput {
	input := productsvc.CreateProductInput{
		Name:        r.Name,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Stock:       r.Stock,
		Unit:        r.Unit,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
	if price, err := decimal.NewFromString(strings.TrimSpace(r.Price)); err == nil {
		input.Price = price
	}
	if r.MRP != nil {
		if mrp, err := decimal.NewFromString(strings.TrimSpace(*r.MRP)); err == nil {
			input.MRP = &mrp
		}
	}
	return input
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Subcategory *string `json:"subcategory,omitempty"`
	Price       *string `json:"price,omitempty"`
	MRP         *string `json:"mrp,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Unit        *string `json:"unit,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r updateProductRequest) toInput() productsvc.UpdateProductInput {
	input := productsvc.UpdateProductInput{
		Name:        r.Name,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Stock:       r.Stock,
		Unit:        r.Unit,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		IsActive:    r.IsActive,
	}
	if r.Price != nil {
		if price, err := decimal.NewFromString(strings.TrimSpace(*r.Price)); err == nil {
			input.Price = &price
		}
	}
	if r.MRP != nil {
		if mrp, err := decimal.NewFromString(strings.TrimSpace(*r.MRP)); err == nil {
			input.MRP = &mrp
		}
	}
	return input
}

func catalogFilters(r *http.Request) (productsvc.ListFilters, error) {
	query := r.URL.Query()
	filters := productsvc.ListFilters{
		Category:    strings.TrimSpace(query.Get("category")),
		Subcategory: strings.TrimSpace(query.Get("subcategory")),
		Search:      strings.TrimSpace(query.Get("search")),
		Sort:        strings.TrimSpace(query.Get("sort")),
	}

	if raw := strings.TrimSpace(query.Get("min_price")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "min_price must be numeric")
		}
		filters.MinPrice = &value
	}
	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "max_price must be numeric")
		}
		filters.MaxPrice = &value
	}

	if query.Get("include_hidden") == "true" &&
		middleware.RoleFromContext(r.Context()) == enums.RoleOwner.String() {
		filters.IncludeHidden = true
	}
	return filters, nil
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").
			WithDetails(map[string]any{"param": param})
	}
	return id, nil
}
