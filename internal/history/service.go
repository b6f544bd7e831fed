package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/internal/products"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Service tracks and serves the storefront's recently viewed shelf.
type Service interface {
	Track(ctx context.Context, userID, productID int64) error
	Recent(ctx context.Context, userID int64, limit int) ([]products.ProductView, error)
}

type service struct {
	repo     Repository
	products products.Repository
}

// NewService builds a history service with the required dependencies.
func NewService(repo Repository, productsRepo products.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, products: productsRepo}, nil
}

func (s *service) Track(ctx context.Context, userID, productID int64) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Replace(ctx, userID, productID, time.Now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "track view")
	}
	return nil
}

// Recent returns the caller's recently viewed products, most recent first.
// Listings deactivated since the view drop out of the result.
func (s *service) Recent(ctx context.Context, userID int64, limit int) ([]products.ProductView, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.repo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list history")
	}
	if len(rows) == 0 {
		return []products.ProductView{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	items, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	byID := make(map[int64]int, len(items))
	for i, item := range items {
		byID[item.ID] = i
	}

	views := make([]products.ProductView, 0, len(rows))
	for _, row := range rows {
		idx, ok := byID[row.ProductID]
		if !ok || !items[idx].IsActive {
			continue
		}
		views = append(views, products.NewProductView(items[idx]))
	}
	return views, nil
}
