package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/catalog"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/freshmart-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository backed by PostgreSQL
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(NotDeleted, CatalogOrder).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

type staticProductRepository struct {
	now func() time.Time
}

// NewStaticProductRepository serves the built-in reference catalog. Expiry
// dates are computed relative to the time List is called.
func NewStaticProductRepository(now func() time.Time) domainRepo.ProductRepository {
	if now == nil {
		now = time.Now
	}
	return &staticProductRepository{now: now}
}

func (r *staticProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return catalog.ReferenceProducts(r.now()), nil
}
