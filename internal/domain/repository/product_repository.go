package repository

import (
	"context"

	"github.com/sangkips/freshmart-pos/internal/domain/entity"
)

// ProductRepository is the source the catalog is loaded from at startup.
// Implementations must return products in catalog order.
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
}
