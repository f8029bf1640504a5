package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/catalog"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/sangkips/freshmart-pos/pkg/apperror"
	"github.com/sangkips/freshmart-pos/pkg/pagination"
)

// CatalogService handles product browsing
type CatalogService struct {
	catalog *catalog.Catalog
	now     func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(c *catalog.Catalog, now func() time.Time) *CatalogService {
	if now == nil {
		now = time.Now
	}
	return &CatalogService{catalog: c, now: now}
}

// CatalogProduct is a product with its expiry classification at read time
type CatalogProduct struct {
	entity.Product
	ExpiryStatus    enum.ExpiryStatus `json:"expiry_status"`
	DaysUntilExpiry *int              `json:"days_until_expiry,omitempty"`
}

// ListProductsInput represents the product listing filters
type ListProductsInput struct {
	Search   string
	Category string
	Params   *pagination.PaginationParams
}

func (s *CatalogService) view(p entity.Product, now time.Time) CatalogProduct {
	out := CatalogProduct{
		Product:      p,
		ExpiryStatus: p.ExpiryStatus(now),
	}
	if days, ok := entity.DaysUntilExpiry(p.ExpiryDate, now); ok {
		out.DaysUntilExpiry = &days
	}
	return out
}

// ListProducts searches the catalog, optionally narrowed to one category
func (s *CatalogService) ListProducts(ctx context.Context, input *ListProductsInput) *pagination.PaginatedResult[CatalogProduct] {
	products := s.catalog.Search(input.Search)

	if input.Category != "" {
		filtered := products[:0]
		for _, p := range products {
			if strings.EqualFold(p.Category, input.Category) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	now := s.now()
	views := make([]CatalogProduct, 0, len(products))
	for _, p := range products {
		views = append(views, s.view(p, now))
	}

	params := input.Params
	if params == nil {
		params = pagination.DefaultPagination()
	}
	return pagination.Paginate(views, params)
}

// GetProduct returns a single product
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*CatalogProduct, error) {
	p, ok := s.catalog.FindByID(id)
	if !ok {
		return nil, apperror.NewReasonError(http.StatusNotFound, ReasonProductNotFound, "Product not found")
	}
	view := s.view(p, s.now())
	return &view, nil
}

// Categories returns the catalog categories in display order
func (s *CatalogService) Categories(ctx context.Context) []string {
	categories := s.catalog.Categories()
	if categories == nil {
		return []string{}
	}
	return categories
}
