// Package catalog holds the read-only product set the cart validates against.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/internal/domain/repository"
)

// ErrDuplicateProduct is returned when two products share an ID
var ErrDuplicateProduct = errors.New("duplicate product id")

// Catalog is an immutable, ordered set of products. It is safe for
// concurrent use because nothing mutates it after New returns.
type Catalog struct {
	products []entity.Product
	byID     map[string]int
}

// New builds a catalog from products, preserving their order
func New(products []entity.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]entity.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product %q has no id", p.Name)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("catalog: %w: %s", ErrDuplicateProduct, p.ID)
		}
		if p.ExpiryDate != nil {
			expiry := *p.ExpiryDate
			p.ExpiryDate = &expiry
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Load reads every product from repo and builds a catalog
func Load(ctx context.Context, repo repository.ProductRepository) (*Catalog, error) {
	products, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: load products: %w", err)
	}
	return New(products)
}

// FindByID returns the product with the given id
func (c *Catalog) FindByID(id string) (entity.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return entity.Product{}, false
	}
	return c.products[i], true
}

// Search returns products whose name or category contains query
// (case-insensitive) or whose barcode contains query. An empty query
// matches everything. Results keep catalog order.
func (c *Catalog) Search(query string) []entity.Product {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.All()
	}
	lower := strings.ToLower(query)

	out := make([]entity.Product, 0)
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Category), lower) ||
			(p.Barcode != "" && strings.Contains(p.Barcode, query)) {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory returns the products of one category, matched case-insensitively
func (c *Catalog) ByCategory(category string) []entity.Product {
	out := make([]entity.Product, 0)
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// All returns a copy of every product in catalog order
func (c *Catalog) All() []entity.Product {
	out := make([]entity.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}
