package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/freshmart-pos/internal/application/service"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/freshmart-pos/pkg/pagination"
)

// CatalogHandler handles product lookup requests
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List handles product search. An empty search lists the whole catalog.
func (h *CatalogHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result := h.catalogService.ListProducts(c.Request.Context(), &service.ListProductsInput{
		Search:   filter.Search,
		Category: filter.Category,
		Params: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	})

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Get handles getting a single product
func (h *CatalogHandler) Get(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Categories handles listing the catalog categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	response.OK(c, "Categories retrieved successfully", h.catalogService.Categories(c.Request.Context()))
}
