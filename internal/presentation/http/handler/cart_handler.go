package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/freshmart-pos/internal/application/service"
	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/response"
)

// CartHandler handles cart requests of the authenticated session
type CartHandler struct {
	sessionService *service.SessionService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessionService *service.SessionService) *CartHandler {
	return &CartHandler{sessionService: sessionService}
}

func (h *CartHandler) respondCart(c *gin.Context, message string, view *service.CartView, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, response.NewCartResponse(view))
}

// Get handles reading the cart and its totals
func (h *CartHandler) Get(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}
	view, err := h.sessionService.GetCart(c.Request.Context(), sessionID)
	h.respondCart(c, "Cart retrieved successfully", view, err)
}

// AddItem handles adding one unit of a product
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	var req request.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.sessionService.AddItem(c.Request.Context(), sessionID, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Item added to cart"
	if result.Warning != nil {
		message = "Item added to cart; it expires soon"
	}
	response.OK(c, message, response.AddItemResponse{
		Cart:    response.NewCartResponse(result.Cart),
		Warning: result.Warning,
	})
}

// UpdateQuantity handles setting an item's quantity
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	var req request.UpdateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.sessionService.UpdateQuantity(c.Request.Context(), sessionID, c.Param("id"), *req.Quantity)
	h.respondCart(c, "Quantity updated", view, err)
}

// RemoveItem handles removing a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}
	view, err := h.sessionService.RemoveItem(c.Request.Context(), sessionID, c.Param("id"))
	h.respondCart(c, "Item removed from cart", view, err)
}

// SetItemDiscount handles setting a per-item discount
func (h *CartHandler) SetItemDiscount(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	var req request.DiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.sessionService.SetItemDiscount(c.Request.Context(), sessionID, c.Param("id"), *req.Amount, req.DiscountType())
	h.respondCart(c, "Item discount updated", view, err)
}

// SetOverallDiscount handles setting the cart-wide discount
func (h *CartHandler) SetOverallDiscount(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	var req request.DiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.sessionService.SetOverallDiscount(c.Request.Context(), sessionID, *req.Amount, req.DiscountType())
	h.respondCart(c, "Overall discount updated", view, err)
}

// SetBudget handles enabling or disabling budget mode
func (h *CartHandler) SetBudget(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	var req request.BudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.sessionService.SetBudget(c.Request.Context(), sessionID, *req.Enabled, req.LimitOrZero())
	h.respondCart(c, "Budget updated", view, err)
}

// SetPayment handles selecting the payment method
func (h *CartHandler) SetPayment(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.sessionService.SetPaymentMethod(c.Request.Context(), sessionID, enum.PaymentMethod(req.Method))
	h.respondCart(c, "Payment method updated", view, err)
}

// Clear handles abandoning the current sale
func (h *CartHandler) Clear(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}
	view, err := h.sessionService.ClearCart(c.Request.Context(), sessionID)
	h.respondCart(c, "Cart cleared", view, err)
}

// Checkout handles finalizing the sale
func (h *CartHandler) Checkout(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	bill, err := h.sessionService.Checkout(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed", response.NewBillResponse(bill))
}
