package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/freshmart-pos/internal/application/service"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/response"
)

// BillHandler serves the bills finalized in the current session
type BillHandler struct {
	sessionService *service.SessionService
	receiptService *service.ReceiptService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(sessionService *service.SessionService, receiptService *service.ReceiptService) *BillHandler {
	return &BillHandler{
		sessionService: sessionService,
		receiptService: receiptService,
	}
}

// List handles listing the session's recent bills, newest first
func (h *BillHandler) List(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	bills, err := h.sessionService.ListBills(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]*response.BillResponse, 0, len(bills))
	for i := range bills {
		out = append(out, response.NewBillResponse(&bills[i]))
	}
	response.OK(c, "Bills retrieved successfully", out)
}

// Get handles getting one bill
func (h *BillHandler) Get(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	bill, err := h.sessionService.GetBill(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", response.NewBillResponse(bill))
}

// Receipt handles building the printable receipt of a bill
func (h *BillHandler) Receipt(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	bill, err := h.sessionService.GetBill(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt generated", gin.H{
		"receipt": h.receiptService.BuildReceipt(*bill),
	})
}

// Print handles reprinting the receipt of a bill
func (h *BillHandler) Print(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	bill, err := h.sessionService.GetBill(ctx, sessionID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	receipt, err := h.receiptService.Print(ctx, *bill)
	if err != nil {
		// The receipt is still useful when the printer is disabled or offline
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

// PrinterStatus handles reporting the printer connection status
func (h *BillHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetStatus(c.Request.Context()))
}
