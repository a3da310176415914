package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rifas-el-negro/raffle-backend/internal/models"
	"github.com/rifas-el-negro/raffle-backend/internal/services"
)

// PaymentHandler handles user-facing payment HTTP requests
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Submit handles POST /payments
func (h *PaymentHandler) Submit(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	var req models.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.Submit(c, caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Payment proof submitted for validation",
		"payment_id": payment.ID.Hex(),
	})
}

// GetMyPayments handles GET /me/payments
func (h *PaymentHandler) GetMyPayments(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByUser(c, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// ListMethods handles GET /payment-methods
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	c.JSON(http.StatusOK, h.paymentService.ListMethods(c))
}
