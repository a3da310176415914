package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rifas-el-negro/raffle-backend/internal/models"
	"github.com/rifas-el-negro/raffle-backend/internal/services"
)

// AdminHandler handles the staff command and read surface: the payment
// queue, validation decisions, staff reservations and the dashboard.
type AdminHandler struct {
	paymentService    services.PaymentService
	validationService services.ValidationService
	ledgerService     services.LedgerService
	dashboardService  services.DashboardService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(paymentService services.PaymentService, validationService services.ValidationService, ledgerService services.LedgerService, dashboardService services.DashboardService) *AdminHandler {
	return &AdminHandler{
		paymentService:    paymentService,
		validationService: validationService,
		ledgerService:     ledgerService,
		dashboardService:  dashboardService,
	}
}

// ListPayments handles GET /admin/payments?status=&method=
func (h *AdminHandler) ListPayments(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	filter := models.PaymentFilter{
		Status: models.PaymentStatus(c.Query("status")),
		Method: models.PaymentMethodName(c.Query("method")),
	}

	payments, err := h.paymentService.ListAll(c, caller, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// ValidatePayment handles POST /admin/payments/:id/validate
func (h *AdminHandler) ValidatePayment(c *gin.Context) {
	h.resolvePayment(c, h.validationService.Validate)
}

// RejectPayment handles POST /admin/payments/:id/reject
func (h *AdminHandler) RejectPayment(c *gin.Context) {
	h.resolvePayment(c, h.validationService.Reject)
}

func (h *AdminHandler) resolvePayment(c *gin.Context, resolve func(ctx context.Context, caller models.Identity, id primitive.ObjectID, notes string) (*models.Payment, error)) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	paymentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var req models.ResolvePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := resolve(c, caller, paymentID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ReserveForUser handles POST /admin/reserve
func (h *AdminHandler) ReserveForUser(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	var req struct {
		RaffleID string `json:"raffle_id" binding:"required"`
		Number   string `json:"number" binding:"required"`
		UserID   string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffleID, err := primitive.ObjectIDFromHex(req.RaffleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	number, err := h.ledgerService.ReserveForUser(c, caller, raffleID, req.Number, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"number":     number,
		"expires_at": number.ExpiresAt,
	})
}

// GetDashboard handles GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetStats(c, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
