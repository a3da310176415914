package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rifas-el-negro/raffle-backend/internal/services"
)

// NumberHandler handles ticket-ledger HTTP requests
type NumberHandler struct {
	ledgerService services.LedgerService
}

// NewNumberHandler creates a new NumberHandler
func NewNumberHandler(ledgerService services.LedgerService) *NumberHandler {
	return &NumberHandler{ledgerService: ledgerService}
}

// ListByRaffle handles GET /raffles/:id/numbers
func (h *NumberHandler) ListByRaffle(c *gin.Context) {
	raffleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID"})
		return
	}

	numbers, err := h.ledgerService.ListByRaffle(c, raffleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, numbers)
}

// Reserve handles POST /numbers/:id/reserve
func (h *NumberHandler) Reserve(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	numberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid number ID"})
		return
	}

	number, err := h.ledgerService.Reserve(c, caller, numberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"number":     number,
		"expires_at": number.ExpiresAt,
	})
}

// GetDetails handles GET /numbers/:id
func (h *NumberHandler) GetDetails(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	numberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid number ID"})
		return
	}

	details, err := h.ledgerService.GetDetails(c, caller, numberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetMyNumbers handles GET /me/numbers
func (h *NumberHandler) GetMyNumbers(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	numbers, err := h.ledgerService.GetUserNumbers(c, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, numbers)
}
