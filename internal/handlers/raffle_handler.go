package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rifas-el-negro/raffle-backend/internal/models"
	"github.com/rifas-el-negro/raffle-backend/internal/services"
)

// RaffleHandler handles raffle catalog HTTP requests
type RaffleHandler struct {
	raffleService services.RaffleService
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService services.RaffleService) *RaffleHandler {
	return &RaffleHandler{raffleService: raffleService}
}

// ListActive handles GET /raffles/active
func (h *RaffleHandler) ListActive(c *gin.Context) {
	raffles, err := h.raffleService.ListActive(c)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, raffles)
}

// ListAll handles GET /admin/raffles
func (h *RaffleHandler) ListAll(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	raffles, err := h.raffleService.ListAll(c, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"raffles": raffles})
}

// Create handles POST /admin/raffles
func (h *RaffleHandler) Create(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	var req models.CreateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffle, err := h.raffleService.Create(c, caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, raffle)
}
