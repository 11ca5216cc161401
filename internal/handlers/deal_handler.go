package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"crmdashboard/internal/models"
	"crmdashboard/internal/services"
)

type DealHandler struct {
	Service *services.DealService
}

func NewDealHandler(service *services.DealService) *DealHandler {
	return &DealHandler{Service: service}
}

// List serves GET /api/deals.
func (h *DealHandler) List(c *gin.Context) {
	deals, err := h.Service.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("fetch deals failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.DealsResponse{Deals: deals})
}
