package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"crmdashboard/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

func (h *ReportHandler) GetSummary(c *gin.Context) {
	data, err := h.Service.GetSummary(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("deal summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *ReportHandler) DownloadPDF(c *gin.Context) {
	body, err := h.Service.RenderPDF(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("deal report failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `inline; filename="deals-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", body)
}
