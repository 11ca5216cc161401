package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"crmdashboard/internal/services"
)

type ExpertiseHandler struct {
	Service *services.ExpertiseService
}

func NewExpertiseHandler(service *services.ExpertiseService) *ExpertiseHandler {
	return &ExpertiseHandler{Service: service}
}

func (h *ExpertiseHandler) Get(c *gin.Context) {
	data, err := h.Service.Get(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("fetch expertise failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// Replace overwrites the whole expertise collection with the request body.
// Numbers are kept as json.Number so they are stored with their original text.
func (h *ExpertiseHandler) Replace(c *gin.Context) {
	var body map[string]interface{}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object"})
		return
	}

	if err := h.Service.Replace(c.Request.Context(), body); err != nil {
		log.Error().Err(err).Int("entries", len(body)).Msg("replace expertise failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Info().Int("entries", len(body)).Msg("expertise replaced")
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
