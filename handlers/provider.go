package handlers

import (
	"net/http"

	"agendei/upstream"
	"agendei/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProviderHandler serves the provider list from the upstream API.
type ProviderHandler struct {
	API upstream.ScheduleAPI
}

func NewProviderHandler(api upstream.ScheduleAPI) *ProviderHandler {
	return &ProviderHandler{API: api}
}

// GetProviders returns the ordered provider list.
func (h *ProviderHandler) GetProviders(c *gin.Context) {
	auth := getAuthContext(c)
	providers, err := h.API.ListProviders(c.Request.Context(), auth)
	if err != nil {
		getLogger(c).Error("Failed to retrieve providers", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to get providers", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}
