package handlers

import (
	"agendei/models"

	"github.com/gin-gonic/gin"
)

// getAuthContext returns the AuthContext the auth middleware stored on
// the request, or a zero value when the route is unauthenticated.
func getAuthContext(c *gin.Context) models.AuthContext {
	if v, exists := c.Get("authContext"); exists {
		if auth, ok := v.(models.AuthContext); ok {
			return auth
		}
	}
	return models.AuthContext{}
}
