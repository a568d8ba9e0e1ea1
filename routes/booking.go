package routes

import (
	"agendei/handlers"
	"agendei/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler, providerHandler *handlers.ProviderHandler) {
	booking := r.Group("/api/booking")
	booking.Use(middleware.JWTAuthMiddleware())
	{
		booking.GET("/providers", providerHandler.GetProviders)

		booking.POST("/session", bookingHandler.StartSession)
		booking.GET("/session/:sessionID", bookingHandler.GetSession)
		booking.PUT("/session/:sessionID/provider", bookingHandler.SelectProvider)
		booking.PUT("/session/:sessionID/date", bookingHandler.SelectDate)
		booking.PUT("/session/:sessionID/hour", bookingHandler.SelectHour)
		booking.POST("/session/:sessionID/confirm", bookingHandler.Confirm)
		booking.DELETE("/session/:sessionID", bookingHandler.CancelSession)
	}
}
