package routes

import (
	"time"

	"providerhub/handlers"
	"providerhub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the admin booking list and lifecycle actions.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.AdminAuthMiddleware(hb.Resolver))
		api.GET("", hb.ListBookings)
		api.POST("/:id/assign", hb.AssignBooking)
		api.PUT("/:id/confirm", hb.ConfirmBooking)
		api.POST("/:id/cancel", hb.CancelBooking)
		api.GET("/:id/events", hb.BookingEvents)
	}
}

// RegisterChatRoutes registers the channel between the caller and a user.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat/:userId")
	{
		api.Use(middleware.AdminAuthMiddleware(hb.Resolver))
		api.POST("/messages", hb.SendMessage)
		api.GET("/messages", hb.GetHistory)
		api.GET("/stream", hb.StreamChannel)
	}
}

// RegisterAdminRoutes registers enrolment and profile endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		// Enrolment only needs a verified token, not an existing admin.
		api.POST("/enroll", hb.EnrollAdmin)

		me := api.Group("/me")
		me.Use(middleware.AdminAuthMiddleware(hb.Resolver))
		me.GET("", hb.GetMe)
		me.PUT("", hb.UpdateMe)
		me.PUT("/photo", hb.UploadPhoto)
		me.DELETE("/photo", hb.RemovePhoto)
	}
}

// RegisterLocationRoutes registers the map picker lookups.
func RegisterLocationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/location")
	{
		api.Use(middleware.AdminAuthMiddleware(hb.Resolver))
		api.GET("/reverse", hb.ReverseGeocode)
		api.GET("/search", hb.SearchLocation)
	}
}

// RegisterIntakeRoutes registers the service-to-service booking intake.
func RegisterIntakeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/intake")
	{
		api.Use(middleware.IntakeAuthMiddleware(hb.IntakeToken))
		api.POST("/bookings", hb.IntakeBooking)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterLocationRoutes(r, hb)
	RegisterIntakeRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
