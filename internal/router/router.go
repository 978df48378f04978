// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/config"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/handler"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/middleware"
)

// Handlers bundles every handler the API mounts so Register takes one
// argument instead of a parade.
type Handlers struct {
	Auth    *handler.AuthHandler
	Browse  *handler.BrowseHandler
	Booking *handler.BookingHandler
	Rating  *handler.RatingHandler
	Points  *handler.PointsHandler
	Admin   *handler.AdminHandler
	Library *handler.LibraryHandler // nil when the integration is disabled
}

// Register mounts all routes.  /healthz, /api/register and /api/login are
// open; everything else sits behind the JWT middleware.  The admin wipe
// endpoint is only mounted in dev, and the library proxy only when its
// handler was constructed.
func Register(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	auth := api.Group("")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))

	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/user/profile", h.Auth.Profile)
	auth.PUT("/user/profile", h.Auth.UpdateProfile)

	auth.GET("/study-rooms", h.Browse.ListRooms)
	auth.GET("/seats", h.Browse.ListSeats)

	auth.POST("/bookings", h.Booking.Create)
	auth.GET("/bookings", h.Booking.List)
	auth.PUT("/bookings/:id/cancel", h.Booking.Cancel)
	auth.PUT("/bookings/:id/checkin", h.Booking.CheckIn)

	auth.POST("/user/rating", h.Rating.Submit)
	auth.GET("/user/ratings", h.Rating.List)
	auth.GET("/ratings/stats", h.Rating.Stats)
	auth.GET("/ratings/tags", h.Rating.Tags)

	auth.GET("/user/points", h.Points.Balance)
	auth.GET("/user/points/level", h.Points.Level)
	auth.GET("/user/points/history", h.Points.History)
	auth.GET("/points/rules", h.Points.Rules)
	auth.POST("/user/points/adjust", h.Points.Adjust)

	if cfg.Env == "dev" && h.Admin != nil {
		auth.DELETE("/admin/clear-data", h.Admin.ClearData)
	}

	if h.Library != nil {
		lib := auth.Group("/library")
		lib.GET("/seats", h.Library.Seats)
		lib.GET("/seats/:id/availability", h.Library.SeatAvailability)
		lib.GET("/rooms", h.Library.Rooms)
		lib.POST("/bookings", h.Library.CreateBooking)
		lib.PUT("/bookings/:id/cancel", h.Library.CancelBooking)
		lib.GET("/bookings/history", h.Library.BookingHistory)
	}
}
