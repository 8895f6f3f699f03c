package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/mw"
	"hotel-booking-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, svc *booking.Service, serverCfg config.ServerConfig, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, svc, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(serverCfg.RateLimitPerSec), serverCfg.RateLimitBurst)

	// Cached GETs share one store; writes do not invalidate it, so the TTL
	// is kept short.
	ttl := time.Duration(serverCfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/bookings", handler.CreateBooking)
		api.POST("/bookings/:booking_id/cancel", handler.CancelBooking)
		api.POST("/bookings/:booking_id/check-in", handler.CheckIn)
		api.POST("/bookings/:booking_id/check-out", handler.CheckOut)
		api.GET("/bookings/:booking_id", handler.GetBooking)
		api.GET("/bookings", handler.GetBookingsByEmail)

		api.GET("/hotels", caching, handler.GetHotels)
		api.GET("/hotels/:hotel_id/room-types", caching, handler.GetRoomTypes)
		api.GET("/hotels/:hotel_id/bookings", handler.GetHotelBookings)
		api.GET("/hotels/:hotel_id/stats", caching, handler.GetDashboardStats)

		// Availability is the booking-flow probe; it is never cached so a
		// guest always sees the current ledger.
		api.GET("/availability", handler.GetAvailability)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
