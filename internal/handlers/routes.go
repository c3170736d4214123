package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"jariyah/internal/middleware"
	"jariyah/internal/service"
	ws "jariyah/internal/websocket"
	"jariyah/internal/zakat"
)

// Deps is what the router needs to build its handlers.
type Deps struct {
	Service        *service.DonorService
	Hub            *ws.Hub
	ZakatRates     zakat.Rates
	RequestTimeout time.Duration
	CORSOrigins    []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}
	cfg.AddAllowHeaders(IdempotencyHeader)
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter wires every route of the API.
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	charityHandler := NewCharityHandler(d.Service)
	profileHandler := NewProfileHandler(d.Service)
	donationHandler := NewDonationHandler(d.Service)
	zakatHandler := NewZakatHandler(d.ZakatRates)
	wsHandler := NewWebSocketHandler(d.Hub)

	// All API routes under /api
	api := r.Group("/api")
	api.Use(middleware.RequestTimeout(d.RequestTimeout))
	{
		api.GET("/charities", charityHandler.ListCharities)
		api.GET("/charities/:id", charityHandler.GetCharity)

		profile := api.Group("/profile/:userId")
		profile.Use(middleware.RequireUserID())
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PATCH("", profileHandler.UpdateProfile)
			profile.GET("/dashboard", profileHandler.Dashboard)
			profile.GET("/recommendations", profileHandler.Recommendations)
			profile.GET("/donations", donationHandler.ListDonations)
			profile.POST("/donations", donationHandler.CreateDonation)
			profile.POST("/checkout", donationHandler.CreateCheckout)
		}

		api.POST("/webhook/payment", donationHandler.HandlePaymentNotification)
		api.POST("/zakat", zakatHandler.Calculate)
	}

	r.GET("/ws/:userId", middleware.RequireUserID(), wsHandler.ServeWs)
	return r
}
