package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yesbharath/spinwheel-backend/internal/config"
	"github.com/yesbharath/spinwheel-backend/internal/handlers"
	"github.com/yesbharath/spinwheel-backend/internal/middleware"
	"github.com/yesbharath/spinwheel-backend/internal/services"
	"github.com/yesbharath/spinwheel-backend/pkg/session"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth        *handlers.AuthHandler
	Spin        *handlers.SpinHandler
	Participant *handlers.ParticipantHandler
	Admin       *handlers.AdminHandler
	WinnerStory *handlers.WinnerStoryHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers, tokens *session.TokenService, authService *services.AuthService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Health check and metrics
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/send-otp", h.Auth.SendOTP)
			auth.POST("/verify-otp", h.Auth.VerifyOTP)
			auth.POST("/logout", h.Auth.Logout)
		}
		public.GET("/winner-stories", h.WinnerStory.List)
	}

	// Participant routes (session cookie)
	participant := router.Group("/api")
	participant.Use(middleware.SessionAuthMiddleware(tokens, cfg.Session.CookieName))
	{
		participant.POST("/spin", h.Spin.Spin)
		me := participant.Group("/participant")
		{
			me.GET("/check", h.Participant.Check)
			me.POST("/agree-terms", h.Participant.AgreeTerms)
			me.POST("/update-profile", h.Participant.UpdateProfile)
		}
	}

	// Admin panel routes (Bearer token)
	router.POST("/api/admin/login", h.Admin.Login)

	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuthMiddleware(authService))
	{
		admin.POST("/logout", h.Admin.Logout)
		admin.GET("/contest", h.Admin.Stats)
		admin.PUT("/contest/prizes/:tierId", h.Admin.SetPrizeQuantity)
		admin.GET("/participants", h.Admin.ListParticipants)
		admin.PUT("/participants/:id/block", h.Admin.BlockParticipant)
		admin.DELETE("/participants/:id", h.Admin.DeleteParticipant)
		admin.GET("/redeem", h.Admin.ListRedeems)
		admin.PUT("/redeem", h.Admin.UpdateRedeem)
		admin.POST("/winner-stories", h.WinnerStory.Add)
		admin.DELETE("/winner-stories/:id", h.WinnerStory.Remove)

		// Destructive operations require the developer role
		admin.POST("/reset", middleware.RequireRole("developer"), h.Admin.Reset)
	}

	return router
}
