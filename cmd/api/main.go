package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Xploreicon/timebankng/internal/admin"
	"github.com/Xploreicon/timebankng/internal/alerts"
	"github.com/Xploreicon/timebankng/internal/auth"
	"github.com/Xploreicon/timebankng/internal/category"
	"github.com/Xploreicon/timebankng/internal/credits"
	"github.com/Xploreicon/timebankng/internal/db"
	"github.com/Xploreicon/timebankng/internal/exchange"
	"github.com/Xploreicon/timebankng/internal/matching"
	"github.com/Xploreicon/timebankng/internal/messaging"
	appmw "github.com/Xploreicon/timebankng/internal/middleware"
	"github.com/Xploreicon/timebankng/internal/trade"
	"github.com/Xploreicon/timebankng/internal/user"
)

func main() {
	_ = godotenv.Load()

	// Init subsystems
	category.Init()
	db.Init()
	alerts.Init()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public auth routes with per-IP rate limiting
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/password/forgot", auth.RequestPasswordReset)
	authGroup.POST("/password/reset", auth.ResetPassword)
	authGroup.POST("/bootstrap_admin", auth.BootstrapAdmin)

	// Public discovery
	e.GET("/categories", category.List)
	e.GET("/exchange/compute", exchange.ComputeHandler)
	e.GET("/offerings", trade.GetAllOfferings)
	e.GET("/user/:id/profile", user.GetPublicProfile)

	// Authenticated group
	g := e.Group("")
	g.Use(appmw.JWTMiddleware)

	// Me and profile update
	g.GET("/me", auth.Me)
	g.PATCH("/user/profile", user.UpdateProfile)

	// Offerings
	g.POST("/offerings", trade.CreateOffering)
	g.GET("/offerings/me", trade.GetUserOfferings)

	// Matching
	g.POST("/intents", trade.CreateIntent)
	g.GET("/intents", trade.GetMyIntents)
	g.DELETE("/intents/:id", trade.CancelIntent)
	g.GET("/matches/discover", matching.Discover)
	g.POST("/matches/score", matching.ScoreMatch)

	// Trade loops
	g.POST("/loops", trade.CreateLoop)
	g.GET("/loops", trade.GetMyLoops)
	g.GET("/loops/:id", trade.GetLoop)
	g.POST("/loops/:id/accept", trade.AcceptLoop)
	g.POST("/loops/:id/decline", trade.DeclineLoop)
	g.POST("/loops/:id/deliver", trade.DeliverLoop)
	g.POST("/loops/:id/reviews", trade.CreateReview)
	g.GET("/loops/:id/reviews", trade.GetLoopReviews)

	// Loop thread
	g.GET("/loops/:id/ws", messaging.LoopWS)
	g.POST("/loops/:id/messages", messaging.SendLoopMessage)
	g.GET("/loops/:id/messages", messaging.ListLoopMessages)

	// Credits
	g.GET("/credits/balance", credits.Balance)
	g.GET("/credits/transactions", credits.GetUserTransactions)

	// Notifications
	g.GET("/notifications", alerts.ListNotifications)
	g.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(appmw.JWTMiddleware)
	adminGroup.Use(appmw.AdminGuard)
	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.POST("/users/:id/suspend", admin.SuspendUser)
	adminGroup.POST("/users/:id/activate", admin.ActivateUser)
	adminGroup.POST("/users/:id/verify_business", admin.VerifyBusiness)
	adminGroup.PATCH("/categories/:id/rates", category.UpdateRates)
	adminGroup.GET("/accounts", credits.AdminListAccounts)
	adminGroup.GET("/transactions", credits.AdminGetAllTransactions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("API server listening on :%s", port)
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
