package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/config"
	"campus-arcade-backend/internal/handlers"
	"campus-arcade-backend/internal/middleware"
	"campus-arcade-backend/internal/rng"
	"campus-arcade-backend/internal/services"
	"campus-arcade-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	st, err := store.NewRedis(&store.RedisConfig{Client: client})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	clk := clock.Default{}
	random := rng.New(&rng.Config{})

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	wsHandler := handlers.NewWebSocketHandler()

	ledger := services.NewLedger(st, clk)
	auth := services.NewAuth(st, jwtService, clk, cfg.SessionTTL)
	coinflip := services.NewCoinflip(ledger, st, random, clk)
	tower := services.NewTower(ledger, st, random, clk)
	duels := services.NewDuelManager(ledger, st, clk, wsHandler)
	lottery := services.NewLottery(ledger, st, clk, random, wsHandler)
	shop := services.NewShop(ledger, st, clk)
	admin := services.NewAdmin(ledger, st)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				duels.Sweep(ctx)
				lottery.Sweep(ctx)
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(auth)
	userHandler := handlers.NewUserHandler(auth, st)
	tokenHandler := handlers.NewTokenHandler(ledger, st)
	gameHandler := handlers.NewGameHandler(coinflip, tower)
	duelHandler := handlers.NewDuelHandler(duels)
	lotteryHandler := handlers.NewLotteryHandler(lottery)
	shopHandler := handlers.NewShopHandler(shop)
	adminHandler := handlers.NewAdminHandler(admin)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.POST("/logout", userHandler.Logout)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		tokens := protected.Group("/tokens")
		{
			tokens.GET("/balance", tokenHandler.Balance)
			tokens.GET("/history", tokenHandler.History)
			tokens.POST("/send", tokenHandler.Send)
		}

		protected.GET("/leaderboard", tokenHandler.Leaderboard)

		games := protected.Group("/games")
		{
			games.POST("/coinflip", gameHandler.PlayCoinflip)
			games.GET("/coinflip/top_wins", gameHandler.CoinflipTopWins)

			towerGroup := games.Group("/tower")
			{
				towerGroup.POST("/start", gameHandler.StartTower)
				towerGroup.POST("/select", gameHandler.SelectTowerTile)
				towerGroup.POST("/cashout", gameHandler.CashOutTower)
				towerGroup.GET("/recent_wins", gameHandler.TowerRecentWins)
			}
		}

		duel := protected.Group("/duel")
		{
			duel.POST("/invite", duelHandler.Invite)
			duel.POST("/accept", duelHandler.Accept)
			duel.POST("/decline", duelHandler.Decline)
			duel.POST("/move", duelHandler.Move)
			duel.GET("/state", duelHandler.State)
		}

		protected.GET("/lottery", lotteryHandler.Status)
		protected.POST("/lottery/tickets", lotteryHandler.BuyTickets)

		shopGroup := protected.Group("/shop")
		{
			shopGroup.GET("/ranks", shopHandler.ListRanks)
			shopGroup.POST("/ranks/purchase", shopHandler.PurchaseRank)
			shopGroup.GET("/rank_pass", shopHandler.RankPassStatus)
			shopGroup.POST("/rank_pass/claim", shopHandler.ClaimRankPass)
		}

		// Ambassadors run community events; full moderation stays admin-only.
		panel := protected.Group("/panel")
		panel.Use(middleware.RequirePanel())
		{
			panel.POST("/lottery", lotteryHandler.Create)
			panel.POST("/lottery/end", lotteryHandler.End)
			panel.POST("/lottery/cancel", lotteryHandler.Cancel)
		}

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.RequireAdmin())
		{
			adminGroup.POST("/accounts/:username/tokens", adminHandler.AdjustTokens)
			adminGroup.POST("/accounts/:username/ban", adminHandler.Ban)
			adminGroup.POST("/accounts/:username/unban", adminHandler.Unban)
			adminGroup.POST("/accounts/:username/role", adminHandler.SetRole)
			adminGroup.GET("/ledger", adminHandler.AuditLog)
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
