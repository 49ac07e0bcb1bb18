package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mangarec/internal/auth"
	"mangarec/internal/catalog"
	"mangarec/internal/genres"
	"mangarec/internal/model"
	"mangarec/internal/notify"
	"mangarec/internal/recommend"
	"mangarec/internal/weights"
	"mangarec/pkg/database"
	"mangarec/pkg/utils"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	recCfg := utils.LoadRecommenderConfig()
	blacklist := genres.DefaultBlacklist()

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := notify.NewHub()
	router.GET("/ws", notify.WSHandler(hub, log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": hub.Count(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": hub.Count(),
		})
	})

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Catalog
	catalogRepo := catalog.NewRepo(db)
	catalogHandler := catalog.NewHandler(catalogRepo, hub)
	catalogHandler.RegisterRoutes(router.Group("/manga"))

	// Weights
	weightStore := weights.NewStore(db)
	weightHandler := weights.NewHandler(weightStore, hub)
	weightHandler.RegisterRoutes(router.Group("/weights"))

	// Recommendations
	heuristic := recommend.NewHeuristicRanker(recCfg.LikeThreshold, recCfg.ResultLimit, blacklist)
	trainer := recommend.NewTrainer(recCfg.HoldoutFraction, recCfg.ExpectedModelVersion, log)
	recHandler := recommend.NewHandler(catalogRepo, weightStore, heuristic, trainer, hub, recCfg, log)
	recHandler.RegisterRoutes(router.Group("/recommendations"))

	// A missing or stale model artifact is fine; the heuristic path still
	// serves and training can rebuild it.
	if nb, err := model.Load(recCfg.ModelPath); err == nil {
		ranker := recommend.NewRanker(nb, recCfg.PredictBatchSize, blacklist, log)
		ranker.CheckVersion(recCfg.ExpectedModelVersion)
		recHandler.SetRanker(ranker)
		log.Info().Str("path", recCfg.ModelPath).Str("version", nb.Version()).Msg("model loaded")
	} else {
		log.Info().Err(err).Msg("no trained model, supervised ranking disabled until /recommendations/train")
	}

	// Protected (auth-gated) mutations
	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware(tokenSvc))
	catalogHandler.RegisterProtected(protected.Group("manga"))
	weightHandler.RegisterProtected(protected.Group("weights"))
	recHandler.RegisterProtected(protected.Group("recommendations"))

	httpSrv := &http.Server{
		Addr:    listenAddr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	log.Info().Msg("server stopped")
}

func listenAddr() string {
	if addr := os.Getenv("MANGAREC_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}
