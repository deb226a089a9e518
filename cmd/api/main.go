package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/api/handlers"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/highscore"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("warning: Error loading .env file (this is fine in production): %v", err)
		}
	}
	cfg := config.LoadConfig()

	ctx := context.Background()

	// ハイスコアの保存先。DATABASE_URL が未設定の場合はメモリ上に保存する
	var repo database.HighScoreRepository
	if cfg.DatabaseURL != "" {
		dbService, err := database.NewDatabaseService(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("データベースの初期化に失敗しました: %v", err)
		}
		defer dbService.Close()
		if err := dbService.EnsureSchema(ctx); err != nil {
			log.Fatalf("スキーマの作成に失敗しました: %v", err)
		}
		repo = database.NewHighScoreRepository(dbService.DB)
	} else {
		log.Println("warning: DATABASE_URL が未設定のため、ハイスコアはメモリ上にのみ保存されます")
		repo = database.NewMemoryHighScoreRepository()
	}

	var cache highscore.Cache
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if lc := database.ConnectLeaderboardCache(pingCtx, cfg.RedisURL, cfg.RedisPassword); lc != nil {
			defer lc.Close()
			cache = lc
		}
		cancel()
	}

	highScores := highscore.NewManager(repo, cache, cfg.HighScoreLimit)
	sessionManager := tetris.NewSessionManager(highScores, cfg.BoardWidth, cfg.BoardHeight)

	highScoreHandler := handlers.NewHighScoreHandler(highScores)
	gameHandler := handlers.NewGameHandler(sessionManager, cfg.AllowedOrigins)
	auth := middleware.AuthMiddleware(cfg.JWTSecret, cfg.BypassAuth)

	r := mux.NewRouter()
	// 認証不要な公開エンドポイント
	r.HandleFunc("/api/health", handlers.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/highscores", highScoreHandler.GetHighScores).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions", gameHandler.GetSessionStatus).Methods(http.MethodGet)
	r.HandleFunc("/ws/play", gameHandler.PlayWebSocket)

	// スコアの登録と削除には認証が必要
	protectedRouter := r.PathPrefix("/api/highscores").Subrouter()
	protectedRouter.Use(auth)
	protectedRouter.HandleFunc("", highScoreHandler.PostHighScore).Methods(http.MethodPost)
	protectedRouter.HandleFunc("", highScoreHandler.ClearHighScores).Methods(http.MethodDelete)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORSHandler(cfg.AllowedOrigins)(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("サーバーの起動に失敗しました: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("シャットダウンしています...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("サーバーのシャットダウンに失敗しました: %v", err)
	}
	sessionManager.Shutdown()
}
