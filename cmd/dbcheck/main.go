package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv" // .envファイルを読み込むため

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/database"
)

// データベースへの接続確認と high_scores テーブルの作成を行うツールです。
func main() {
	// .envファイルを読み込む (開発環境の場合)
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: Error loading .env file: %v", err)
	}

	databaseURL := config.GetEnv("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("エラー: DATABASE_URL 環境変数が設定されていません。")
	}

	dbService, err := database.NewDatabaseService(databaseURL)
	if err != nil {
		log.Fatalf("エラー: %v", err)
	}
	defer dbService.Close()
	fmt.Println("成功: データベースに正常に接続し、Pingが成功しました！")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var version string
	if err := dbService.DB.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		log.Printf("警告: SELECT version() クエリの実行に失敗しました: %v", err)
	} else {
		fmt.Printf("データベースバージョン: %s\n", version)
	}

	if err := dbService.EnsureSchema(ctx); err != nil {
		log.Fatalf("エラー: %v", err)
	}
	fmt.Println("成功: high_scores テーブルを確認しました。")

	limit := config.GetEnvAsInt("HIGH_SCORE_LIMIT", 10)
	scores, err := database.NewHighScoreRepository(dbService.DB).GetTopHighScores(ctx, limit)
	if err != nil {
		log.Fatalf("エラー: %v", err)
	}
	fmt.Printf("登録済みのハイスコア (上位%d件):\n", limit)
	for _, hs := range scores {
		fmt.Printf("  %2d. %-20s %8d  %s\n", hs.Rank, hs.PlayerName, hs.Score, hs.CreatedAt.Format(time.RFC3339))
	}
}
