package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq" // PostgreSQLドライバー
)

// highScoresSchema は high_scores テーブルの定義です。
const highScoresSchema = `
CREATE TABLE IF NOT EXISTS high_scores (
	id          BIGSERIAL PRIMARY KEY,
	player_name TEXT        NOT NULL,
	score       INTEGER     NOT NULL CHECK (score >= 0),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS high_scores_ranking_idx ON high_scores (score DESC, created_at ASC);
`

// DatabaseService provides methods for interacting with the database.
type DatabaseService struct {
	DB *sql.DB
}

// NewDatabaseService creates a new instance of DatabaseService and establishes a database connection.
func NewDatabaseService(databaseURL string) (*DatabaseService, error) {
	log.Printf("[Database] 接続を試行中: URLの最初の50文字: %s...", databaseURL[:min(len(databaseURL), 50)])
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Printf("[Database] Error: sql.Openに失敗しました: %v", err)
		return nil, fmt.Errorf("データベースへの接続オブジェクト作成に失敗しました: %w", err)
	}

	// データベース接続の確認 (Ping)
	if err := db.Ping(); err != nil {
		log.Printf("[Database] Error: db.Pingに失敗しました: %v", err)
		db.Close()
		return nil, fmt.Errorf("データベースのPingに失敗しました。接続情報やネットワークを確認してください: %w", err)
	}

	log.Println("[Database] データベースに正常に接続しました。")
	return &DatabaseService{DB: db}, nil
}

// EnsureSchema はハイスコア用のテーブルが存在しなければ作成します。
func (s *DatabaseService) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, highScoresSchema); err != nil {
		return fmt.Errorf("high_scores テーブルの作成に失敗しました: %w", err)
	}
	return nil
}

// Close はデータベース接続を閉じます。
func (s *DatabaseService) Close() error {
	return s.DB.Close()
}
