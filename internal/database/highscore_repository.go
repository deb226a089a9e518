package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
)

// HighScoreRepository はハイスコア関連のデータベース操作を定義するインターフェースです。
type HighScoreRepository interface {
	// CreateHighScore は新しいハイスコアレコードを作成します
	CreateHighScore(ctx context.Context, playerName string, score int) (*models.HighScore, error)

	// GetTopHighScores は上位N件のハイスコアを取得します（同点の場合は先に登録された方が上位）
	GetTopHighScores(ctx context.Context, limit int) ([]models.HighScoreResponse, error)

	// DeleteAllHighScores は全てのハイスコアを削除します
	DeleteAllHighScores(ctx context.Context) error
}

// highScoreRepositoryImpl はHighScoreRepositoryインターフェースのPostgreSQL実装です。
type highScoreRepositoryImpl struct {
	db *sql.DB
}

// NewHighScoreRepository はHighScoreRepositoryの新しいインスタンスを作成します。
func NewHighScoreRepository(db *sql.DB) HighScoreRepository {
	return &highScoreRepositoryImpl{db: db}
}

// CreateHighScore は新しいハイスコアレコードを作成します。
func (r *highScoreRepositoryImpl) CreateHighScore(ctx context.Context, playerName string, score int) (*models.HighScore, error) {
	now := time.Now().UTC()
	var id int64

	err := r.db.QueryRowContext(ctx,
		"INSERT INTO high_scores (player_name, score, created_at) VALUES ($1, $2, $3) RETURNING id",
		playerName, score, now,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("ハイスコアレコードの作成に失敗しました: %w", err)
	}

	return &models.HighScore{
		ID:         id,
		PlayerName: playerName,
		Score:      score,
		CreatedAt:  now,
	}, nil
}

// GetTopHighScores は上位N件のハイスコアを取得します（ランキング用）。
func (r *highScoreRepositoryImpl) GetTopHighScores(ctx context.Context, limit int) ([]models.HighScoreResponse, error) {
	query := `
		SELECT
			id, player_name, score, created_at,
			ROW_NUMBER() OVER (ORDER BY score DESC, created_at ASC, id ASC) as rank
		FROM high_scores
		ORDER BY score DESC, created_at ASC, id ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ハイスコア取得に失敗しました: %w", err)
	}
	defer rows.Close()

	results := []models.HighScoreResponse{}
	for rows.Next() {
		var result models.HighScoreResponse
		if err := rows.Scan(&result.ID, &result.PlayerName, &result.Score, &result.CreatedAt, &result.Rank); err != nil {
			return nil, fmt.Errorf("ハイスコアデータのスキャンに失敗しました: %w", err)
		}
		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ハイスコア取得中にエラーが発生しました: %w", err)
	}

	return results, nil
}

// DeleteAllHighScores は全てのハイスコアを削除します。
func (r *highScoreRepositoryImpl) DeleteAllHighScores(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM high_scores"); err != nil {
		return fmt.Errorf("ハイスコアの削除に失敗しました: %w", err)
	}
	return nil
}
