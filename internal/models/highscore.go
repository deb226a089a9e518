package models

import (
	"time"
)

// HighScore はhigh_scoresテーブルのレコードに対応する構造体です。
type HighScore struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// HighScoreResponse はAPI レスポンス用の構造体です。
type HighScoreResponse struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	Rank       int       `json:"rank"` // ランキング順位
}

// HighScoreRequest はハイスコア登録リクエスト用の構造体です。
type HighScoreRequest struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

// HighScoreSubmission はハイスコア登録の結果です。
// Qualified が false の場合、スコアはランキングに入らなかったため保存されていません。
type HighScoreSubmission struct {
	Qualified bool       `json:"qualified"`
	HighScore *HighScore `json:"high_score,omitempty"`
	Rank      int        `json:"rank,omitempty"`
}
