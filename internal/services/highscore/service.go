package highscore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
)

const (
	DefaultLimit        = 10 // ランキングに残す件数
	MaxPlayerNameLength = 32 // プレイヤー名の最大文字数
)

// ErrInvalidHighScore は登録内容が不正な場合のエラーです。
var ErrInvalidHighScore = errors.New("ハイスコアの登録内容が不正です")

// Cache は上位一覧のキャッシュです。*database.LeaderboardCache が実装します。
type Cache interface {
	Get(ctx context.Context) ([]models.HighScoreResponse, bool)
	Set(ctx context.Context, scores []models.HighScoreResponse)
	Invalidate(ctx context.Context)
}

// Manager は上位N件のハイスコア一覧を管理します。
// 一覧に入らないスコアは保存しません。
type Manager struct {
	repo  database.HighScoreRepository
	cache Cache
	limit int
}

// NewManager は新しい Manager を作成します。
//
// Parameters:
//   repo  : ハイスコアの保存先
//   cache : 上位一覧のキャッシュ（nil の場合は使用しない）
//   limit : ランキングの件数（0以下の場合は DefaultLimit）
// Returns:
//   *Manager: 作成された Manager
func NewManager(repo database.HighScoreRepository, cache Cache, limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{repo: repo, cache: cache, limit: limit}
}

// Limit はランキングの件数を返します。
func (m *Manager) Limit() int { return m.limit }

// Top はスコアの降順（同点は先に登録された方が上位）で上位一覧を返します。
func (m *Manager) Top(ctx context.Context) ([]models.HighScoreResponse, error) {
	if m.cache != nil {
		if scores, ok := m.cache.Get(ctx); ok {
			return scores, nil
		}
	}

	scores, err := m.repo.GetTopHighScores(ctx, m.limit)
	if err != nil {
		return nil, fmt.Errorf("ハイスコア一覧の取得に失敗しました: %w", err)
	}
	if m.cache != nil {
		m.cache.Set(ctx, scores)
	}
	return scores, nil
}

// Submit はスコアを登録します。ランキングが埋まっている場合は最下位より高いスコアのみ登録されます。
//
// Parameters:
//   ctx        : コンテキスト
//   playerName : プレイヤー名（前後の空白は除去される）
//   score      : 最終スコア
// Returns:
//   *models.HighScoreSubmission: 登録結果（ランキング外の場合は Qualified が false）
//   error: 入力が不正な場合は ErrInvalidHighScore
func (m *Manager) Submit(ctx context.Context, playerName string, score int) (*models.HighScoreSubmission, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return nil, fmt.Errorf("%w: プレイヤー名が空です", ErrInvalidHighScore)
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return nil, fmt.Errorf("%w: プレイヤー名は%d文字以内にしてください", ErrInvalidHighScore, MaxPlayerNameLength)
	}
	if score < 0 {
		return nil, fmt.Errorf("%w: スコアが負の値です (%d)", ErrInvalidHighScore, score)
	}

	top, err := m.repo.GetTopHighScores(ctx, m.limit)
	if err != nil {
		return nil, fmt.Errorf("ハイスコア一覧の取得に失敗しました: %w", err)
	}
	if len(top) >= m.limit && score <= top[len(top)-1].Score {
		log.Printf("[HighScore] %s のスコア %d はランキング外です", name, score)
		return &models.HighScoreSubmission{Qualified: false}, nil
	}

	hs, err := m.repo.CreateHighScore(ctx, name, score)
	if err != nil {
		return nil, fmt.Errorf("ハイスコアの保存に失敗しました: %w", err)
	}
	if m.cache != nil {
		m.cache.Invalidate(ctx)
	}

	// 同点の既存スコアは先に登録されているため上位になる
	rank := 1
	for _, entry := range top {
		if entry.Score >= score {
			rank++
		}
	}
	log.Printf("[HighScore] %s のスコア %d を %d 位で登録しました", name, score, rank)
	return &models.HighScoreSubmission{Qualified: true, HighScore: hs, Rank: rank}, nil
}

// Clear は全てのハイスコアを削除します。
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.repo.DeleteAllHighScores(ctx); err != nil {
		return fmt.Errorf("ハイスコアの削除に失敗しました: %w", err)
	}
	if m.cache != nil {
		m.cache.Invalidate(ctx)
	}
	log.Println("[HighScore] ハイスコアを全て削除しました")
	return nil
}
