package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
)

// MemoryHighScoreRepository はプロセス内にハイスコアを保持する HighScoreRepository です。
// DATABASE_URL が未設定の場合やターミナル版クライアントで使用します。
type MemoryHighScoreRepository struct {
	mu     sync.RWMutex
	nextID int64
	scores []models.HighScore
	now    func() time.Time
}

// NewMemoryHighScoreRepository は空のリポジトリを作成します。
func NewMemoryHighScoreRepository() *MemoryHighScoreRepository {
	return &MemoryHighScoreRepository{now: time.Now}
}

func (r *MemoryHighScoreRepository) CreateHighScore(_ context.Context, playerName string, score int) (*models.HighScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	hs := models.HighScore{
		ID:         r.nextID,
		PlayerName: playerName,
		Score:      score,
		CreatedAt:  r.now().UTC(),
	}
	r.scores = append(r.scores, hs)
	return &hs, nil
}

func (r *MemoryHighScoreRepository) GetTopHighScores(_ context.Context, limit int) ([]models.HighScoreResponse, error) {
	r.mu.RLock()
	sorted := append([]models.HighScore(nil), r.scores...)
	r.mu.RUnlock()

	// 登録順に並んでいるため、安定ソートで同点は先に登録された方が上位になる
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	results := make([]models.HighScoreResponse, 0, len(sorted))
	for i, hs := range sorted {
		results = append(results, models.HighScoreResponse{
			ID:         hs.ID,
			PlayerName: hs.PlayerName,
			Score:      hs.Score,
			CreatedAt:  hs.CreatedAt,
			Rank:       i + 1,
		})
	}
	return results, nil
}

func (r *MemoryHighScoreRepository) DeleteAllHighScores(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = nil
	return nil
}
