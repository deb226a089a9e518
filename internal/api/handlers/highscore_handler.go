package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/highscore"
)

// HighScoreHandler はハイスコア関連のハンドラーを管理する構造体です。
type HighScoreHandler struct {
	manager *highscore.Manager
}

// NewHighScoreHandler は新しいHighScoreHandlerインスタンスを作成します。
func NewHighScoreHandler(manager *highscore.Manager) *HighScoreHandler {
	return &HighScoreHandler{
		manager: manager,
	}
}

// GetHighScores は上位ランキングを取得するハンドラーです。
// GET /api/highscores
func (h *HighScoreHandler) GetHighScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.manager.Top(r.Context())
	if err != nil {
		log.Printf("[HighScoreHandler] ハイスコア取得エラー: %v", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ハイスコア取得に失敗しました")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"limit":       h.manager.Limit(),
		"high_scores": scores,
	})
}

// PostHighScore はスコアを登録するハンドラーです。ランキング外のスコアは保存されません。
// POST /api/highscores
func (h *HighScoreHandler) PostHighScore(w http.ResponseWriter, r *http.Request) {
	var req models.HighScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "無効なリクエストボディです")
		return
	}

	submission, err := h.manager.Submit(r.Context(), req.PlayerName, req.Score)
	if err != nil {
		if errors.Is(err, highscore.ErrInvalidHighScore) {
			WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[HighScoreHandler] スコア保存エラー: %v", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "スコア保存に失敗しました")
		return
	}

	status := http.StatusOK
	if submission.Qualified {
		status = http.StatusCreated
	}
	WriteJSONResponse(w, status, map[string]interface{}{
		"success":    true,
		"submission": submission,
	})
}

// ClearHighScores は全てのハイスコアを削除するハンドラーです。
// DELETE /api/highscores
func (h *HighScoreHandler) ClearHighScores(w http.ResponseWriter, r *http.Request) {
	userID, _ := ExtractUserIDFromContext(r)
	if err := h.manager.Clear(r.Context()); err != nil {
		log.Printf("[HighScoreHandler] ハイスコア削除エラー: %v", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ハイスコアの削除に失敗しました")
		return
	}
	log.Printf("[HighScoreHandler] ユーザー %s がハイスコアを削除しました", userID)

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"success": true})
}
