package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/websocket" // WebSocketライブラリ

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

// defaultPlayerName はプレイヤー名が指定されなかった場合の名前です。
const defaultPlayerName = "ゲスト"

// GameHandler はゲーム関連のHTTPリクエスト（WebSocket接続、セッション状況）を処理します。
type GameHandler struct {
	sessionManager *tetris.SessionManager // ゲームセッションの管理サービス
	upgrader       websocket.Upgrader
}

// NewGameHandler は新しい GameHandler インスタンスを作成します。
//
// Parameters:
//   sm             : セッションマネージャーへのポインタ
//   allowedOrigins : WebSocket接続を許可するOrigin（"*" を含む場合は全て許可）
// Returns:
//   *GameHandler: 新しく作成された GameHandler のポインタ
func NewGameHandler(sm *tetris.SessionManager, allowedOrigins []string) *GameHandler {
	return &GameHandler{
		sessionManager: sm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// ブラウザ以外のクライアントは Origin を送らない
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// WriteErrorResponse はエラーレスポンスをJSON形式で書き込みます。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteJSONResponse はJSONレスポンスを書き込みます。
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// playerNameFromRequest はクエリの name、認証済みユーザーID、既定名の順にプレイヤー名を決めます。
func playerNameFromRequest(r *http.Request) string {
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		return name
	}
	if userID, err := ExtractUserIDFromContext(r); err == nil {
		return userID
	}
	return defaultPlayerName
}

// PlayWebSocket はHTTP接続をWebSocketプロトコルにアップグレードし、新しい1人用ゲームを開始します。
// GET /ws/play?name=<player>
func (h *GameHandler) PlayWebSocket(w http.ResponseWriter, r *http.Request) {
	playerName := playerNameFromRequest(r)

	// HTTP接続をWebSocket接続にアップグレード
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[GameHandler] Failed to upgrade to websocket for player %s: %v", playerName, err)
		return // アップグレード失敗時はエラーレスポンスが書き込み済み
	}

	session, err := h.sessionManager.StartSession(playerName, conn)
	if err != nil {
		log.Printf("[GameHandler] Failed to start session for player %s: %v", playerName, err)
		conn.WriteJSON(tetris.ServerMessage{Type: tetris.MessageError, Payload: "ゲームを開始できませんでした"})
		conn.Close()
		return
	}

	// 読み書きのゴルーチンは StartSession 内で開始されるため、ここでは接続を引き渡すだけ
	log.Printf("[GameHandler] WebSocket upgraded for player %s (session %s).", playerName, session.ID)
}

// GetSessionStatus は現在のセッション数を返すハンドラーです。
// GET /api/sessions
func (h *GameHandler) GetSessionStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, http.StatusOK, map[string]int{"active_sessions": h.sessionManager.SessionCount()})
}
