package tetris

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket" // WebSocketライブラリのインポート

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
)

// クライアントとの間でやり取りするメッセージの種類です。
const (
	MessageState     = "state"      // ゲーム状態のスナップショット
	MessageHighScore = "high_score" // ゲーム終了時のハイスコア登録結果
	MessageError     = "error"      // 不正な入力などの通知

	ActionPause   = "pause"
	ActionResume  = "resume"
	ActionNewGame = "new_game"
	ActionState   = "state" // 現在の状態の再送を要求
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 300 * time.Second
	pingPeriod     = 60 * time.Second
	maxMessageSize = 1024
	sendBufferSize = 256

	highScoreTimeout = 5 * time.Second
)

// ErrSessionNotFound は指定されたセッションが存在しない場合のエラーです。
var ErrSessionNotFound = errors.New("セッションが見つかりません")

// HighScoreRecorder はゲーム終了時の最終スコアを登録する先です。
type HighScoreRecorder interface {
	Submit(ctx context.Context, playerName string, score int) (*models.HighScoreSubmission, error)
}

// PlayerInputEvent はクライアントから受信する操作メッセージです。
type PlayerInputEvent struct {
	Action string `json:"action"`
}

// ServerMessage はクライアントへ送信するメッセージです。
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client はWebSocket接続を持つ単一のクライアントを表します。
type Client struct {
	SessionID  string          // このクライアントが遊んでいるセッションのID
	PlayerName string          // ハイスコア登録に使うプレイヤー名
	Conn       *websocket.Conn // クライアントとの実際のWebSocketコネクション
	Send       chan []byte     // クライアントへメッセージを送信するためのバッファ付きチャネル
	closed     bool            // チャネルが閉じられたかどうかのフラグ
	mu         sync.Mutex      // closedフラグ保護用
}

// SafeSend は安全にチャネルにメッセージを送信します（closedチェック付き）
func (c *Client) SafeSend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false // 既に閉じられている
	}

	select {
	case c.Send <- message:
		return true // 送信成功
	default:
		return false // チャネルがフル
	}
}

// SafeClose は安全にチャネルを閉じます
func (c *Client) SafeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// sendMessage はメッセージをJSONにエンコードして送信キューに積みます。
func (c *Client) sendMessage(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Client] メッセージのエンコードに失敗しました (session %s): %v", c.SessionID, err)
		return
	}
	if !c.SafeSend(data) {
		log.Printf("[Client] 送信キューが満杯または切断済みのため %s を破棄しました (session %s)", msg.Type, c.SessionID)
	}
}

// writePump は Client の Send チャネルからのメッセージをWebSocketコネクションに書き込みます。
// クライアントごとにこのゴルーチンが動作します。
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			log.Printf("[Client] Error closing WebSocket connection for session %s: %v", c.SessionID, err)
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// マネージャーがチャネルを閉じた場合 (セッション終了時など)
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[Client] Error writing message for session %s: %v", c.SessionID, err)
				return
			}
		case <-ticker.C:
			// ピングメッセージを定期的に送信してコネクションの生存確認
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[Client] Error sending ping for session %s: %v", c.SessionID, err)
				return
			}
		}
	}
}

// PlaySession は1人のプレイヤーの1接続分のゲームです。
type PlaySession struct {
	ID         string
	PlayerName string
	StartedAt  time.Time

	runner   *Runner
	client   *Client
	recorder HighScoreRecorder
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{} // Runner の終了時に閉じる

	awaitingFinalScore bool // Runner のゴルーチンからのみ参照する
}

// forward はボードとスコアのイベントをクライアントへ転送します。Runner のゴルーチン上で呼ばれます。
func (s *PlaySession) forward(e Event) {
	s.client.sendMessage(ServerMessage{Type: string(e.Kind()), Payload: e})

	// 最後の固定の得点は FrozenGridChanged で加算されるため、それを待ってから登録する
	switch ev := e.(type) {
	case GameOverChanged:
		s.awaitingFinalScore = ev.GameOver
	case FrozenGridChanged:
		if s.awaitingFinalScore {
			s.awaitingFinalScore = false
			s.recordHighScore(s.runner.Scoring().Score())
		}
	}
}

// recordHighScore は最終スコアを非同期で登録し、結果をクライアントに通知します。
func (s *PlaySession) recordHighScore(score int) {
	if s.recorder == nil {
		return
	}
	go func() {
		// セッションの終了とは独立に登録を完了させる
		ctx, cancel := context.WithTimeout(context.Background(), highScoreTimeout)
		defer cancel()
		submission, err := s.recorder.Submit(ctx, s.PlayerName, score)
		if err != nil {
			log.Printf("[SessionManager] ハイスコアの登録に失敗しました (session %s): %v", s.ID, err)
			s.client.sendMessage(ServerMessage{Type: MessageError, Payload: "ハイスコアの登録に失敗しました"})
			return
		}
		s.client.sendMessage(ServerMessage{Type: MessageHighScore, Payload: submission})
	}()
}

// sendSnapshot は現在のゲーム状態を Runner のゴルーチン上で組み立てて送信します。
func (s *PlaySession) sendSnapshot() error {
	return s.runner.Do(s.ctx, func(board *Board, scoring *ScoringEngine) {
		snapshot := NewGameStateSnapshot(board, scoring, s.runner.paused)
		s.client.sendMessage(ServerMessage{Type: MessageState, Payload: snapshot})
	})
}

// handleInput はクライアントからの1メッセージを処理します。
func (s *PlaySession) handleInput(input PlayerInputEvent) {
	var err error
	switch input.Action {
	case ActionPause:
		if err = s.runner.Pause(s.ctx); err == nil {
			err = s.sendSnapshot()
		}
	case ActionResume:
		if err = s.runner.Resume(s.ctx); err == nil {
			err = s.sendSnapshot()
		}
	case ActionNewGame:
		if err = s.runner.NewGame(s.ctx); err == nil {
			err = s.sendSnapshot()
		}
	case ActionState:
		err = s.sendSnapshot()
	case ActionMoveLeft, ActionMoveRight, ActionRotate, ActionRotateRight, ActionRotateLeft, ActionSoftDrop, ActionHardDrop:
		if !s.runner.Submit(input.Action) {
			log.Printf("[SessionManager] Input queue is full, dropping %s for session %s", input.Action, s.ID)
		}
	default:
		s.client.sendMessage(ServerMessage{Type: MessageError, Payload: fmt.Sprintf("不明な操作です: %s", input.Action)})
	}
	if err != nil {
		log.Printf("[SessionManager] 操作 %s の処理に失敗しました (session %s): %v", input.Action, s.ID, err)
	}
}

// SessionManager は1人用ゲームセッションとWebSocketクライアント接続の全体を管理します。
// これはアプリケーション内でシングルトンとして動作することが想定されます。
type SessionManager struct {
	sessions  map[string]*PlaySession // sessionID -> PlaySession のマップ
	mu        sync.RWMutex            // sessions へのアクセスを保護するためのRWMutex
	recorder  HighScoreRecorder       // ゲーム終了時のスコア登録先 (nil の場合は登録しない)
	width     int
	height    int
	boardOpts []BoardOption
}

// NewSessionManager は新しい SessionManager インスタンスを作成します。
//
// Parameters:
//   recorder : ハイスコアの登録先
//   width    : 各セッションのボード幅
//   height   : 各セッションのボード高さ
//   opts     : 各セッションのボードに適用する追加設定
// Returns:
//   *SessionManager: 初期化されたセッションマネージャーのポインタ
func NewSessionManager(recorder HighScoreRecorder, width, height int, opts ...BoardOption) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*PlaySession),
		recorder:  recorder,
		width:     width,
		height:    height,
		boardOpts: opts,
	}
}

// StartSession は新しいゲームを開始し、WebSocket接続の読み書きとゲームループをゴルーチンで起動します。
//
// Parameters:
//   playerName : プレイヤー名
//   conn       : アップグレード済みのWebSocket接続
// Returns:
//   *PlaySession: 開始されたセッション
//   error: ボードを作成できなかった場合
func (sm *SessionManager) StartSession(playerName string, conn *websocket.Conn) (*PlaySession, error) {
	board, err := NewBoard(sm.width, sm.height, sm.boardOpts...)
	if err != nil {
		return nil, fmt.Errorf("ボードの作成に失敗しました: %w", err)
	}
	scoring := NewScoringEngine(board)
	runner := NewRunner(board, scoring)

	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())
	session := &PlaySession{
		ID:         id,
		PlayerName: playerName,
		StartedAt:  time.Now(),
		runner:     runner,
		client: &Client{
			SessionID:  id,
			PlayerName: playerName,
			Conn:       conn,
			Send:       make(chan []byte, sendBufferSize),
		},
		recorder: sm.recorder,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	board.Subscribe(session.forward)
	scoring.Subscribe(session.forward)

	// Runner の開始前なので、このゴルーチンから直接操作してよい
	board.NewGame()
	session.client.sendMessage(ServerMessage{Type: MessageState, Payload: NewGameStateSnapshot(board, scoring, false)})

	sm.mu.Lock()
	sm.sessions[id] = session
	sm.mu.Unlock()

	go func() {
		defer close(session.done)
		runner.Run(ctx)
	}()
	go session.client.writePump()
	go sm.readPump(session)

	log.Printf("[SessionManager] Session %s started for player %s", id, playerName)
	return session, nil
}

// readPump はクライアントからのWebSocketメッセージを読み込み、セッションに渡します。
func (sm *SessionManager) readPump(session *PlaySession) {
	conn := session.client.Conn
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SessionManager] Panic in readPump for session %s: %v", session.ID, r)
		}
		sm.EndSession(session.ID)
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait)) // Pong受信時にタイムアウトリセット
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[SessionManager] WebSocket unexpected close error for session %s: %v", session.ID, err)
			}
			return
		}
		if len(message) == 0 {
			continue
		}

		var input PlayerInputEvent
		if err := json.Unmarshal(message, &input); err != nil {
			log.Printf("[SessionManager] Failed to unmarshal input message from session %s: %v", session.ID, err)
			session.client.sendMessage(ServerMessage{Type: MessageError, Payload: "メッセージの形式が不正です"})
			continue
		}
		session.handleInput(input)
	}
}

// GetSession は指定されたIDのセッションを返します。
func (sm *SessionManager) GetSession(sessionID string) (*PlaySession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[sessionID]
	return session, ok
}

// SessionCount は現在のセッション数を返します。
func (sm *SessionManager) SessionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// EndSession はゲームループを停止し、接続を閉じてセッションを削除します。
func (sm *SessionManager) EndSession(sessionID string) error {
	sm.mu.Lock()
	session, ok := sm.sessions[sessionID]
	if ok {
		delete(sm.sessions, sessionID)
	}
	sm.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	session.cancel()
	<-session.done
	session.client.SafeClose()
	log.Printf("[SessionManager] Session %s ended", sessionID)
	return nil
}

// Shutdown はSessionManagerを安全にシャットダウンします
func (sm *SessionManager) Shutdown() {
	log.Printf("[SessionManager] シャットダウン開始...")

	sm.mu.RLock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sm.mu.RUnlock()

	for _, id := range ids {
		if err := sm.EndSession(id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			log.Printf("[SessionManager] セッション %s の終了に失敗しました: %v", id, err)
		}
	}
	log.Printf("[SessionManager] シャットダウン完了")
}
