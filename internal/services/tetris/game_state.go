package tetris

import (
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// GameStateSnapshot はクライアントへ送信するためのゲーム状態の写しです。
// Board と ScoringEngine から組み立て、送信後に元の状態と共有する値は持ちません。
type GameStateSnapshot struct {
	State          string               `json:"state"`
	Width          int                  `json:"width"`
	Height         int                  `json:"height"`
	Grid           tetris.Grid          `json:"grid"`          // 固定済みブロック（行0が最下段）
	CurrentPiece   *tetris.MovablePiece `json:"current_piece"` // 操作中のテトリミノ
	GhostPiece     *tetris.MovablePiece `json:"ghost_piece"`   // 着地予定位置
	NextPiece      *tetris.PieceType    `json:"next_piece"`    // 次に出現するテトリミノ
	Score          int                  `json:"score"`
	LinesCleared   int                  `json:"lines_cleared"`
	Level          int                  `json:"level"`
	NextLevelLines int                  `json:"next_level_lines"`
	IsGameOver     bool                 `json:"is_game_over"`
	Paused         bool                 `json:"paused"`
}

// NewGameStateSnapshot は現在のボードとスコアからスナップショットを作成します。
// Board を操作しているゴルーチン（Runner.Do の中など）から呼び出してください。
//
// Parameters:
//   board   : 対象のボード
//   scoring : 対象のスコアエンジン
//   paused  : 一時停止中かどうか
// Returns:
//   *GameStateSnapshot: 作成されたスナップショット
func NewGameStateSnapshot(board *Board, scoring *ScoringEngine, paused bool) *GameStateSnapshot {
	snapshot := &GameStateSnapshot{
		State:          board.State().String(),
		Width:          board.Width(),
		Height:         board.Height(),
		Grid:           board.Grid(),
		Score:          scoring.Score(),
		LinesCleared:   scoring.LinesCleared(),
		Level:          scoring.Level(),
		NextLevelLines: scoring.NextLevelLines(),
		IsGameOver:     board.IsGameOver(),
		Paused:         paused,
	}
	if board.State() == StateActive {
		if current, ok := board.CurrentPiece(); ok {
			snapshot.CurrentPiece = &current
		}
		if ghost, ok := board.Ghost(); ok {
			snapshot.GhostPiece = &ghost
		}
	}
	if next, ok := board.NextPiece(); ok {
		snapshot.NextPiece = &next
	}
	return snapshot
}
