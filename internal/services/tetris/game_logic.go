package tetris

import (
	"errors"
	"fmt"
	"time"
)

// ゲームの進行速度などに関する定数です。
const (
	InitialFallInterval = 600 * time.Millisecond // レベル1の自動落下間隔
	FallIntervalStep    = 40 * time.Millisecond  // レベルが1上がるごとに短縮する時間
	MinFallInterval     = 100 * time.Millisecond // 自動落下間隔の下限
	LevelUpLines        = 5                      // レベルアップに必要なライン数（5ラインごとにレベルアップ）
)

// プレイヤーが送信できる操作の名前です。
const (
	ActionMoveLeft    = "move_left"
	ActionMoveRight   = "move_right"
	ActionRotate      = "rotate"
	ActionRotateRight = "rotate_right"
	ActionRotateLeft  = "rotate_left"
	ActionSoftDrop    = "soft_drop"
	ActionHardDrop    = "hard_drop"
)

// ErrUnknownAction は未定義の操作名を受け取った場合のエラーです。
var ErrUnknownAction = errors.New("不明な操作です")

// GetFallInterval は現在のレベルに基づいた自動落下間隔を計算して返します。
func GetFallInterval(level int) time.Duration {
	// レベルが上がるごとに落下間隔が短くなるロジック
	interval := InitialFallInterval - time.Duration(level-1)*FallIntervalStep
	if interval < MinFallInterval { // 最小値を設定
		interval = MinFallInterval
	}
	return interval
}

// ApplyPlayerInput はプレイヤーの入力（アクション）をボードの操作に変換して適用します。
//
// Parameters:
//   board  : 操作対象のボード
//   action : プレイヤーが実行したアクション（例: "move_left", "rotate"）
// Returns:
//   bool: ボードの状態が実際に変更された場合はtrue、変更されなかった場合はfalse
//   error: 未定義のアクションの場合は ErrUnknownAction
func ApplyPlayerInput(board *Board, action string) (bool, error) {
	switch action {
	case ActionMoveLeft:
		return board.Left(), nil
	case ActionMoveRight:
		return board.Right(), nil
	case ActionRotate, ActionRotateRight:
		return board.RotateCW(), nil
	case ActionRotateLeft:
		return board.RotateCCW(), nil
	case ActionSoftDrop: // 1行だけ下げる。着地していればその場で固定
		return board.Down(), nil
	case ActionHardDrop:
		return board.Drop(), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}
