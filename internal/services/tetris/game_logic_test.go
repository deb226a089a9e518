package tetris

import (
	"errors"
	"testing"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// TestApplyPlayerInput_MoveLeft はピースの左移動をテストします。
func TestApplyPlayerInput_MoveLeft(t *testing.T) {
	board, _ := newTestBoard(t, 10, 20, tetris.TypeT)
	initial, _ := board.CurrentPiece()

	moved, err := ApplyPlayerInput(board, ActionMoveLeft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !moved {
		t.Error("Expected piece to move left, but it did not.")
	}
	current, _ := board.CurrentPiece()
	if current.Position.X != initial.Position.X-1 {
		t.Errorf("Expected X to be %d, but got %d", initial.Position.X-1, current.Position.X)
	}

	// 壁に衝突する場合のテスト
	for board.Left() {
	}
	moved, _ = ApplyPlayerInput(board, ActionMoveLeft)
	if moved {
		t.Error("Expected piece not to move left (collision with wall), but it did.")
	}
	current, _ = board.CurrentPiece()
	if current.Position.X != 0 {
		t.Errorf("Expected X to remain 0, but got %d", current.Position.X)
	}
}

// TestApplyPlayerInput_MoveRight はピースの右移動をテストします。
func TestApplyPlayerInput_MoveRight(t *testing.T) {
	board, _ := newTestBoard(t, 10, 20, tetris.TypeT)
	initial, _ := board.CurrentPiece()

	if moved, _ := ApplyPlayerInput(board, ActionMoveRight); !moved {
		t.Error("Expected piece to move right, but it did not.")
	}
	current, _ := board.CurrentPiece()
	if current.Position.X != initial.Position.X+1 {
		t.Errorf("Expected X to be %d, but got %d", initial.Position.X+1, current.Position.X)
	}
}

// TestApplyPlayerInput_Rotate は回転操作の名前と回転方向の対応をテストします。
func TestApplyPlayerInput_Rotate(t *testing.T) {
	tests := []struct {
		action   string
		expected tetris.RotationState
	}{
		{ActionRotate, tetris.RotationRight90},
		{ActionRotateRight, tetris.RotationRight90},
		{ActionRotateLeft, tetris.RotationLeft270},
	}
	for _, tt := range tests {
		board, _ := newTestBoard(t, 10, 20, tetris.TypeT)
		moved, err := ApplyPlayerInput(board, tt.action)
		if err != nil || !moved {
			t.Fatalf("%s: expected rotation, got moved=%v err=%v", tt.action, moved, err)
		}
		current, _ := board.CurrentPiece()
		if current.Rotation != tt.expected {
			t.Errorf("%s: expected rotation %s, got %s", tt.action, tt.expected, current.Rotation)
		}
	}
}

// TestApplyPlayerInput_SoftDrop はソフトドロップが1行だけ下げることをテストします。
func TestApplyPlayerInput_SoftDrop(t *testing.T) {
	board, _ := newTestBoard(t, 10, 20, tetris.TypeO)
	initial, _ := board.CurrentPiece()

	ApplyPlayerInput(board, ActionSoftDrop)

	current, _ := board.CurrentPiece()
	if current.Position.Y != initial.Position.Y-1 {
		t.Errorf("Expected Y to be %d, but got %d", initial.Position.Y-1, current.Position.Y)
	}
}

// TestApplyPlayerInput_HardDrop はハードドロップでピースが固定されることをテストします。
func TestApplyPlayerInput_HardDrop(t *testing.T) {
	board, rec := newTestBoard(t, 10, 20, tetris.TypeO)

	moved, _ := ApplyPlayerInput(board, ActionHardDrop)
	if !moved {
		t.Fatal("Expected hard drop to change the board")
	}
	if rec.count(KindFrozenGridChanged) != 1 {
		t.Errorf("Expected exactly one FrozenGridChanged, got %d", rec.count(KindFrozenGridChanged))
	}
	grid := board.Grid()
	// O は x=4 に出現し、セルは列 5,6 を占める
	if !grid.IsOccupied(tetris.NewPoint(5, 0)) || !grid.IsOccupied(tetris.NewPoint(6, 1)) {
		t.Errorf("Expected O piece at columns 5-6, got\n%s", grid)
	}
}

// TestApplyPlayerInput_Unknown は未定義の操作がエラーになることをテストします。
func TestApplyPlayerInput_Unknown(t *testing.T) {
	board, rec := newTestBoard(t, 10, 20, tetris.TypeO)

	moved, err := ApplyPlayerInput(board, "hold")
	if moved {
		t.Error("Expected unknown action not to change the board")
	}
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Expected ErrUnknownAction, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("Expected no events, got %v", rec.kinds())
	}
}

// TestApplyPlayerInput_GameOver はゲームオーバー後の入力が無視されることをテストします。
func TestApplyPlayerInput_GameOver(t *testing.T) {
	board, _ := newTestBoard(t, 10, 20, tetris.TypeO)
	for !board.IsGameOver() {
		board.Drop()
	}
	for _, action := range []string{ActionMoveLeft, ActionMoveRight, ActionRotate, ActionSoftDrop, ActionHardDrop} {
		if moved, _ := ApplyPlayerInput(board, action); moved {
			t.Errorf("Expected %s to be ignored after game over", action)
		}
	}
}

// TestGetFallInterval はレベルごとの落下間隔をテストします。
func TestGetFallInterval(t *testing.T) {
	tests := []struct {
		level    int
		expected time.Duration
	}{
		{1, 600 * time.Millisecond},
		{2, 560 * time.Millisecond},
		{5, 440 * time.Millisecond},
		{13, 120 * time.Millisecond},
		{14, 100 * time.Millisecond},
		{30, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := GetFallInterval(tt.level); got != tt.expected {
			t.Errorf("GetFallInterval(%d) = %v, want %v", tt.level, got, tt.expected)
		}
	}
}
