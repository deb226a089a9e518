package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
	tetrisservice "github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

func newSimulationScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)
	return screen
}

// rowText は画面の1行を文字列として取り出します。
func rowText(s tcell.Screen, y, width int) string {
	var sb strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestKeyBinding(t *testing.T) {
	tests := []struct {
		name   string
		ev     *tcell.EventKey
		action string
		cmd    command
	}{
		{"left arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), tetrisservice.ActionMoveLeft, cmdNone},
		{"right arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), tetrisservice.ActionMoveRight, cmdNone},
		{"up arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), tetrisservice.ActionRotateRight, cmdNone},
		{"down arrow", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), tetrisservice.ActionSoftDrop, cmdNone},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), tetrisservice.ActionHardDrop, cmdNone},
		{"z", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), tetrisservice.ActionRotateLeft, cmdNone},
		{"pause", tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), "", cmdPause},
		{"new game", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone), "", cmdNewGame},
		{"quit", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), "", cmdQuit},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "", cmdQuit},
		{"unbound", tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModNone), "", cmdNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, cmd := keyBinding(tt.ev)
			if action != tt.action || cmd != tt.cmd {
				t.Errorf("keyBinding() = (%q, %v), want (%q, %v)", action, cmd, tt.action, tt.cmd)
			}
		})
	}
}

func TestDraw_BoardAndSidebar(t *testing.T) {
	screen := newSimulationScreen(t)

	grid := tetris.NewGrid(10, 20)
	grid.Set(tetris.NewPoint(0, 0), tetris.BlockI)
	current := tetris.NewMovablePiece(tetris.TypeO, tetris.NewPoint(4, 19))
	next := tetris.TypeT
	snap := &tetrisservice.GameStateSnapshot{
		State: "active", Width: 10, Height: 20, Grid: grid,
		CurrentPiece: &current, NextPiece: &next,
		Score: 1234, LinesCleared: 3, Level: 1, NextLevelLines: 2,
	}

	draw(screen, view{
		snapshot:   snap,
		player:     "alice",
		highScores: []models.HighScoreResponse{{Rank: 1, PlayerName: "bob", Score: 900}},
	})

	// 行0の左端のブロック
	x, y := cellOrigin(20, 0, 0)
	r, _, style, _ := screen.GetContent(x, y)
	if r != '█' {
		t.Errorf("expected block at bottom-left, got %q", r)
	}
	if fg, _, _ := style.Decompose(); fg != pieceColors[tetris.TypeI] {
		t.Errorf("expected I color, got %v", fg)
	}

	// 操作中のピース
	found := false
	for _, c := range current.Cells() {
		if c.Y >= 20 {
			continue
		}
		cx, cy := cellOrigin(20, c.X, c.Y)
		if r, _, _, _ := screen.GetContent(cx, cy); r == '█' {
			found = true
		}
	}
	if !found {
		t.Errorf("current piece is not drawn")
	}

	var sidebar strings.Builder
	for row := 0; row < 30; row++ {
		sidebar.WriteString(rowText(screen, row, 80))
		sidebar.WriteByte('\n')
	}
	for _, want := range []string{"Player: alice", "Score:  1234", "Lines:  3", "Level:  1 (next in 2)", "bob"} {
		if !strings.Contains(sidebar.String(), want) {
			t.Errorf("screen does not contain %q", want)
		}
	}
}

func TestGame_KeysDriveRunner(t *testing.T) {
	screen := newSimulationScreen(t)
	cfg := &config.Config{BoardWidth: 10, BoardHeight: 20, HighScoreLimit: 10}
	g, err := newGame(screen, cfg, "alice", nil)
	if err != nil {
		t.Fatalf("newGame failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.runner.Run(ctx)

	if !g.handleKey(ctx, tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)) {
		t.Fatalf("hard drop must not quit")
	}

	deadline := time.Now().Add(time.Second)
	for {
		var score int
		g.runner.Do(ctx, func(_ *tetrisservice.Board, s *tetrisservice.ScoringEngine) { score = s.Score() })
		if score == tetrisservice.ScorePieceFreeze {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("hard drop was not applied, score = %d", score)
		}
		time.Sleep(5 * time.Millisecond)
	}

	g.handleKey(ctx, tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	if paused, _ := g.runner.IsPaused(ctx); !paused {
		t.Errorf("expected runner to be paused")
	}
	if err := g.render(ctx); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if g.handleKey(ctx, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Errorf("escape must quit")
	}
}

func TestGame_MusicFollowsPauseAndGameOver(t *testing.T) {
	screen := newSimulationScreen(t)
	cfg := &config.Config{BoardWidth: 10, BoardHeight: 20, HighScoreLimit: 10}
	sound := &soundPlayer{}
	g, err := newGame(screen, cfg, "alice", sound)
	if err != nil {
		t.Fatalf("newGame failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.runner.Run(ctx)

	musicPlaying := func() bool {
		var playing bool
		if err := g.runner.Do(ctx, func(*tetrisservice.Board, *tetrisservice.ScoringEngine) { playing = sound.playing }); err != nil {
			t.Fatalf("Do failed: %v", err)
		}
		return playing
	}

	if !musicPlaying() {
		t.Fatalf("music should start with the game")
	}

	pause := tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)
	g.handleKey(ctx, pause)
	if musicPlaying() {
		t.Errorf("music should stop while paused")
	}
	g.handleKey(ctx, pause)
	if !musicPlaying() {
		t.Errorf("music should resume after unpausing")
	}

	// 上端まで埋めて次の固定でゲームオーバーにする
	err = g.runner.Do(ctx, func(board *tetrisservice.Board, _ *tetrisservice.ScoringEngine) {
		board.SetPieceSequence([]tetris.PieceType{tetris.TypeO})
		for !board.IsGameOver() {
			board.Drop()
		}
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if musicPlaying() {
		t.Errorf("music should stop on game over")
	}

	g.handleKey(ctx, tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))
	if !musicPlaying() {
		t.Errorf("music should restart with a new game")
	}
}
