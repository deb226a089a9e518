package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/highscore"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

// game はターミナル上で1人用ゲームを動かします。
type game struct {
	screen     tcell.Screen
	runner     *tetris.Runner
	highScores *highscore.Manager
	sound      *soundPlayer
	player     string

	mu        sync.Mutex
	topScores []models.HighScoreResponse
	message   string

	awaitingFinalScore bool // ゲームループのゴルーチンからのみ参照する
}

func newGame(screen tcell.Screen, cfg *config.Config, player string, sound *soundPlayer) (*game, error) {
	board, err := tetris.NewBoard(cfg.BoardWidth, cfg.BoardHeight, tetris.WithBagSupply(nil))
	if err != nil {
		return nil, err
	}
	scoring := tetris.NewScoringEngine(board)

	g := &game{
		screen:     screen,
		runner:     tetris.NewRunner(board, scoring),
		highScores: highscore.NewManager(database.NewMemoryHighScoreRepository(), nil, cfg.HighScoreLimit),
		sound:      sound,
		player:     player,
	}
	board.Subscribe(g.onBoardEvent)
	board.NewGame()
	g.refreshHighScores()
	return g, nil
}

// onBoardEvent はゲームループのゴルーチン上で呼ばれます。
func (g *game) onBoardEvent(e tetris.Event) {
	switch ev := e.(type) {
	case tetris.RowsCleared:
		g.sound.rowsCleared(len(ev.Rows))
	case tetris.GameOverChanged:
		g.awaitingFinalScore = ev.GameOver
		g.sound.setMusic(!ev.GameOver)
		if ev.GameOver {
			g.sound.gameOver()
		} else {
			g.setMessage("")
		}
	case tetris.FrozenGridChanged:
		// スコアエンジンが先に購読しているため、この時点で最後の固定の得点が加算済み
		if g.awaitingFinalScore {
			g.awaitingFinalScore = false
			g.submitScore(g.runner.Scoring().Score())
		}
	}
}

func (g *game) submitScore(score int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := g.highScores.Submit(ctx, g.player, score)
		switch {
		case err != nil:
			log.Printf("[TUI] ハイスコアの登録に失敗しました: %v", err)
			g.setMessage("ハイスコアの登録に失敗しました")
		case res.Qualified:
			g.setMessage(fmt.Sprintf("NEW HIGH SCORE! rank %d", res.Rank))
		}
		g.refreshHighScores()
	}()
}

func (g *game) refreshHighScores() {
	top, err := g.highScores.Top(context.Background())
	if err != nil {
		log.Printf("[TUI] ハイスコアの取得に失敗しました: %v", err)
		return
	}
	g.mu.Lock()
	g.topScores = top
	g.mu.Unlock()
}

func (g *game) setMessage(msg string) {
	g.mu.Lock()
	g.message = msg
	g.mu.Unlock()
}

// render はゲームループから状態を読み取って描画します。
func (g *game) render(ctx context.Context) error {
	var snap *tetris.GameStateSnapshot
	err := g.runner.Do(ctx, func(board *tetris.Board, scoring *tetris.ScoringEngine) {
		snap = tetris.NewGameStateSnapshot(board, scoring, false)
	})
	if err != nil {
		return err
	}
	snap.Paused, _ = g.runner.IsPaused(ctx)

	g.mu.Lock()
	v := view{snapshot: snap, player: g.player, highScores: g.topScores, message: g.message}
	g.mu.Unlock()
	draw(g.screen, v)
	return nil
}

// handleKey はキー入力を処理します。終了する場合は false を返します。
func (g *game) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	action, cmd := keyBinding(ev)
	switch cmd {
	case cmdQuit:
		return false
	case cmdPause:
		if err := g.runner.TogglePause(ctx); err != nil {
			log.Printf("[TUI] 一時停止の切り替えに失敗しました: %v", err)
			break
		}
		g.syncMusic(ctx)
	case cmdNewGame:
		if err := g.runner.NewGame(ctx); err != nil {
			log.Printf("[TUI] 新しいゲームを開始できませんでした: %v", err)
		}
	}
	if action != "" {
		g.runner.Submit(action)
	}
	return true
}

// syncMusic はプレイ中かつ一時停止していない場合のみ BGM を鳴らします。
// BGM の状態はゲームループのゴルーチン上で更新します。
func (g *game) syncMusic(ctx context.Context) {
	paused, err := g.runner.IsPaused(ctx)
	if err != nil {
		return
	}
	g.runner.Do(ctx, func(board *tetris.Board, _ *tetris.ScoringEngine) {
		g.sound.setMusic(board.State() == tetris.StateActive && !paused)
	})
}

func (g *game) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := g.runner.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[TUI] ゲームループが停止しました: %v", err)
		}
	}()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return // Fini が呼ばれた
			}
			eventChan <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !g.handleKey(ctx, ev) {
					return
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}
		case <-ticker.C:
			if err := g.render(ctx); err != nil {
				return
			}
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: Error loading .env file: %v", err)
	}

	// 画面が崩れるため、ログはファイル指定時のみ出力する
	log.SetOutput(io.Discard)
	if path := config.GetEnv("TUI_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	}

	cfg := config.LoadConfig()
	player := config.GetEnv("PLAYER_NAME", config.GetEnv("USER", "player"))

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("画面を作成できませんでした: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("画面を初期化できませんでした: %v", err)
	}

	sound := newSoundPlayer()
	g, err := newGame(screen, cfg, player, sound)
	if err != nil {
		screen.Fini()
		sound.close()
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	g.run(context.Background())

	screen.Fini()
	sound.close()
}
