package tetris

import (
	"context"
	"errors"
	"log"
	"time"
)

// Runner は1つの Board と ScoringEngine を専用のゴルーチンで動かすゲームループです。
// 自動落下のティック、プレイヤー入力、制御コマンドを1つの select で直列化するため、
// Board と ScoringEngine のイベントリスナーは全てこのゴルーチン上で呼ばれます。
type Runner struct {
	board        *Board
	scoring      *ScoringEngine
	inputs       chan string
	commands     chan func()
	fallInterval func(level int) time.Duration

	ticker        *time.Ticker
	interval      time.Duration
	intervalDirty bool
	paused        bool
	unsubscribe   func()
	stopped       chan struct{} // Run の終了時に閉じる
}

// RunnerOption は NewRunner の追加設定です。
type RunnerOption func(*Runner)

// WithFallInterval はレベルから自動落下間隔を求める関数を差し替えます。
func WithFallInterval(fn func(level int) time.Duration) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.fallInterval = fn
		}
	}
}

// WithInputBuffer は入力チャネルのバッファサイズを指定します。
func WithInputBuffer(size int) RunnerOption {
	return func(r *Runner) {
		if size > 0 {
			r.inputs = make(chan string, size)
		}
	}
}

// NewRunner は新しい Runner を作成します。ループは Run を呼ぶまで開始されません。
//
// Parameters:
//   board   : 操作対象のボード
//   scoring : board を購読しているスコアエンジン（レベル変化で落下間隔を更新する）
// Returns:
//   *Runner: 作成された Runner
func NewRunner(board *Board, scoring *ScoringEngine, opts ...RunnerOption) *Runner {
	r := &Runner{
		board:        board,
		scoring:      scoring,
		inputs:       make(chan string, 64),
		commands:     make(chan func(), 16),
		fallInterval: GetFallInterval,
		stopped:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.interval = r.fallInterval(scoring.Level())
	r.unsubscribe = scoring.Subscribe(func(e Event) {
		if lc, ok := e.(LevelChanged); ok {
			r.interval = r.fallInterval(lc.New)
			r.intervalDirty = true
		}
	})
	return r
}

// Board は管理しているボードを返します。Run の実行中は Do の中からのみ操作してください。
func (r *Runner) Board() *Board { return r.board }

// Scoring は管理しているスコアエンジンを返します。
func (r *Runner) Scoring() *ScoringEngine { return r.scoring }

// Run はゲームループを実行します。ctx がキャンセルされるまでブロックします。
// 1つの Runner につき1回だけ呼び出せます。
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.stopped)
	defer r.unsubscribe()

	r.ticker = time.NewTicker(r.interval)
	defer r.ticker.Stop()
	r.intervalDirty = false

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Runner] ゲームループを終了します: %v", ctx.Err())
			return ctx.Err()
		case <-r.ticker.C:
			if !r.paused {
				r.board.Step()
			}
		case action := <-r.inputs:
			if r.paused {
				continue
			}
			if _, err := ApplyPlayerInput(r.board, action); err != nil {
				log.Printf("[Runner] 入力を無視しました: %v", err)
			}
		case cmd := <-r.commands:
			cmd()
		}
		r.applyInterval()
	}
}

// applyInterval はレベル変化後の落下間隔をティッカーに反映します。
func (r *Runner) applyInterval() {
	if !r.intervalDirty || r.paused {
		return
	}
	r.ticker.Reset(r.interval)
	r.intervalDirty = false
}

// Submit は入力をキューに積みます。キューが満杯の場合は破棄して false を返します。
func (r *Runner) Submit(action string) bool {
	select {
	case r.inputs <- action:
		return true
	default:
		return false
	}
}

// ErrRunnerStopped はゲームループが停止していてコマンドを実行できない場合のエラーです。
var ErrRunnerStopped = errors.New("ゲームループは停止しています")

// Do は fn をループのゴルーチン上で実行し、完了を待ちます。
// ボードの状態を読み取る場合や、複数の操作をまとめて行う場合に使用します。
func (r *Runner) Do(ctx context.Context, fn func(board *Board, scoring *ScoringEngine)) error {
	done := make(chan struct{})
	cmd := func() {
		defer close(done)
		fn(r.board, r.scoring)
	}
	select {
	case r.commands <- cmd:
	case <-r.stopped:
		return ErrRunnerStopped
	case <-ctx.Done():
		return errors.Join(ErrRunnerStopped, ctx.Err())
	}
	select {
	case <-done:
		return nil
	case <-r.stopped:
		return ErrRunnerStopped
	case <-ctx.Done():
		return errors.Join(ErrRunnerStopped, ctx.Err())
	}
}

// Pause は自動落下と入力の受付を停止します。
func (r *Runner) Pause(ctx context.Context) error {
	return r.Do(ctx, func(*Board, *ScoringEngine) { r.pause() })
}

// Resume は一時停止を解除し、現在のレベルの間隔で自動落下を再開します。
func (r *Runner) Resume(ctx context.Context) error {
	return r.Do(ctx, func(*Board, *ScoringEngine) { r.resume() })
}

// TogglePause は一時停止と再開を切り替えます。
func (r *Runner) TogglePause(ctx context.Context) error {
	return r.Do(ctx, func(*Board, *ScoringEngine) {
		if r.paused {
			r.resume()
		} else {
			r.pause()
		}
	})
}

func (r *Runner) pause() {
	if r.paused {
		return
	}
	r.paused = true
	r.ticker.Stop()
	log.Printf("[Runner] 一時停止しました")
}

func (r *Runner) resume() {
	if !r.paused {
		return
	}
	r.paused = false
	r.ticker.Reset(r.interval)
	r.intervalDirty = false
	log.Printf("[Runner] 再開しました")
}

// IsPaused は一時停止中かどうかを返します。
func (r *Runner) IsPaused(ctx context.Context) (bool, error) {
	var paused bool
	err := r.Do(ctx, func(*Board, *ScoringEngine) { paused = r.paused })
	return paused, err
}

// NewGame はスコアを初期化して新しいゲームを開始し、一時停止を解除します。
func (r *Runner) NewGame(ctx context.Context) error {
	return r.Do(ctx, func(board *Board, scoring *ScoringEngine) {
		scoring.ResetScore()
		board.NewGame()
		r.paused = false
		r.interval = r.fallInterval(scoring.Level())
		r.ticker.Reset(r.interval)
		r.intervalDirty = false
	})
}
