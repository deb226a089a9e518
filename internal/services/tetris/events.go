package tetris

import (
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// EventKind はイベントの種類を表す安定した名前です。JSON 送信時の "type" に使用します。
type EventKind string

const (
	KindCurrentPieceChanged EventKind = "current_piece_changed"
	KindFrozenGridChanged   EventKind = "frozen_grid_changed"
	KindRowsCleared         EventKind = "rows_cleared"
	KindNextPieceChanged    EventKind = "next_piece_changed"
	KindGameOverChanged     EventKind = "game_over_changed"
	KindScoreChanged        EventKind = "score_changed"
	KindLevelChanged        EventKind = "level_changed"
)

// Event は Board と ScoringEngine が通知するイベントの共通インターフェースです。
// 実装はこのパッケージ内の型に限られます。
type Event interface {
	Kind() EventKind
	isEvent()
}

// CurrentPieceChanged は操作中のピースが移動または回転したときに通知されます。
// Old は変更前の位置で、描画側が消去するセルの計算に使います。
type CurrentPieceChanged struct {
	Old tetris.MovablePiece `json:"old"`
	New tetris.MovablePiece `json:"new"`
}

// FrozenGridChanged はピースが固定されるたびに1回だけ通知されます。Grid はスナップショットです。
type FrozenGridChanged struct {
	Grid tetris.Grid `json:"grid"`
}

// RowsCleared は1回の固定で消去された全ての行を、消去前の行番号の昇順で持ちます。
type RowsCleared struct {
	Rows []int `json:"rows"`
}

// NextPieceChanged はプレビューのピースが進んだときに通知されます。
type NextPieceChanged struct {
	Old tetris.PieceType `json:"old"`
	New tetris.PieceType `json:"new"`
}

// GameOverChanged はゲームオーバー状態が変化したときに通知されます。
type GameOverChanged struct {
	GameOver bool `json:"game_over"`
}

// ScoreChanged はスコアが更新されたときに通知されます。
type ScoreChanged struct {
	Old int `json:"old"`
	New int `json:"new"`
}

// LevelChanged はレベルが変化したときに通知されます。
type LevelChanged struct {
	Old int `json:"old"`
	New int `json:"new"`
}

func (CurrentPieceChanged) Kind() EventKind { return KindCurrentPieceChanged }
func (FrozenGridChanged) Kind() EventKind   { return KindFrozenGridChanged }
func (RowsCleared) Kind() EventKind         { return KindRowsCleared }
func (NextPieceChanged) Kind() EventKind    { return KindNextPieceChanged }
func (GameOverChanged) Kind() EventKind     { return KindGameOverChanged }
func (ScoreChanged) Kind() EventKind        { return KindScoreChanged }
func (LevelChanged) Kind() EventKind        { return KindLevelChanged }

func (CurrentPieceChanged) isEvent() {}
func (FrozenGridChanged) isEvent()   {}
func (RowsCleared) isEvent()         {}
func (NextPieceChanged) isEvent()    {}
func (GameOverChanged) isEvent()     {}
func (ScoreChanged) isEvent()        {}
func (LevelChanged) isEvent()        {}

// Listener はイベントを受け取るコールバックです。
type Listener func(Event)

// EventSource は購読可能なイベントの発行元です。
// Subscribe の戻り値を呼び出すと購読が解除されます。
type EventSource interface {
	Subscribe(listener Listener) (unsubscribe func())
}

type subscription struct {
	id       int
	listener Listener
}

// eventBus は購読順に同期的にイベントを配信します。ロックは持たないため、
// 所有者と同じゴルーチンからのみ使用してください。
type eventBus struct {
	nextID int
	subs   []subscription
}

func (b *eventBus) Subscribe(listener Listener) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, listener: listener})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// publish は配信中の購読解除に備えて、購読者リストのコピーに対して配信します。
func (b *eventBus) publish(e Event) {
	if len(b.subs) == 0 {
		return
	}
	subs := append([]subscription(nil), b.subs...)
	for _, s := range subs {
		s.listener(e)
	}
}
