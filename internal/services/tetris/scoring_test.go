package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// fakeSource はテスト用のイベント発行元です。
type fakeSource struct {
	bus eventBus
}

func (f *fakeSource) Subscribe(listener Listener) func() { return f.bus.Subscribe(listener) }

// freeze は n 行を消去した固定1回分のイベントを発行します。
func (f *fakeSource) freeze(n int) {
	if n > 0 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		f.bus.publish(RowsCleared{Rows: rows})
	}
	f.bus.publish(FrozenGridChanged{})
}

func newTestScoring() (*fakeSource, *ScoringEngine, *eventRecorder) {
	src := &fakeSource{}
	s := NewScoringEngine(src)
	rec := &eventRecorder{}
	s.Subscribe(rec.record)
	return src, s, rec
}

func TestScoringEngine_Initial(t *testing.T) {
	_, s, _ := newTestScoring()
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.LinesCleared())
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, 5, s.NextLevelLines())
}

func TestScoringEngine_FreezeBonus(t *testing.T) {
	src, s, rec := newTestScoring()

	src.freeze(0)

	assert.Equal(t, ScorePieceFreeze, s.Score())
	assert.Equal(t, []Event{ScoreChanged{Old: 0, New: 4}}, rec.events)
}

func TestScoringEngine_LineMultipliers(t *testing.T) {
	tests := []struct {
		rows     int
		expected int
	}{
		{1, 4 + 40},
		{2, 4 + 100},
		{3, 4 + 300},
		{4, 4 + 1200},
	}
	for _, tt := range tests {
		src, s, _ := newTestScoring()
		src.freeze(tt.rows)
		assert.Equal(t, tt.expected, s.Score(), "rows=%d", tt.rows)
		assert.Equal(t, tt.rows, s.LinesCleared())
		assert.Equal(t, 1, s.Level())
	}
}

func TestScoringEngine_LevelProgression(t *testing.T) {
	src, s, rec := newTestScoring()

	src.freeze(4)
	assert.Equal(t, 1204, s.Score())
	assert.Equal(t, 1, s.NextLevelLines())
	assert.Equal(t, 0, rec.count(KindLevelChanged))

	rec.reset()
	src.freeze(1)
	// 消去時点のレベル (1) で計算してからレベルが上がる
	assert.Equal(t, 1204+4+40, s.Score())
	assert.Equal(t, 2, s.Level())
	assert.Equal(t, 5, s.NextLevelLines())
	assert.Equal(t, []Event{
		ScoreChanged{Old: 1204, New: 1248},
		LevelChanged{Old: 1, New: 2},
	}, rec.events)

	src.freeze(1)
	assert.Equal(t, 1248+4+80, s.Score())
	assert.Equal(t, 4, s.NextLevelLines())
}

func TestScoringEngine_CountsAllRowsOfOneFreeze(t *testing.T) {
	src, s, _ := newTestScoring()
	src.bus.publish(RowsCleared{Rows: []int{0}})
	src.bus.publish(RowsCleared{Rows: []int{1}})
	src.bus.publish(FrozenGridChanged{})

	assert.Equal(t, 4+100, s.Score())
	assert.Equal(t, 2, s.LinesCleared())

	src.freeze(0)
	assert.Equal(t, 4+100+4, s.Score(), "counter must reset after each freeze")
}

func TestScoringEngine_ResetScore(t *testing.T) {
	src, s, rec := newTestScoring()
	for i := 0; i < 3; i++ {
		src.freeze(2)
	}
	require.Equal(t, 2, s.Level())
	rec.reset()

	s.ResetScore()

	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.LinesCleared())
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, []EventKind{KindScoreChanged, KindLevelChanged}, rec.kinds())

	rec.reset()
	s.ResetScore()
	assert.Empty(t, rec.events)
}

func TestScoringEngine_Close(t *testing.T) {
	src, s, _ := newTestScoring()
	s.Close()
	src.freeze(1)
	assert.Equal(t, 0, s.Score())
	s.Close()
}

func TestScoringEngine_WithBoard(t *testing.T) {
	b, _ := newTestBoard(t, 10, 20, tetris.TypeT)
	s := NewScoringEngine(b)
	b.grid = mustGrid(t, 10, 20,
		"ZZZZZZZZZ.",
		"ZZZZZZZZZ.",
		"ZZZZZZZZZ.",
		"ZZZZZZZZZ.",
	)
	vertical := tetris.MovablePiece{Type: tetris.TypeI, Position: tetris.NewPoint(7, 10), Rotation: tetris.RotationRight90}
	b.current = &vertical

	b.Drop()
	assert.Equal(t, 1204, s.Score())
	assert.Equal(t, 4, s.LinesCleared())

	b.Drop()
	assert.Equal(t, 1208, s.Score())
}
