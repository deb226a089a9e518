package tetris

// スコア計算の定数です。
const (
	ScorePieceFreeze = 4 // ピースを1つ固定するごとの加算点
)

// lineClearMultipliers は同時に消去した行数 (1-4) ごとの基本点です。現在のレベルを掛けて加算します。
var lineClearMultipliers = [...]int{40, 100, 300, 1200}

// ScoringEngine は Board のイベントを購読し、スコア・消去ライン数・レベルを管理します。
// Board の内部には触れず、イベントだけを入力とします。
type ScoringEngine struct {
	score        int
	linesCleared int
	level        int
	pendingRows  int // 固定1回分の消去行数。FrozenGridChanged で精算する

	unsubscribe func()
	bus         eventBus
}

// NewScoringEngine はイベント発行元を購読するスコアエンジンを作成します。
func NewScoringEngine(source EventSource) *ScoringEngine {
	s := &ScoringEngine{level: 1}
	s.unsubscribe = source.Subscribe(s.handle)
	return s
}

// Subscribe はスコアとレベルのイベントを購読します。
func (s *ScoringEngine) Subscribe(listener Listener) func() {
	return s.bus.Subscribe(listener)
}

// Close は発行元の購読を解除します。
func (s *ScoringEngine) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *ScoringEngine) Score() int        { return s.score }
func (s *ScoringEngine) LinesCleared() int { return s.linesCleared }
func (s *ScoringEngine) Level() int        { return s.level }

// NextLevelLines は次のレベルまでに必要な残りライン数を返します (1-5)。
func (s *ScoringEngine) NextLevelLines() int {
	return LevelUpLines - s.linesCleared%LevelUpLines
}

// ResetScore は全てのカウンタを初期値に戻します。値が変わった場合はイベントを通知します。
func (s *ScoringEngine) ResetScore() {
	oldScore, oldLevel := s.score, s.level
	s.score = 0
	s.linesCleared = 0
	s.level = 1
	s.pendingRows = 0
	if oldScore != 0 {
		s.bus.publish(ScoreChanged{Old: oldScore, New: 0})
	}
	if oldLevel != 1 {
		s.bus.publish(LevelChanged{Old: oldLevel, New: 1})
	}
}

func (s *ScoringEngine) handle(e Event) {
	switch ev := e.(type) {
	case RowsCleared:
		s.pendingRows += len(ev.Rows)
	case FrozenGridChanged:
		s.applyFreeze()
	}
}

// applyFreeze は固定1回分の得点を加算します。ライン消去の得点は加算前のレベルで計算します。
func (s *ScoringEngine) applyFreeze() {
	oldScore, oldLevel := s.score, s.level
	s.score += ScorePieceFreeze

	if n := s.pendingRows; n > 0 {
		idx := min(n, len(lineClearMultipliers)) - 1
		s.score += lineClearMultipliers[idx] * s.level
		s.linesCleared += n
		s.level = s.linesCleared/LevelUpLines + 1
	}
	s.pendingRows = 0

	s.bus.publish(ScoreChanged{Old: oldScore, New: s.score})
	if s.level != oldLevel {
		s.bus.publish(LevelChanged{Old: oldLevel, New: s.level})
	}
}
