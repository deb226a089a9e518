package tetris

import (
	"log"
	"math/rand"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// PieceSupply は次に出現するテトリミノの種類を供給します。
type PieceSupply interface {
	// Next は次のテトリミノを返し、供給位置を1つ進めます。
	Next() tetris.PieceType
	// Reset は供給位置を最初に戻します。
	Reset()
}

// newSeededRand は現在時刻をシードにした乱数生成器を作成します。
func newSeededRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// RandomSupply は7種類から一様ランダムに選ぶ標準の供給方式です。
type RandomSupply struct {
	rng *rand.Rand
}

// NewRandomSupply はランダム供給を作成します。rng が nil の場合は現在時刻で初期化します。
func NewRandomSupply(rng *rand.Rand) *RandomSupply {
	if rng == nil {
		rng = newSeededRand()
	}
	return &RandomSupply{rng: rng}
}

func (s *RandomSupply) Next() tetris.PieceType {
	return tetris.AllPieceTypes[s.rng.Intn(len(tetris.AllPieceTypes))]
}

func (s *RandomSupply) Reset() {}

// SequenceSupply は指定された並びを先頭から循環して供給します。テストや再現用です。
type SequenceSupply struct {
	kinds    []tetris.PieceType
	index    int
	fallback *RandomSupply // 並びが空の場合のみ使用
}

// NewSequenceSupply は循環供給を作成します。
// kinds が空の場合はランダム供給と同じ動作になります。
func NewSequenceSupply(kinds []tetris.PieceType) *SequenceSupply {
	s := &SequenceSupply{kinds: append([]tetris.PieceType(nil), kinds...)}
	if len(s.kinds) == 0 {
		log.Printf("[PieceQueue] 空の並びが指定されたためランダム供給を使用します")
		s.fallback = NewRandomSupply(nil)
	}
	return s
}

func (s *SequenceSupply) Next() tetris.PieceType {
	if s.fallback != nil {
		return s.fallback.Next()
	}
	kind := s.kinds[s.index]
	s.index = (s.index + 1) % len(s.kinds)
	return kind
}

func (s *SequenceSupply) Reset() { s.index = 0 }

// BagSupply は7-bagシステムに基づき、7種類を1セットずつシャッフルして供給します。
// バッグの境目で同じテトリミノが連続しないように調整します。
type BagSupply struct {
	rng   *rand.Rand
	queue []tetris.PieceType
	last  tetris.PieceType
	fresh bool
}

// NewBagSupply は7-bag供給を作成します。rng が nil の場合は現在時刻で初期化します。
func NewBagSupply(rng *rand.Rand) *BagSupply {
	if rng == nil {
		rng = newSeededRand()
	}
	return &BagSupply{rng: rng, fresh: true}
}

// refill は新しいバッグをシャッフルしてキューに追加します。
func (s *BagSupply) refill() {
	bag := append([]tetris.PieceType(nil), tetris.AllPieceTypes...)
	s.rng.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})

	// 連続防止：前のバッグの最後のピースと新しいバッグの最初のピースが同じ場合、調整する
	if !s.fresh && bag[0] == s.last {
		swapIndex := s.rng.Intn(len(bag)-1) + 1
		bag[0], bag[swapIndex] = bag[swapIndex], bag[0]
		log.Printf("[PieceQueue] 連続防止: 前のピース %s と重複していたため、位置 %d と交換しました", s.last, swapIndex)
	}
	s.queue = append(s.queue, bag...)
}

func (s *BagSupply) Next() tetris.PieceType {
	if len(s.queue) == 0 {
		s.refill()
	}
	kind := s.queue[0]
	s.queue = s.queue[1:]
	s.last = kind
	s.fresh = false
	return kind
}

func (s *BagSupply) Reset() {
	s.queue = nil
	s.fresh = true
}
