package tetris

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// ErrInvalidDimensions はボードの幅または高さが正の値でない場合のエラーです。
var ErrInvalidDimensions = errors.New("ボードの幅と高さは正の値である必要があります")

// BoardState はボードのライフサイクル上の状態です。
type BoardState int

const (
	StateAwaitingStart BoardState = iota // 最初の NewGame 前
	StateActive                          // プレイ中
	StateGameOver                        // ゲームオーバー
)

func (s BoardState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateGameOver:
		return "game_over"
	default:
		return "awaiting_start"
	}
}

// Board は1人分のプレイフィールドです。固定済みブロックのグリッド、操作中のピース、
// 次のピースのプレビュー、ピース供給、ゲームオーバー状態を管理し、変化をイベントで通知します。
//
// Board はロックを持ちません。1つのゴルーチン（通常は Runner）からのみ操作してください。
type Board struct {
	width  int
	height int

	grid    tetris.Grid
	current *tetris.MovablePiece
	next    tetris.PieceType
	hasNext bool

	supply        PieceSupply
	defaultSupply PieceSupply

	gameOver bool
	fastDrop bool // ハードドロップ中は CurrentPieceChanged を抑制する

	bus eventBus
}

// BoardOption は NewBoard の追加設定です。
type BoardOption func(*Board)

// WithRand は標準のランダム供給に使う乱数生成器を指定します。
func WithRand(rng *rand.Rand) BoardOption {
	return func(b *Board) {
		b.defaultSupply = NewRandomSupply(rng)
		b.supply = b.defaultSupply
	}
}

// WithBagSupply は標準の供給方式を7-bagシステムに切り替えます。
func WithBagSupply(rng *rand.Rand) BoardOption {
	return func(b *Board) {
		b.defaultSupply = NewBagSupply(rng)
		b.supply = b.defaultSupply
	}
}

// WithSupply は任意の供給方式を標準として使用します。
func WithSupply(supply PieceSupply) BoardOption {
	return func(b *Board) {
		if supply != nil {
			b.defaultSupply = supply
			b.supply = supply
		}
	}
}

// NewBoard は指定サイズの空のボードを作成します。ゲームは NewGame を呼ぶまで開始されません。
//
// Parameters:
//   width  : 列数
//   height : 行数（表示部分）
//   opts   : 供給方式などの追加設定
// Returns:
//   *Board: 作成されたボード
//   error: 幅または高さが正の値でない場合は ErrInvalidDimensions
func NewBoard(width, height int, opts ...BoardOption) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d height=%d", ErrInvalidDimensions, width, height)
	}
	b := &Board{
		width:  width,
		height: height,
		grid:   tetris.NewGrid(width, height),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.defaultSupply == nil {
		b.defaultSupply = NewRandomSupply(nil)
		b.supply = b.defaultSupply
	}
	return b, nil
}

// NewDefaultBoard は 10x20 の標準ボードを作成します。
func NewDefaultBoard(opts ...BoardOption) *Board {
	b, _ := NewBoard(tetris.DefaultBoardWidth, tetris.DefaultBoardHeight, opts...)
	return b
}

// Subscribe はボードのイベントを購読します。戻り値の関数で購読を解除できます。
func (b *Board) Subscribe(listener Listener) func() {
	return b.bus.Subscribe(listener)
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Grid は固定済みブロックのグリッドのコピーを返します。
func (b *Board) Grid() tetris.Grid { return b.grid.Clone() }

// CurrentPiece は操作中のピースを返します。ゲーム開始前は false を返します。
func (b *Board) CurrentPiece() (tetris.MovablePiece, bool) {
	if b.current == nil {
		return tetris.MovablePiece{}, false
	}
	return *b.current, true
}

// NextPiece はプレビュー中の次のピースを返します。ゲーム開始前は false を返します。
func (b *Board) NextPiece() (tetris.PieceType, bool) {
	return b.next, b.hasNext
}

func (b *Board) IsGameOver() bool { return b.gameOver }

// State は現在のライフサイクル状態を返します。
func (b *Board) State() BoardState {
	switch {
	case b.gameOver:
		return StateGameOver
	case b.current == nil:
		return StateAwaitingStart
	default:
		return StateActive
	}
}

// NewGame はボードを初期化して新しいゲームを開始します。どの状態からでも呼び出せます。
// グリッドを空にし、供給位置を戻し、最初のピースを出現させてから GameOverChanged(false) を通知します。
func (b *Board) NewGame() {
	b.grid = tetris.NewGrid(b.width, b.height)
	b.gameOver = false
	b.fastDrop = false
	b.restartSupply()
	b.bus.publish(GameOverChanged{GameOver: false})
}

// SetPieceSequence は以降のピースを指定された並びの循環に固定します。
// 空の並びを渡すと標準の供給方式に戻ります。ゲーム開始後であれば (ゲームオーバー中も含む)
// 現在のピースを出し直します。開始前は NewGame で最初のピースが出現します。
func (b *Board) SetPieceSequence(kinds []tetris.PieceType) {
	if len(kinds) == 0 {
		b.supply = b.defaultSupply
	} else {
		b.supply = NewSequenceSupply(kinds)
	}
	if b.State() != StateAwaitingStart {
		b.restartSupply()
	}
}

// restartSupply は供給位置を戻し、プレビューを捨てて現在のピースを出し直します。
// この出現では NextPieceChanged は通知しません。
func (b *Board) restartSupply() {
	b.supply.Reset()
	b.hasNext = false
	b.current = nil
	b.spawnNext(false)
}

// spawnNext は供給から次のピースを取り出して出現させます。
// 出現列はプレビューに新しく表示されるピースの幅を基準に中央寄せします。
func (b *Board) spawnNext(notify bool) {
	if !b.hasNext {
		b.next = b.supply.Next()
		b.hasNext = true
	}
	kind := b.next
	b.next = b.supply.Next()

	y := b.height - 1
	if kind == tetris.TypeI {
		y = b.height - 2
	}
	x := (b.width - b.next.Width()) / 2

	piece := tetris.NewMovablePiece(kind, tetris.NewPoint(x, y))
	b.current = &piece

	if notify {
		b.bus.publish(NextPieceChanged{Old: kind, New: b.next})
	}
}

// canMove は操作を受け付けられる状態かどうかを返します。
func (b *Board) canMove() bool {
	return !b.gameOver && b.current != nil
}

// IsLegal はピースの全セルが左右の壁の内側、最下段以上にあり、固定済みブロックと重ならないかを判定します。
// 上方向には制限がありません。
func (b *Board) IsLegal(p tetris.MovablePiece) bool {
	return isPieceLegal(b.grid, b.width, p)
}

func isPieceLegal(grid tetris.Grid, width int, p tetris.MovablePiece) bool {
	for _, cell := range p.Cells() {
		if cell.X < 0 || cell.X >= width || cell.Y < 0 {
			return false
		}
		if grid.IsOccupied(cell) {
			return false
		}
	}
	return true
}

// setCurrent は操作中のピースを置き換えます。ハードドロップ中以外は CurrentPieceChanged を通知します。
// 呼び出し時点で操作中のピースが存在している必要があります。
func (b *Board) setCurrent(p tetris.MovablePiece) {
	old := *b.current
	b.current = &p
	if !b.fastDrop {
		b.bus.publish(CurrentPieceChanged{Old: old, New: p})
	}
}

// tryMove は候補位置が合法であれば確定します。
func (b *Board) tryMove(candidate tetris.MovablePiece) bool {
	if !b.IsLegal(candidate) {
		return false
	}
	b.setCurrent(candidate)
	return true
}

// Step は1ティック分の自動落下です。Down と同じ動作をします。
func (b *Board) Step() bool { return b.Down() }

// Down はピースを1行下げます。下げられない場合はその場で固定します。
//
// Returns:
//   bool: 移動または固定が行われた場合は true
func (b *Board) Down() bool {
	if !b.canMove() {
		return false
	}
	if b.tryMove(b.current.Down()) {
		return true
	}
	b.freeze()
	return true
}

// Left はピースを1列左に動かします。動かせない場合は何もしません。
func (b *Board) Left() bool {
	if !b.canMove() {
		return false
	}
	return b.tryMove(b.current.Left())
}

// Right はピースを1列右に動かします。動かせない場合は何もしません。
func (b *Board) Right() bool {
	if !b.canMove() {
		return false
	}
	return b.tryMove(b.current.Right())
}

// RotateCW はピースを時計回りに回転させます。
func (b *Board) RotateCW() bool { return b.rotate(true) }

// RotateCCW はピースを反時計回りに回転させます。
func (b *Board) RotateCCW() bool { return b.rotate(false) }

// rotate は回転後の形状に壁蹴りオフセットを順に適用し、最初に合法となった位置で確定します。
// Oミノの候補は (0, 0) のみです。
func (b *Board) rotate(clockwise bool) bool {
	if !b.canMove() {
		return false
	}
	from := b.current.Rotation
	rotated := b.current.RotateCCW()
	if clockwise {
		rotated = b.current.RotateCW()
	}
	for _, kick := range tetris.WallKicks(rotated.Type, from, rotated.Rotation) {
		if b.tryMove(rotated.TranslateBy(kick)) {
			return true
		}
	}
	return false
}

// Drop はピースを落とせるところまで一気に落として固定します（ハードドロップ）。
// 途中の移動では CurrentPieceChanged を通知せず、FrozenGridChanged が1回だけ通知されます。
func (b *Board) Drop() bool {
	if !b.canMove() {
		return false
	}
	b.fastDrop = true
	for {
		lower := b.current.Down()
		if !b.IsLegal(lower) {
			break
		}
		b.setCurrent(lower)
	}
	b.fastDrop = false
	return b.Down()
}

// freeze は操作中のピースをグリッドに固定し、揃った行を消去して次のピースを出現させます。
// イベントの順序は GameOverChanged(true)（該当時のみ）, RowsCleared, NextPieceChanged, FrozenGridChanged です。
func (b *Board) freeze() {
	piece := *b.current
	block := piece.Type.Block()
	for _, cell := range piece.Cells() {
		b.commitCell(cell, block)
	}

	if rows := b.grid.ClearFullRows(); len(rows) > 0 {
		b.bus.publish(RowsCleared{Rows: rows})
	}

	if !b.gameOver {
		b.spawnNext(true)
	}
	b.bus.publish(FrozenGridChanged{Grid: b.grid.Clone()})
}

// commitCell はセルをグリッドに書き込みます。グリッドより上のセルはゲームオーバーとして扱い、書き込みは破棄します。
func (b *Board) commitCell(cell tetris.Point, block tetris.BlockType) {
	if cell.Y < b.grid.Height() {
		b.grid.Set(cell, block)
		return
	}
	if !b.gameOver {
		b.gameOver = true
		log.Printf("[Board] ゲームオーバー: セル %s がボードの上端を超えました", cell)
		b.bus.publish(GameOverChanged{GameOver: true})
	}
}

// Ghost は操作中のピースをそのまま落とした場合の着地位置を返します。
// プレイ中以外は false を返します。
func (b *Board) Ghost() (tetris.MovablePiece, bool) {
	if b.State() != StateActive {
		return tetris.MovablePiece{}, false
	}
	return ProjectGhost(*b.current, b.grid), true
}

// DisplayGrid は表示用のグリッドを返します。上部に見えない領域 (HiddenRows 行) を追加し、
// プレイ中であれば操作中のピースを重ねて描画します。
func (b *Board) DisplayGrid() tetris.Grid {
	display := b.grid.Clone()
	for i := 0; i < tetris.HiddenRows; i++ {
		display = append(display, make([]tetris.BlockType, b.width))
	}
	if b.State() == StateActive {
		block := b.current.Type.Block()
		for _, cell := range b.current.Cells() {
			display.Set(cell, block)
		}
	}
	return display
}

// String は表示用グリッドを文字列化します。見えない領域と表示部分の境界に区切り線を入れます。
func (b *Board) String() string {
	lines := strings.Split(strings.TrimSuffix(b.DisplayGrid().String(), "\n"), "\n")
	var sb strings.Builder
	for i, line := range lines {
		if i == tetris.HiddenRows {
			sb.WriteString(strings.Repeat("-", b.width))
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
