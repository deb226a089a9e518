package tetris

import (
	"fmt"
	"strings"
)

const (
	DefaultBoardWidth  = 10 // 標準のボード幅
	DefaultBoardHeight = 20 // 標準のボード高さ（表示部分）
	HiddenRows         = 4  // 表示用グリッドで上部に追加する見えない領域の行数
)

// BlockType はボード上のブロックの種類を表します。
// 各テトリミノの種類もブロックタイプとして扱います。
type BlockType int

const (
	BlockEmpty BlockType = iota // 0: 空のマス
	BlockI                      // 1: I-テトリミノ由来のブロック (PieceType 0 + 1)
	BlockO                      // 2: O-テトリミノ由来のブロック (PieceType 1 + 1)
	BlockT                      // 3: T-テトリミノ由来のブロック (PieceType 2 + 1)
	BlockS                      // 4: S-テトリミノ由来のブロック (PieceType 3 + 1)
	BlockZ                      // 5: Z-テトリミノ由来のブロック (PieceType 4 + 1)
	BlockJ                      // 6: J-テトリミノ由来のブロック (PieceType 5 + 1)
	BlockL                      // 7: L-テトリミノ由来のブロック (PieceType 6 + 1)
)

// IsEmpty は空のマスかどうかを返します。
func (b BlockType) IsEmpty() bool { return b == BlockEmpty }

// PieceType はこのブロックを生んだテトリミノの種類を返します。空のマスでは false を返します。
func (b BlockType) PieceType() (PieceType, bool) {
	t := PieceType(b - 1)
	if b == BlockEmpty || !t.Valid() {
		return TypeI, false
	}
	return t, true
}

// Rune はブロックを1文字で表現します。空のマスは '.' です。
func (b BlockType) Rune() rune {
	if t, ok := b.PieceType(); ok {
		return rune(t.String()[0])
	}
	return '.'
}

// Grid は固定済みブロックを保持する2次元スライスです。
// Grid[y][x] でアクセスし、行 0 が最下段、行 len(Grid)-1 が最上段です。
// ゲーム中は行数と各行の長さは一定に保たれます。
type Grid [][]BlockType

// NewGrid は指定サイズの空のグリッドを作成します。
func NewGrid(width, height int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]BlockType, width)
	}
	return g
}

// Width はグリッドの列数を返します。
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height はグリッドの行数を返します。
func (g Grid) Height() int { return len(g) }

// Clone はグリッドのディープコピーを返します。
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	for y, row := range g {
		c[y] = append([]BlockType(nil), row...)
	}
	return c
}

// Contains は座標がグリッドの範囲内にあるかどうかを返します。
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width() && p.Y >= 0 && p.Y < g.Height()
}

// At は指定座標のブロックを返します。範囲外は BlockEmpty として扱います。
func (g Grid) At(p Point) BlockType {
	if !g.Contains(p) {
		return BlockEmpty
	}
	return g[p.Y][p.X]
}

// IsOccupied は指定座標に固定済みブロックがあるかどうかを返します。
func (g Grid) IsOccupied(p Point) bool {
	return !g.At(p).IsEmpty()
}

// Set は指定座標にブロックを書き込みます。範囲外の場合は何もせず false を返します。
func (g Grid) Set(p Point, b BlockType) bool {
	if !g.Contains(p) {
		return false
	}
	g[p.Y][p.X] = b
	return true
}

// IsRowFull は指定行が全て埋まっているかどうかを返します。
func (g Grid) IsRowFull(y int) bool {
	if y < 0 || y >= len(g) {
		return false
	}
	for _, b := range g[y] {
		if b.IsEmpty() {
			return false
		}
	}
	return true
}

// FullRows は埋まっている行のインデックスを昇順で返します。
func (g Grid) FullRows() []int {
	var rows []int
	for y := range g {
		if g.IsRowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearFullRows は揃ったラインを取り除き、上のブロックを落とします。
// 取り除いた行と同じ数の空行を最上段に追加するため、行数は変わりません。
//
// Returns:
//   []int: クリアされた行のインデックス（クリア前の番号、昇順）
func (g Grid) ClearFullRows() []int {
	cleared := g.FullRows()
	if len(cleared) == 0 {
		return nil
	}

	width := g.Width()
	destY := 0 // 残す行をコピーする先の行
	for y := range g {
		if g.IsRowFull(y) {
			continue
		}
		if destY != y {
			copy(g[destY], g[y])
		}
		destY++
	}
	for y := destY; y < len(g); y++ {
		g[y] = make([]BlockType, width)
	}
	return cleared
}

// String はグリッドを最上段から順に1行ずつ文字列化します。
func (g Grid) String() string {
	var sb strings.Builder
	for y := len(g) - 1; y >= 0; y-- {
		for _, b := range g[y] {
			sb.WriteRune(b.Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseGrid は String と同じ形式（最上段が先頭、'.' が空）の行リストからグリッドを作成します。
// テストや盤面の初期配置に使用します。
//
// Parameters:
//   lines : 最上段から順に並んだ行の文字列
// Returns:
//   Grid: 作成されたグリッド
//   error: 行の長さが揃っていない、または不明な文字が含まれる場合
func ParseGrid(lines []string) (Grid, error) {
	g := make(Grid, len(lines))
	width := -1
	for i, line := range lines {
		if width >= 0 && len(line) != width {
			return nil, fmt.Errorf("%d行目の長さが不正です: %d (期待値 %d)", i, len(line), width)
		}
		width = len(line)
		row := make([]BlockType, width)
		for x, ch := range line {
			if ch == '.' {
				continue
			}
			t, ok := StringToPieceType(string(ch))
			if !ok {
				return nil, fmt.Errorf("%d行目に不明なブロック %q があります", i, ch)
			}
			row[x] = t.Block()
		}
		g[len(lines)-1-i] = row
	}
	return g, nil
}
