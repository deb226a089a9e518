package tetris

import "fmt"

// Point はボード上の座標（列 X、行 Y）を表す値型です。
// Y は上方向に増加し、行 0 がボードの最下段になります。
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPoint は指定された列と行から Point を作成します。
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Translate は (dx, dy) だけ平行移動した新しい Point を返します。
// レシーバ自体は変更されません。
func (p Point) Translate(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// TranslateBy は別の Point をオフセットとして加算した新しい Point を返します。
func (p Point) TranslateBy(offset Point) Point {
	return p.Translate(offset.X, offset.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
