package tetris

// MovablePiece は操作中のテトリミノの状態（種類、ボード上の基準点座標、回転状態）を表します。
// 値型として扱い、移動や回転は常に新しい値を返します。
// 盤面との衝突判定は行いません。それは Board 側の責務です。
type MovablePiece struct {
	Type     PieceType     `json:"type"`
	Position Point         `json:"position"`
	Rotation RotationState `json:"rotation"`
}

// NewMovablePiece は出現時の向きのピースを指定位置に作成します。
func NewMovablePiece(t PieceType, position Point) MovablePiece {
	return MovablePiece{Type: t, Position: position, Rotation: RotationSpawn}
}

// Cells は現在の回転状態のブロック座標を基準点だけ平行移動した、ボード上の絶対座標を返します。
// 返されるセルは常に4つです。
func (p MovablePiece) Cells() [4]Point {
	offsets := p.Type.Offsets(p.Rotation)
	var cells [4]Point
	for i, offset := range offsets {
		cells[i] = p.Position.TranslateBy(offset)
	}
	return cells
}

// Left は1列左に移動したピースを返します。
func (p MovablePiece) Left() MovablePiece { return p.Translate(-1, 0) }

// Right は1列右に移動したピースを返します。
func (p MovablePiece) Right() MovablePiece { return p.Translate(1, 0) }

// Down は1行下に移動したピースを返します。
func (p MovablePiece) Down() MovablePiece { return p.Translate(0, -1) }

// Translate は基準点を (dx, dy) だけ移動したピースを返します。回転状態は保持されます。
func (p MovablePiece) Translate(dx, dy int) MovablePiece {
	p.Position = p.Position.Translate(dx, dy)
	return p
}

// TranslateBy は基準点に offset を加算したピースを返します。
func (p MovablePiece) TranslateBy(offset Point) MovablePiece {
	return p.Translate(offset.X, offset.Y)
}

// WithPosition は基準点を置き換えたピースを返します。
func (p MovablePiece) WithPosition(position Point) MovablePiece {
	p.Position = position
	return p
}

// RotateCW は時計回りに回転したピースを返します。基準点は変わりません。
func (p MovablePiece) RotateCW() MovablePiece {
	p.Rotation = p.Rotation.Clockwise()
	return p
}

// RotateCCW は反時計回りに回転したピースを返します。基準点は変わりません。
func (p MovablePiece) RotateCCW() MovablePiece {
	p.Rotation = p.Rotation.CounterClockwise()
	return p
}
