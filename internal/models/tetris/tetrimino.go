package tetris

import (
	"encoding/json"
	"fmt"
)

// PieceType はテトリミノの種類を表します。
type PieceType int

const (
	TypeI PieceType = iota // 0: I-ミノ (シアン)
	TypeO                  // 1: O-ミノ (黄色)
	TypeT                  // 2: T-ミノ (紫)
	TypeS                  // 3: S-ミノ (緑)
	TypeZ                  // 4: Z-ミノ (赤)
	TypeJ                  // 5: J-ミノ (青)
	TypeL                  // 6: L-ミノ (オレンジ)
)

// AllPieceTypes は全7種類のテトリミノを定義順に並べたものです。
var AllPieceTypes = []PieceType{TypeI, TypeO, TypeT, TypeS, TypeZ, TypeJ, TypeL}

// pieceShape は1種類のテトリミノの形状データです。
// cells は [RotationState][BlockIndex] の順で、ピースの基準点からの相対座標 (Y は上向き) を持ちます。
type pieceShape struct {
	name   string
	width  int
	height int
	cells  [rotationStateCount][4]Point
}

// pieceShapes は各PieceTypeの各回転状態におけるブロックの相対座標を定義します。
// 回転状態の並びは Spawn, Right90, Two180, Left270 です。
// 座標は SRS の回転中心に合わせて配置しているため、Oミノは全ての状態で同じ形になります。
var pieceShapes = [...]pieceShape{
	TypeI: {
		name: "I", width: 4, height: 1,
		cells: [rotationStateCount][4]Point{
			{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
			{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
			{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
			{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
		},
	},
	TypeO: {
		name: "O", width: 2, height: 2,
		cells: [rotationStateCount][4]Point{
			{{1, 1}, {2, 1}, {1, 2}, {2, 2}},
			{{1, 1}, {2, 1}, {1, 2}, {2, 2}},
			{{1, 1}, {2, 1}, {1, 2}, {2, 2}},
			{{1, 1}, {2, 1}, {1, 2}, {2, 2}},
		},
	},
	TypeT: {
		name: "T", width: 3, height: 2,
		cells: [rotationStateCount][4]Point{
			{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
			{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
			{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
			{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
		},
	},
	TypeS: {
		name: "S", width: 3, height: 2,
		cells: [rotationStateCount][4]Point{
			{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
			{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
			{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
			{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
		},
	},
	TypeZ: {
		name: "Z", width: 3, height: 2,
		cells: [rotationStateCount][4]Point{
			{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
			{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
			{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
		},
	},
	TypeJ: {
		name: "J", width: 3, height: 2,
		cells: [rotationStateCount][4]Point{
			{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
			{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
			{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
		},
	},
	TypeL: {
		name: "L", width: 3, height: 2,
		cells: [rotationStateCount][4]Point{
			{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
			{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
			{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
			{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
		},
	},
}

// Valid は定義済みのテトリミノかどうかを返します。
func (t PieceType) Valid() bool {
	return t >= TypeI && int(t) < len(pieceShapes)
}

// shape は形状データを返します。未定義の値は I-ミノとして扱います。
func (t PieceType) shape() *pieceShape {
	if !t.Valid() {
		return &pieceShapes[TypeI]
	}
	return &pieceShapes[t]
}

// Offsets は指定された回転状態における4つのブロックの相対座標を返します。
//
// Parameters:
//   r : 回転状態
// Returns:
//   [4]Point: 基準点からの相対座標
func (t PieceType) Offsets(r RotationState) [4]Point {
	return t.shape().cells[r.normalize()]
}

// Width は出現時の向きでのバウンディングボックスの幅を返します。
func (t PieceType) Width() int { return t.shape().width }

// Height は出現時の向きでのバウンディングボックスの高さを返します。
func (t PieceType) Height() int { return t.shape().height }

// Block はこのテトリミノが固定されたときにボードへ書き込まれるブロックタイプを返します。
// PieceType (0-6) を BlockType (1-7) に変換します。
func (t PieceType) Block() BlockType {
	if !t.Valid() {
		return BlockI
	}
	return BlockType(t + 1)
}

func (t PieceType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
	return pieceShapes[t].name
}

// MarshalJSON はテトリミノを "I", "O" などの文字列として出力します。
func (t PieceType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("不明なテトリミノタイプです: %d", int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON は "I", "O" などの文字列からテトリミノを復元します。
func (t *PieceType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("テトリミノタイプのデコードに失敗しました: %w", err)
	}
	parsed, ok := StringToPieceType(s)
	if !ok {
		return fmt.Errorf("不明なテトリミノタイプです: %q", s)
	}
	*t = parsed
	return nil
}

// StringToPieceType は文字列のテトリミノタイプ（"I", "O", "T"など）をPieceTypeに変換します。
func StringToPieceType(s string) (PieceType, bool) {
	for _, t := range AllPieceTypes {
		if pieceShapes[t].name == s {
			return t, true
		}
	}
	return TypeI, false // デフォルト値とfalseを返す
}
