package tetris

import (
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// ProjectGhost はピースを1行ずつ下げ、次の位置が壁の外・最下段より下・固定済みブロックとの
// 重なりのいずれかになる直前の位置を返します。グリッドとピースは変更しません。
//
// Parameters:
//   piece : 投影するピース
//   grid  : 固定済みブロックのグリッド（幅はグリッドの列数を使用）
// Returns:
//   tetris.MovablePiece: 着地位置のピース
func ProjectGhost(piece tetris.MovablePiece, grid tetris.Grid) tetris.MovablePiece {
	width := grid.Width()
	ghost := piece
	for {
		lower := ghost.Down()
		if !isPieceLegal(grid, width, lower) {
			return ghost
		}
		ghost = lower
	}
}
