package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
	tetrisservice "github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

// 盤面の描画位置です。1マスは横2文字で描画します。
const (
	boardLeft = 2
	boardTop  = 1
	cellWidth = 2
)

var pieceColors = map[tetris.PieceType]tcell.Color{
	tetris.TypeI: tcell.ColorAqua,
	tetris.TypeO: tcell.ColorYellow,
	tetris.TypeT: tcell.ColorPurple,
	tetris.TypeS: tcell.ColorGreen,
	tetris.TypeZ: tcell.ColorRed,
	tetris.TypeJ: tcell.ColorBlue,
	tetris.TypeL: tcell.ColorOrange,
}

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	ghostStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

func pieceStyle(t tetris.PieceType) tcell.Style {
	return tcell.StyleDefault.Foreground(pieceColors[t])
}

// view は1フレームの描画に必要な情報です。
type view struct {
	snapshot   *tetrisservice.GameStateSnapshot
	player     string
	highScores []models.HighScoreResponse
	message    string
}

// cellOrigin は盤面座標 (x, y) の左端の画面座標を返します。y は下が0です。
func cellOrigin(height, x, y int) (int, int) {
	return boardLeft + 1 + x*cellWidth, boardTop + (height - 1 - y)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawCell(s tcell.Screen, height int, p tetris.Point, r rune, style tcell.Style) {
	if p.Y < 0 || p.Y >= height {
		return
	}
	x, y := cellOrigin(height, p.X, p.Y)
	for i := 0; i < cellWidth; i++ {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// draw は画面全体を描き直します。
func draw(s tcell.Screen, v view) {
	s.Clear()
	snap := v.snapshot
	w, h := snap.Width, snap.Height

	// 枠
	right := boardLeft + 1 + w*cellWidth
	bottom := boardTop + h
	for y := boardTop; y < bottom; y++ {
		s.SetContent(boardLeft, y, '│', nil, borderStyle)
		s.SetContent(right, y, '│', nil, borderStyle)
	}
	for x := boardLeft; x <= right; x++ {
		s.SetContent(x, bottom, '─', nil, borderStyle)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := tetris.NewPoint(x, y)
			if t, ok := snap.Grid.At(p).PieceType(); ok {
				drawCell(s, h, p, '█', pieceStyle(t))
			} else {
				drawCell(s, h, p, ' ', tcell.StyleDefault)
			}
		}
	}

	if snap.GhostPiece != nil {
		for _, c := range snap.GhostPiece.Cells() {
			drawCell(s, h, c, '░', ghostStyle)
		}
	}
	if snap.CurrentPiece != nil {
		for _, c := range snap.CurrentPiece.Cells() {
			drawCell(s, h, c, '█', pieceStyle(snap.CurrentPiece.Type))
		}
	}

	drawSidebar(s, right+3, v)
	s.Show()
}

func drawSidebar(s tcell.Screen, x int, v view) {
	snap := v.snapshot
	y := boardTop
	line := func(style tcell.Style, format string, args ...interface{}) {
		drawText(s, x, y, style, fmt.Sprintf(format, args...))
		y++
	}

	line(textStyle, "Player: %s", v.player)
	line(textStyle, "Score:  %d", snap.Score)
	line(textStyle, "Lines:  %d", snap.LinesCleared)
	line(textStyle, "Level:  %d (next in %d)", snap.Level, snap.NextLevelLines)
	y++

	if snap.NextPiece != nil {
		line(textStyle, "Next:")
		next := tetris.NewMovablePiece(*snap.NextPiece, tetris.NewPoint(0, 0))
		for _, c := range next.Cells() {
			px := x + 2 + c.X*cellWidth
			py := y + (next.Type.Height() - 1 - c.Y)
			for i := 0; i < cellWidth; i++ {
				s.SetContent(px+i, py, '█', nil, pieceStyle(next.Type))
			}
		}
		y += 3
	}

	switch {
	case snap.IsGameOver:
		line(tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true), "GAME OVER  [n] new game")
	case snap.Paused:
		line(tcell.StyleDefault.Foreground(tcell.ColorYellow), "PAUSED  [p] resume")
	}
	if v.message != "" {
		line(textStyle, "%s", v.message)
	}
	y++

	line(textStyle, "High Scores")
	for _, hs := range v.highScores {
		line(textStyle, "%2d. %-12s %7d", hs.Rank, hs.PlayerName, hs.Score)
	}
	y++

	line(borderStyle, "←/→ move  ↑/x rotate  z rotate left")
	line(borderStyle, "↓ soft drop  space hard drop")
	line(borderStyle, "p pause  n new game  q quit")
}
