package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

// command はゲーム操作以外のキー入力です。
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdPause
	cmdNewGame
)

// keyBinding はキー入力をゲーム操作または制御コマンドに変換します。
func keyBinding(ev *tcell.EventKey) (action string, cmd command) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return "", cmdQuit
	case tcell.KeyLeft:
		return tetris.ActionMoveLeft, cmdNone
	case tcell.KeyRight:
		return tetris.ActionMoveRight, cmdNone
	case tcell.KeyUp:
		return tetris.ActionRotateRight, cmdNone
	case tcell.KeyDown:
		return tetris.ActionSoftDrop, cmdNone
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return tetris.ActionHardDrop, cmdNone
		case 'x', 'X':
			return tetris.ActionRotateRight, cmdNone
		case 'z', 'Z':
			return tetris.ActionRotateLeft, cmdNone
		case 'h':
			return tetris.ActionMoveLeft, cmdNone
		case 'l':
			return tetris.ActionMoveRight, cmdNone
		case 'j':
			return tetris.ActionSoftDrop, cmdNone
		case 'p', 'P':
			return "", cmdPause
		case 'n', 'N':
			return "", cmdNewGame
		case 'q', 'Q':
			return "", cmdQuit
		}
	}
	return "", cmdNone
}
