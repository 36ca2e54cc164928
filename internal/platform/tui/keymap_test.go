package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected core.Action
		exit     bool
	}{
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"a", runeKey('a'), core.ActionLeft, false},
		{"A", runeKey('A'), core.ActionLeft, false},
		{"h", runeKey('h'), core.ActionLeft, false},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"l", runeKey('l'), core.ActionRight, false},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotate, false},
		{"w", runeKey('w'), core.ActionRotate, false},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionSoftDrop, false},
		{"j", runeKey('j'), core.ActionSoftDrop, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionHardDrop, false},
		{"p", runeKey('p'), core.ActionPause, false},
		{"q", runeKey('q'), core.ActionQuit, false},
		{"r", runeKey('r'), core.ActionRestart, false},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionNone, true},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionNone, true},
		{"unmapped", runeKey('z'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, exit := km.MapKey(tt.msg)
			if action != tt.expected || exit != tt.exit {
				t.Errorf("MapKey(%q) = %v, %v, expected %v, %v", tt.msg.String(), action, exit, tt.expected, tt.exit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := DefaultKeyMap()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey('a'), &frame) {
		t.Error("left reported exit")
	}
	km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, &frame)

	if !frame.Has(core.ActionLeft) || !frame.Has(core.ActionHardDrop) {
		t.Error("frame missing mapped actions")
	}
	if !km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyCtrlC}, &frame) {
		t.Error("ctrl+c did not report exit")
	}
}
