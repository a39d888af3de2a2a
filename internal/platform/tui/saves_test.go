package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tetrus/internal/games/tetris"
)

func sendSaves(t *testing.T, m SavesModel, msgs ...tea.Msg) SavesModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(SavesModel); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func TestSavesBrowserEmpty(t *testing.T) {
	m := NewSavesModel(openStore(t), 80, 24)
	view := m.View()
	if !strings.Contains(view, "No saved games yet") {
		t.Errorf("empty view = %q", view)
	}

	// Enter and delete on an empty table are no-ops
	m = sendSaves(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runeKey('d'))
	if m.Selected() != nil {
		t.Error("nothing should be selected")
	}
}

func TestSavesBrowserNilStore(t *testing.T) {
	m := NewSavesModel(nil, 80, 24)
	m = sendSaves(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != nil {
		t.Error("nothing should be selected without a store")
	}
}

func TestSavesBrowserSelectAndDelete(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveGame(tetris.Standard.ID, "old", 40, 1, []byte("old")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if _, err := store.SaveGame(tetris.Classic.ID, "new", 100, 2, []byte("new")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	m := NewSavesModel(store, 100, 30)
	if got := len(m.table.Rows()); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	if !strings.Contains(m.View(), "All games") {
		t.Error("first filter should list all games")
	}

	// Newest save is highlighted first; delete it
	m = sendSaves(t, m, runeKey('d'))
	if got := len(m.table.Rows()); got != 1 {
		t.Fatalf("rows after delete = %d, want 1", got)
	}
	if !strings.Contains(m.View(), "Deleted save") {
		t.Error("delete should report a message")
	}

	m = sendSaves(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel := m.Selected()
	if sel == nil {
		t.Fatal("enter should select the highlighted save")
	}
	if sel.Name != "old" || string(sel.State) != "old" {
		t.Errorf("selected = %+v, want the old save with its state", sel)
	}
}

func TestSavesBrowserFilters(t *testing.T) {
	store := openStore(t)
	for _, id := range []string{tetris.Standard.ID, tetris.Classic.ID, tetris.Standard.ID} {
		if _, err := store.SaveGame(id, "", 0, 0, []byte("x")); err != nil {
			t.Fatalf("SaveGame() failed: %v", err)
		}
	}

	m := NewSavesModel(store, 80, 24)
	counts := map[string]int{}
	for range m.filters {
		counts[m.filters[m.filter].ID] = len(m.table.Rows())
		m = sendSaves(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.filter != 0 {
		t.Errorf("tab should wrap around, filter = %d", m.filter)
	}
	if counts[""] != 3 || counts[tetris.Standard.ID] != 2 || counts[tetris.Classic.ID] != 1 {
		t.Errorf("per-filter counts = %v", counts)
	}

	m = sendSaves(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.filter != len(m.filters)-1 {
		t.Errorf("shift+tab should wrap backwards, filter = %d", m.filter)
	}
}

func TestSavesBrowserBackAndQuit(t *testing.T) {
	m := sendSaves(t, NewSavesModel(nil, 80, 24), tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() || m.IsQuitting() {
		t.Error("esc should go back")
	}

	m = sendSaves(t, NewSavesModel(nil, 80, 24), runeKey('q'))
	if !m.IsQuitting() {
		t.Error("q should quit")
	}
}
