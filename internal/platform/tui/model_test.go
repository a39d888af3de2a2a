package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetrus/internal/core"
	"github.com/vovakirdan/tetrus/internal/games/tetris"
	"github.com/vovakirdan/tetrus/internal/registry"
	"github.com/vovakirdan/tetrus/internal/storage"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 25, TickRate: 60, Seed: 42}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(t *testing.T, store *storage.Store, opts ...Option) (Model, *tetris.Game) {
	t.Helper()
	game, err := registry.Create(tetris.Standard.ID)
	if err != nil {
		t.Fatalf("registry.Create() failed: %v", err)
	}
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	m := NewModel(game, store, testConfig(), opts...)
	m.Init()
	return m, game.(*tetris.Game)
}

// send feeds messages through Update and returns the resulting model.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func tick() tea.Msg {
	return TickMsg{}
}

func TestModelAppliesKeysOnTick(t *testing.T) {
	m, game := newTestModel(t, nil)
	x := game.Engine().Current().X

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if game.Engine().Current().X != x {
		t.Fatal("input should wait for the next tick")
	}
	m = send(t, m, tick())
	if got := game.Engine().Current().X; got != x-1 {
		t.Errorf("after left x = %d, want %d", got, x-1)
	}

	send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, tick())
	if game.Engine().Locked() != 1 {
		t.Errorf("Locked() = %d, want 1 after hard drop", game.Engine().Locked())
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	m, game := newTestModel(t, nil)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tick())
	beforeSnap := game.Engine().Snapshot()
	before := beforeSnap.Hash()

	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	afterSnap := game.Engine().Snapshot()
	if afterSnap.Hash() != before {
		t.Error("resize should not reset a running game")
	}
	if !strings.Contains(m.View(), "NEXT") {
		t.Error("view should still show the game panel")
	}
}

func TestModelRestart(t *testing.T) {
	m, game := newTestModel(t, nil)
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, tick())
	if game.Engine().Locked() != 1 {
		t.Fatalf("Locked() = %d, want 1", game.Engine().Locked())
	}

	// Restart only applies while paused or after game over
	m = send(t, m, runeKey('r'), tick())
	if game.Engine().Locked() != 1 {
		t.Fatal("restart during play should be ignored")
	}

	m = send(t, m, runeKey('p'), tick(), runeKey('r'), tick())
	if game.Engine().Locked() != 0 {
		t.Errorf("Locked() = %d after restart, want 0", game.Engine().Locked())
	}
	if m.GameState().Paused {
		t.Error("restarted game should not be paused")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if !next.(Model).IsQuitting() {
		t.Error("model should be quitting")
	}
	if next.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModelBackToMenu(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = send(t, m, runeKey('p'), tick(), tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Error("standalone model has no menu to go back to")
	}

	m, _ = newTestModel(t, nil, WithBackToMenu())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Error("back should be ignored while playing")
	}
	m = send(t, m, runeKey('p'), tick(), tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("back should leave a paused game")
	}
}

func TestModelSaveAndResume(t *testing.T) {
	store := openStore(t)
	m, game := newTestModel(t, store)

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, tick())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(m.Status(), "Saved #") {
		t.Fatalf("Status() = %q, want a saved message", m.Status())
	}
	if !strings.Contains(m.View(), "Saved #") {
		t.Error("view should show the save status")
	}

	saves, err := store.ListSaves(tetris.Standard.ID, 0)
	if err != nil {
		t.Fatalf("ListSaves() failed: %v", err)
	}
	if len(saves) != 1 {
		t.Fatalf("got %d saves, want 1", len(saves))
	}
	saved, err := store.LoadGame(saves[0].ID)
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}

	resumed, err := registry.Create(tetris.Standard.ID)
	if err != nil {
		t.Fatalf("registry.Create() failed: %v", err)
	}
	rm := NewModel(resumed, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 25, Seed: 7}, WithLogger(quietLogger()))
	if err := rm.Resume(saved.State); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	rm.Init()

	wantSnap := game.Engine().Snapshot()
	want := wantSnap.Hash()
	gotSnap := resumed.(*tetris.Game).Engine().Snapshot()
	if got := gotSnap.Hash(); got != want {
		t.Error("resumed game differs from the saved one")
	}
	if !rm.GameState().Paused {
		t.Error("resumed game should start paused")
	}
}

func TestModelSaveWithoutStore(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Status() != "Save failed" {
		t.Errorf("Status() = %q, want Save failed", m.Status())
	}

	// Status clears after a few seconds of ticks
	for range statusSeconds * testConfig().TickRate {
		m = send(t, m, tick())
	}
	if m.Status() != "" {
		t.Errorf("Status() = %q after timeout, want empty", m.Status())
	}
}

func TestModelResumeRejectsGarbage(t *testing.T) {
	game, err := registry.Create(tetris.Standard.ID)
	if err != nil {
		t.Fatalf("registry.Create() failed: %v", err)
	}
	m := NewModel(game, nil, testConfig(), WithLogger(quietLogger()))
	if err := m.Resume([]byte("not: [a snapshot")); err == nil {
		t.Error("Resume() should fail on garbage")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	screen := core.NewScreen(20, 3)
	screen.DrawTextColor(2, 1, "SCORE", core.ColorPurple)
	screen.DrawText(10, 2, "42")

	out := RenderScreen(screen)
	if !strings.Contains(out, "SCORE") || !strings.Contains(out, "42") {
		t.Errorf("RenderScreen lost text: %q", out)
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("RenderScreen rows = %d, want 3", got+1)
	}
}

func TestCellStyleDim(t *testing.T) {
	if cellStyle(core.Cell{Color: core.ColorCyan}).GetFaint() {
		t.Error("plain cell should not be faint")
	}
	if !cellStyle(core.Cell{Color: core.ColorCyan, Dim: true}).GetFaint() {
		t.Error("dim cell should be faint")
	}
	if !cellStyle(core.Cell{Color: core.Color(200), Dim: true}).GetFaint() {
		t.Error("unknown dim color should fall back to the faint default")
	}

	screen := core.NewScreen(4, 1)
	screen.SetColor(0, 0, 'a', core.ColorCyan)
	screen.SetDim(1, 0, 'b', core.ColorCyan)
	screen.SetDim(2, 0, 'c', core.ColorCyan)
	if out := RenderScreen(screen); !strings.Contains(out, "a") || !strings.Contains(out, "bc") {
		t.Errorf("RenderScreen lost dim text: %q", out)
	}
}
