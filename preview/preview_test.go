package preview

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-signage/display"
	"menu-signage/models"
)

func testCatalog() *models.Catalog {
	return &models.Catalog{Categories: []models.Category{
		{Title: "Drinks", Items: []models.Item{
			{Name: "Cola", Price: models.PriceOf("2.50")},
			{Name: "Fanta", Price: models.PriceOf("2.50")},
		}},
		{Title: "Snacks", Items: []models.Item{
			{Name: "Chips", Price: models.PriceOf("1.75"), OnSale: true},
		}},
	}}
}

func newModel(t *testing.T) Model {
	t.Helper()
	session := display.NewSession(NewTerminalProbe(10), display.WithColumns(1))
	session.Load(testCatalog())
	return New(session, time.Second, models.DefaultDisplaySettings())
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestTerminalProbeFollowsHeight(t *testing.T) {
	p := NewTerminalProbe(4)
	slot := &display.Slot{Rows: make([]display.Row, 3)}

	ok, err := p.Fits(slot)
	require.NoError(t, err)
	assert.False(t, ok)

	p.SetViewport(80, 20)
	ok, err = p.Fits(slot)
	require.NoError(t, err)
	assert.True(t, ok)

	// a terminal too small to hold the chrome keeps the previous size
	p.SetViewport(80, 3)
	assert.Equal(t, 20-chromeLines, p.lines.Lines)
}

func TestInitSchedulesTick(t *testing.T) {
	assert.NotNil(t, newModel(t).Init())
}

func TestTickAdvancesUnlessPaused(t *testing.T) {
	m := newModel(t)
	assert.Equal(t, "Drinks", m.frame.Slot(display.PrimarySlot).Title)

	m, cmd := update(t, m, tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, "Snacks", m.frame.Slot(display.PrimarySlot).Title)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.True(t, m.paused)
	m, _ = update(t, m, tickMsg(time.Now()))
	assert.Equal(t, "Snacks", m.frame.Slot(display.PrimarySlot).Title)
}

func TestQuitKey(t *testing.T) {
	_, cmd := update(t, newModel(t), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewShowsSlotAndFooter(t *testing.T) {
	settings := models.DefaultDisplaySettings()
	settings.FooterText = "Welkom || Pin only"
	session := display.NewSession(NewTerminalProbe(10), display.WithColumns(1))
	session.Load(testCatalog())
	m := New(session, time.Second, settings)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	assert.Contains(t, view, "Drinks")
	assert.Contains(t, view, "Cola")
	assert.Contains(t, view, "Welkom  ·  Pin only")
	assert.Contains(t, view, "Team Pinas - ")
}

func TestViewEmptyCatalog(t *testing.T) {
	session := display.NewSession(NewTerminalProbe(10))
	session.Load(nil)
	m := New(session, 0, models.DefaultDisplaySettings())
	assert.Contains(t, m.View(), "nothing to show")
	assert.Equal(t, 6*time.Second, m.interval)
}

func TestDayTitle(t *testing.T) {
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Team Pinas - Monday Menu", DayTitle(monday))
}
