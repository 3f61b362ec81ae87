// Package preview runs the display rotation in a terminal, so a catalog can
// be checked without a kiosk browser.
package preview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"menu-signage/display"
	"menu-signage/models"
	"menu-signage/utils"
)

// chromeLines is what the preview draws around the slots: header, status
// and borders.
const chromeLines = 6

// TerminalProbe fits rows against the terminal height. It is told the
// height through the session's viewport like the kiosk browser is.
type TerminalProbe struct {
	lines display.LineProbe
}

var (
	_ display.SizeProbe     = (*TerminalProbe)(nil)
	_ display.ViewportAware = (*TerminalProbe)(nil)
)

// NewTerminalProbe starts with lines per slot until the first resize.
func NewTerminalProbe(lines int) *TerminalProbe {
	return &TerminalProbe{lines: display.LineProbe{Lines: lines}}
}

// Fits implements display.SizeProbe
func (p *TerminalProbe) Fits(slot *display.Slot) (bool, error) {
	return p.lines.Fits(slot)
}

// SetViewport implements display.ViewportAware
func (p *TerminalProbe) SetViewport(width, height int) {
	if height > chromeLines {
		p.lines.Lines = height - chromeLines
	}
}

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model of the preview
type Model struct {
	session  *display.Session
	interval time.Duration
	frame    display.Frame
	footer   string
	width    int
	height   int
	paused   bool
}

// New creates a preview over session. The session should already be loaded.
func New(session *display.Session, interval time.Duration, settings models.DisplaySettings) Model {
	if interval <= 0 {
		interval = 6 * time.Second
	}
	m := Model{
		session:  session,
		interval: interval,
		frame:    session.Frame(),
	}
	if settings.FooterEnabled {
		m.footer = strings.Join(settings.FooterLines(), "  ·  ")
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.frame = m.session.Resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		if !m.paused {
			m.frame = m.session.Tick(time.Time(msg))
		}
		return m, tick(m.interval)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "n", "right":
			m.frame = m.session.Tick(time.Now())
		case "c":
			cols := 1
			if m.session.Columns() == 1 {
				cols = 2
			}
			m.session.SetColumns(cols)
			m.frame = m.session.Frame()
		}
	}
	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	slotStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4B5563")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	priceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(DayTitle(m.frame.RenderedAt)))
	b.WriteString("\n")

	var slots []string
	for _, index := range display.SlotOrder {
		slot := m.frame.Slot(index)
		if slot == nil || !slot.Visible() {
			continue
		}
		slots = append(slots, slotStyle.Width(m.slotWidth(len(m.frame.Slots))).Render(renderSlot(slot)))
	}
	if len(slots) == 0 {
		b.WriteString(dimStyle.Render("nothing to show"))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, slots...))
	}
	b.WriteString("\n")
	if m.footer != "" {
		b.WriteString(m.footer + "\n")
	}

	status := fmt.Sprintf("category %d page %d · %d columns · frame %d",
		m.frame.State.CategoryIndex, m.frame.State.PagePartIndex, m.frame.Columns, m.frame.Sequence)
	if m.paused {
		status += " · paused"
	}
	b.WriteString(dimStyle.Render(status + "   [n]ext [p]ause [c]olumns [q]uit"))
	return b.String()
}

// DayTitle is the header line of the board
func DayTitle(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("Team Pinas - %s Menu", at.Weekday())
}

func (m Model) slotWidth(n int) int {
	if m.width <= 0 || n <= 0 {
		return 40
	}
	cols := m.frame.Columns
	if cols <= 0 {
		cols = 1
	}
	return m.width/cols - 4
}

func renderSlot(slot *display.Slot) string {
	lines := []string{titleStyle.Render(utils.CleanName(slot.Title)), dimStyle.Render("────")}
	for _, row := range slot.Rows {
		line := row.Name + "  " + priceStyle.Render(row.Price)
		switch {
		case row.OnSale:
			line += " " + badgeStyle.Render("Aanbieding")
		case row.IsNew:
			line += " " + badgeStyle.Render("Nieuw")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Run starts the preview in the alternate screen and blocks until quit
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
