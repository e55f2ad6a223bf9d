// Package tui is the single-player terminal frontend built on bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/frontend/console"
	"github.com/cory-johannsen/sugoroku/internal/frontend/render"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
)

// StartFunc creates the controller for a new game.
type StartFunc func(opts session.Options) (*session.Controller, error)

type screen int

const (
	screenStart screen = iota
	screenPlaying
	screenOver
	screenError
)

const (
	logShare     = 0.7
	chromeHeight = 6
)

type model struct {
	screen          screen
	start           StartFunc
	computerPlayers int
	style           render.Style
	logger          *zap.Logger

	ctrl   *session.Controller
	driver *console.Driver

	input    textinput.Model
	viewport viewport.Model
	lines    []string
	err      error
	width    int
	height   int
}

// NewModel returns the initial model.
//
// Precondition: start and logger are non-nil.
func NewModel(start StartFunc, computerPlayers int, logger *zap.Logger) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "Enter で開始 / replay <コード>"
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 60

	return model{
		screen:          screenStart,
		start:           start,
		computerPlayers: computerPlayers,
		style:           DefaultPalette,
		logger:          logger,
		input:           ti,
		viewport:        viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.ctrl != nil {
				m.ctrl.Close()
			}
			return m, tea.Quit
		case tea.KeyEnter:
			return m.enter()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * logShare)
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	if m.screen == screenStart || m.screen == screenPlaying {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m model) enter() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	m.input.Reset()

	switch m.screen {
	case screenStart:
		opts, err := console.ParseStart(value, m.computerPlayers)
		if err != nil {
			m.append(m.style.Apply(render.RoleNegative, err.Error()))
			return m, nil
		}
		ctrl, err := m.start(opts)
		if err == nil {
			m.driver, err = console.NewDriver(ctrl, m.style, m.logger)
		}
		if err != nil {
			m.err = err
			m.screen = screenError
			return m, nil
		}
		m.ctrl = ctrl
		m.screen = screenPlaying
		m.input.Placeholder = "Enter で振る / help"
		m.advance()
	case screenPlaying:
		out, resume := m.driver.Command(value)
		m.append(out...)
		if resume {
			m.advance()
		}
	case screenOver, screenError:
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) advance() {
	lines, done := m.driver.Advance()
	m.append(lines...)
	if done {
		m.screen = screenOver
		m.input.Blur()
	}
}

func (m *model) append(lines ...string) {
	m.lines = append(m.lines, lines...)
	m.refresh()
}

func (m *model) refresh() {
	w := m.viewport.Width
	wrapped := lipgloss.NewStyle().Width(w).Render(strings.Join(m.lines, "\n"))
	m.viewport.SetContent(wrapped)
	m.viewport.GotoBottom()
}

func (m model) View() string {
	var s string
	switch m.screen {
	case screenStart:
		s = lipgloss.JoinVertical(lipgloss.Left,
			m.style.Apply(render.RoleTitle, "すごろく"),
			"",
			strings.Join(m.lines, "\n"),
			m.input.View(),
		)
	case screenPlaying, screenOver:
		main := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.panel())
		footer := m.input.View()
		help := helpStyle.Render("help: コマンド一覧  Esc: 終了")
		if m.screen == screenOver {
			footer = ""
			help = helpStyle.Render("Enter / Esc: 終了")
		}
		s = lipgloss.JoinVertical(lipgloss.Left, main, "\n"+footer, help)
	case screenError:
		s = "\n  エラー: " + m.err.Error() + "\n\n  Esc で終了します。"
	}
	return "\n" + s + "\n"
}

func (m model) panel() string {
	if m.ctrl == nil {
		return ""
	}
	content := headingStyle.Render("状況") + "\n" + strings.Join(render.Standings(m.ctrl.State(), m.style), "\n")
	width := max(m.width-m.viewport.Width-4, 10)
	return panelStyle.Width(width).Height(m.viewport.Height).Render(content)
}

// Run plays games in the terminal until the player exits or ctx ends.
func Run(ctx context.Context, start StartFunc, computerPlayers int, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(start, computerPlayers, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
