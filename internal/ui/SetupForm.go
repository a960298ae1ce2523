package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/snakeagent/internal/game"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedColor = lipgloss.Color("205")
	blurredColor = lipgloss.Color("240")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = blurredStyle
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder())

	submitButtonStyle = buttonStyle.
				BorderForeground(focusedColor).
				Padding(0, 1)

	blurredButtonStyle = buttonStyle.
				BorderForeground(blurredColor).
				Padding(0, 1)
)

// setupErrorMsg is sent back by the controller when a game could not start.
type setupErrorMsg struct{ err error }

type SetupModel struct {
	strategies    []string
	strategyIndex int
	sizeInput     textinput.Model
	focusIndex    int // 0: Strategy, 1: Grid size, 2: Submit
	err           string
	width         int
	height        int
}

func NewInitialSetupModel(strategies []string, w, h int) SetupModel {
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%dx%d", game.DefaultGridWidth, game.DefaultGridHeight)
	ti.CharLimit = 7
	ti.PromptStyle = focusedStyle
	ti.TextStyle = focusedStyle

	return SetupModel{
		strategies: strategies,
		sizeInput:  ti,
		width:      w,
		height:     h,
	}
}

func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case setupErrorMsg:
		m.err = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		s := msg.String()

		if s == "enter" || s == "tab" || s == "shift+tab" {
			switch {
			case s == "enter" && m.focusIndex == 2:
				width, height, err := ParseGridSize(m.sizeInput.Value())
				if err != nil {
					m.err = err.Error()
					return m, nil
				}
				if len(m.strategies) == 0 {
					m.err = "no strategies registered"
					return m, nil
				}
				m.err = ""
				submit := SetupSubmitMsg{Strategy: m.strategies[m.strategyIndex], Width: width, Height: height}
				return m, func() tea.Msg { return submit }
			case s == "shift+tab":
				m.focusIndex = (m.focusIndex + 2) % 3
			default:
				m.focusIndex = (m.focusIndex + 1) % 3
			}
			if m.focusIndex == 1 {
				return m, m.sizeInput.Focus()
			}
			m.sizeInput.Blur()
			return m, nil
		}

		if m.focusIndex == 0 && len(m.strategies) > 0 {
			switch s {
			case "left", "up":
				m.strategyIndex = (m.strategyIndex - 1 + len(m.strategies)) % len(m.strategies)
				return m, nil
			case "right", "down":
				m.strategyIndex = (m.strategyIndex + 1) % len(m.strategies)
				return m, nil
			}
		}

		if m.focusIndex == 1 {
			var cmd tea.Cmd
			m.sizeInput, cmd = m.sizeInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// ParseGridSize reads "WxH" or a single side length. Empty input selects the
// default size.
func ParseGridSize(raw string) (int, int, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return game.DefaultGridWidth, game.DefaultGridHeight, nil
	}
	w, h, found := strings.Cut(raw, "x")
	if !found {
		h = w
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("bad grid width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("bad grid height %q", h)
	}
	if width < game.MinGridSide || height < game.MinGridSide || width > game.MaxGridSide || height > game.MaxGridSide {
		return 0, 0, fmt.Errorf("grid sides must be between %d and %d", game.MinGridSide, game.MaxGridSide)
	}
	return width, height, nil
}

func (m SetupModel) View() string {
	center := func(s string) string {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(s)
	}

	var b strings.Builder

	strategyPrompt := "Strategy (use arrows)"
	if m.focusIndex == 0 {
		b.WriteString(center(focusedStyle.Render(strategyPrompt)))
	} else {
		b.WriteString(center(blurredStyle.Render(strategyPrompt)))
	}
	b.WriteString("\n")

	options := make([]string, 0, len(m.strategies))
	for i, name := range m.strategies {
		if i == m.strategyIndex {
			options = append(options, submitButtonStyle.Render(name))
		} else {
			options = append(options, blurredButtonStyle.Render(name))
		}
	}
	b.WriteString(center(lipgloss.JoinHorizontal(lipgloss.Center, options...)))
	b.WriteString("\n\n")

	sizePrompt := "Grid size (WxH)"
	if m.focusIndex == 1 {
		b.WriteString(center(focusedStyle.Render(sizePrompt)))
	} else {
		b.WriteString(center(blurredStyle.Render(sizePrompt)))
	}
	b.WriteString("\n")
	b.WriteString(center(m.sizeInput.View()))
	b.WriteString("\n\n")

	submitText := "Start"
	if m.focusIndex == 2 {
		b.WriteString(center(submitButtonStyle.Render(submitText)))
	} else {
		b.WriteString(center(blurredButtonStyle.Render(submitText)))
	}
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(center(errorStyle.Render(m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(center(helpStyle.Render("(arrows to pick a strategy, tab/shift+tab to navigate, enter to confirm, ctrl+c to quit)")))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
