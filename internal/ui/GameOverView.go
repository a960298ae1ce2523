package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/snakeagent/internal/game"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const leaderboardSize = 10

// GameOverState holds the data and local state for rendering the game over screens.
type GameOverState struct {
	HighScores     *game.HighScoreService
	Lives          int
	BestScore      int
	LastLife       game.LifeRecord
	HasLastLife    bool
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int
}

var (
	GameOverbuttonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Padding(0, 3).
				Margin(1, 1).
				Bold(true)

	selectedButtonStyle = GameOverbuttonStyle.
				Background(lipgloss.Color("4")).
				Foreground(lipgloss.Color("15"))

	leaderboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Align(lipgloss.Center)

	leaderboardRowStyle = lipgloss.NewStyle().
				Padding(0, 1)

	leaderboardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("8"))
)

// RenderGameOverScreen draws the session summary and buttons.
func (g *GameOverState) RenderGameOverScreen() string {
	messageStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9")).
		Padding(2, 5).
		Align(lipgloss.Center).
		Width(g.ScreenWidth - 4)

	title := messageStyle.Render("G A M E   O V E R")

	stats := fmt.Sprintf("\nSession:\nLives used: %d\nBest score: %d\n", g.Lives, g.BestScore)
	if g.HasLastLife {
		stats += fmt.Sprintf("Last death: %s after %d turns\n", g.LastLife.Cause, g.LastLife.TurnsAlive)
	}
	stats += "\n"

	exitButton := buttonStyle.Render("BACK (Enter)")
	leaderboardButton := buttonStyle.Render("LIFE HISTORY")

	if g.SelectedButton == 0 {
		exitButton = selectedButtonStyle.Render("BACK (Enter)")
	} else {
		leaderboardButton = selectedButtonStyle.Render("LIFE HISTORY")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, exitButton, leaderboardButton)
	content := lipgloss.JoinVertical(lipgloss.Center, title, stats, buttons)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}

// RenderLeaderboardScreen draws the best recorded lives.
func (g *GameOverState) RenderLeaderboardScreen() string {
	var tableContent strings.Builder

	var lives []game.LifeRecord
	total := 0
	if g.HighScores != nil {
		var err error
		if lives, err = g.HighScores.GetHighScores(leaderboardSize, 0); err != nil {
			log.Error("Could not load life history", "error", err)
		}
		if total, err = g.HighScores.GetTotalScoreCount(); err != nil {
			log.Error("Could not count life history", "error", err)
		}
	}

	agentWidth := 12
	scoreWidth := 7
	turnsWidth := 7
	causeWidth := 14

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		leaderboardHeaderStyle.Width(4).Render("#"),
		leaderboardHeaderStyle.Width(agentWidth).Render("Agent"),
		leaderboardHeaderStyle.Width(scoreWidth).Render("Score"),
		leaderboardHeaderStyle.Width(turnsWidth).Render("Turns"),
		leaderboardHeaderStyle.Width(causeWidth).Render("Death"),
	)
	tableContent.WriteString(header + "\n")

	for i, life := range lives {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			leaderboardRowStyle.Width(4).Render(strconv.Itoa(i+1)),
			leaderboardRowStyle.Width(agentWidth).Render(life.AgentName),
			leaderboardRowStyle.Width(scoreWidth).Render(strconv.Itoa(life.Score)),
			leaderboardRowStyle.Width(turnsWidth).Render(strconv.Itoa(life.TurnsAlive)),
			leaderboardRowStyle.Width(causeWidth).Render(string(life.Cause)),
		)
		tableContent.WriteString(leaderboardBorderStyle.Render(row) + "\n")
	}
	if len(lives) == 0 {
		tableContent.WriteString(leaderboardRowStyle.Render("No lives recorded yet.") + "\n")
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("LIFE HISTORY")
	summary := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("%d lives recorded", total))
	instruction := lipgloss.NewStyle().Faint(true).Margin(1, 0).Render("Press ESC or ENTER to go back.")

	finalContent := lipgloss.JoinVertical(lipgloss.Center,
		title,
		tableContent.String(),
		summary,
		instruction,
	)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(finalContent),
	)
}
