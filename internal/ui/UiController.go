package ui

import (
	"context"

	"github.com/Mshel/snakeagent/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
)

// Messages for state transitions
type IntroSubmitMsg int // 0 for Watch, 1 for Leaderboard
type SetupSubmitMsg struct {
	Strategy string
	Width    int
	Height   int
}

type ShowLeaderboardMsg struct{}

// GameFactory builds the engine for a submitted setup. The controller starts
// and stops its loop.
type GameFactory func(setup SetupSubmitMsg) (*game.GameManager, error)

type ControllerModel struct {
	CurrentScreen Screen
	NewGame       GameFactory
	HighScores    *game.HighScoreService

	IntroModel tea.Model
	SetupModel tea.Model
	GameModel  tea.Model

	ScreenWidth  int
	ScreenHeight int

	// ctx bounds every game loop the controller starts.
	ctx      context.Context
	stopGame context.CancelFunc
}

func NewControllerModel(ctx context.Context, newGame GameFactory, highScores *game.HighScoreService, strategies []string, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		ctx:           ctx,
		NewGame:       newGame,
		HighScores:    highScores,
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(screenWidth, screenHeight),
		SetupModel: NewInitialSetupModel(strategies, screenWidth, screenHeight),

		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Game Loading..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		// q is a plain character on the setup form.
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.CurrentScreen != SetupScreen) {
			m.endGame()
			return m, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.IntroModel, _ = m.IntroModel.Update(msg)
		m.SetupModel, _ = m.SetupModel.Update(msg)
		if m.GameModel != nil {
			m.GameModel, cmd = m.GameModel.Update(msg)
			cmds = append(cmds, cmd)
		}

	case IntroSubmitMsg:
		if msg == 0 {
			m.CurrentScreen = SetupScreen
			return m, m.SetupModel.Init()
		} else if msg == 1 {
			m.CurrentScreen = GameScreen
			m.GameModel = NewGameModel(nil, m.HighScores, m.ScreenWidth, m.ScreenHeight)
			return m, tea.Sequence(m.GameModel.Init(), func() tea.Msg { return ShowLeaderboardMsg{} })
		}

	case SetupSubmitMsg:
		gm, err := m.NewGame(msg)
		if err != nil {
			log.Error("Could not start game", "strategy", msg.Strategy, "error", err)
			m.SetupModel, cmd = m.SetupModel.Update(setupErrorMsg{err: err})
			return m, cmd
		}
		m.endGame()
		ctx, cancel := context.WithCancel(m.ctx)
		m.stopGame = cancel
		go gm.StartGameLoop(ctx)

		m.CurrentScreen = GameScreen
		m.GameModel = NewGameModel(gm, m.HighScores, m.ScreenWidth, m.ScreenHeight)
		return m, m.GameModel.Init()

	case QuitGameMsg:
		m.endGame()
		m.GameModel = nil
		m.CurrentScreen = IntroScreen
		return m, m.IntroModel.Init()

	default:
		switch m.CurrentScreen {
		case IntroScreen:
			m.IntroModel, cmd = m.IntroModel.Update(msg)
			cmds = append(cmds, cmd)
		case SetupScreen:
			m.SetupModel, cmd = m.SetupModel.Update(msg)
			cmds = append(cmds, cmd)
		case GameScreen:
			if m.GameModel != nil {
				m.GameModel, cmd = m.GameModel.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// Close stops a running game loop.
func (m ControllerModel) Close() {
	if m.stopGame != nil {
		m.stopGame()
	}
}

func (m *ControllerModel) endGame() {
	if m.stopGame != nil {
		m.stopGame()
		m.stopGame = nil
	}
}
