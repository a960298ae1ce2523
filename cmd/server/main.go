package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Mshel/snakeagent/internal/agent"
	"github.com/Mshel/snakeagent/internal/game"
	"github.com/Mshel/snakeagent/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "6996"

	maxConnectionsPerIP = 2
)

var (
	ipCounter = make(map[string]int)
	ipMutex   sync.Mutex
)

var (
	sessionConfig  game.Config
	sessionOptions agent.Options
	highScores     *game.HighScoreService
)

func getIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

func incrementIP(ip string) {
	ipMutex.Lock()
	defer ipMutex.Unlock()
	ipCounter[ip]++
}

func decrementIP(ip string) {
	ipMutex.Lock()
	defer ipMutex.Unlock()
	ipCounter[ip]--
	if ipCounter[ip] <= 0 {
		delete(ipCounter, ip)
	}
}

func getCount(ip string) int {
	ipMutex.Lock()
	defer ipMutex.Unlock()
	return ipCounter[ip]
}

func connectionLimiterMiddleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := getIP(s)
		currentCount := getCount(ip)

		if currentCount >= maxConnectionsPerIP {
			log.Warn("Connection denied: IP limit exceeded", "ip", ip, "attempted_count", currentCount+1, "current_limit", maxConnectionsPerIP)
			errorMessage := fmt.Sprintf("Too many active connections from your IP (%d/%d). Please try again later.\r\n", currentCount+1, maxConnectionsPerIP)
			s.Write([]byte(errorMessage))
			s.Close()
			return
		}

		incrementIP(ip)
		log.Info("Connection accepted", "ip", ip, "current_count", getCount(ip), "limit", maxConnectionsPerIP)
		next(s)
		decrementIP(ip)
		log.Info("Connection closed", "ip", ip, "count_after", getCount(ip))
	}
}

func main() {
	sessionConfig = game.DefaultConfig()
	sessionOptions = agent.DefaultOptions()

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	sessionConfig.RegisterFlags(fs)
	sessionOptions.RegisterFlags(fs)
	host := fs.String("host", defaultHost, "SSH listen host")
	port := fs.String("port", defaultPort, "SSH listen port")
	dbPath := fs.String("db", game.DefaultDBPath, "SQLite life history file")
	debug := fs.Bool("debug", false, "Log every move")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	var err error
	if highScores, err = game.NewHighScoreService(*dbPath); err != nil {
		log.Fatal("Could not open life history", "path", *dbPath, "error", err)
	}
	defer highScores.Close()

	sshPKeyPath := os.Getenv("SNAKEAGENT_PRIVATE_KEY_PATH")
	if sshPKeyPath == "" {
		sshPKeyPath = ".ssh/id_ed25519"
	}

	sshServer, serverCreateErr := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(*host, *port)),
		wish.WithHostKeyPath(sshPKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(viewHandler),
			logging.Middleware(),
			activeterm.Middleware(),
			connectionLimiterMiddleware,
		),
	)
	if serverCreateErr != nil {
		log.Fatal("Failed to create ssh server", "error", serverCreateErr)
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "host", *host, "port", *port)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sshServer.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
}

func viewHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()
	user := sshSession.User()

	newGame := func(setup ui.SetupSubmitMsg) (*game.GameManager, error) {
		cfg := sessionConfig
		cfg.Width, cfg.Height = setup.Width, setup.Height
		gm, err := agent.NewSession(cfg, setup.Strategy, sessionOptions, highScores)
		if err != nil {
			return nil, err
		}
		log.Info("Session started", "user", user, "strategy", setup.Strategy, "width", cfg.Width, "height", cfg.Height)
		return gm, nil
	}

	controllerModel := ui.NewControllerModel(sshSession.Context(), newGame, highScores, agent.Names(), pty.Window.Width, pty.Window.Height)
	return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
}
