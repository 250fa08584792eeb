package main

// shapesboom is a falling block puzzle for the terminal. It plays locally or
// serves a game per connection over ssh (wish) and to the browser (gotty),
// optionally on a tailnet.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/ghthor/shapesboom"
	"github.com/ghthor/shapesboom/blokfall"
	"github.com/ghthor/shapesboom/bubbles/playfield"
	"github.com/ghthor/shapesboom/store"
	"github.com/ghthor/shapesboom/tshelper"
	"github.com/ghthor/shapesboom/tstea"
)

var (
	serve     bool
	sshPort   int    = 23234
	httpPort  int    = 28080
	host      string = "localhost"
	tailscale string
	hostKey   string = shapesboom.DefaultHostKeyPath
	dbPath    string
	logPath   string = "shapesboom.log"
	seed      uint64
	debug     bool
	events    int
)

func init() {
	switch os.Getenv("SHAPESBOOM_LOG_FORMAT") {
	case "json":
		log.SetFormatter(log.JSONFormatter)
	}
}

// gameStore keeps the high score and the event log.
type gameStore interface {
	blokfall.HighScoreStore
	blokfall.Recorder
	Read(n int) ([]store.Recordable, error)
}

func main() {
	flag.BoolVar(&serve, "serve", false, "serve games over ssh and http instead of playing locally")
	flag.IntVar(&sshPort, "ssh-port", sshPort, "port for ssh listener, 0 disables")
	flag.IntVar(&httpPort, "http-port", httpPort, "port for http listener, 0 disables")
	flag.StringVar(&host, "host", host, "address to listen on when not using tailscale")
	flag.StringVar(&tailscale, "tailscale", "", "join the tailnet with this device hostname")
	flag.StringVar(&hostKey, "host-key", hostKey, "ssh host key path")
	flag.StringVar(&dbPath, "db", "", "sqlite database for high scores, in memory when empty")
	flag.StringVar(&logPath, "log", logPath, "log file used while playing locally")
	flag.Uint64Var(&seed, "seed", 0, "seed for shape selection, random when 0")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.IntVar(&events, "events", 0, "print the n most recent game events from -db and exit")

	flag.Parse()

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, closeStore, err := openStore(ctx, dbPath)
	if err != nil {
		log.Fatal("failed to open store", "db", dbPath, "error", err)
	}
	defer closeLogged(closeStore)

	switch {
	case events > 0:
		err = printEvents(os.Stdout, st, events)
	case serve:
		err = runServer(ctx, st)
	default:
		err = runLocal(ctx, st)
	}
	if err != nil {
		log.Error("shapesboom", "error", err)
		closeLogged(closeStore)
		os.Exit(1)
	}
}

// printEvents writes the n most recent events as a table, oldest first.
func printEvents(w io.Writer, st gameStore, n int) error {
	recs, err := st.Read(n)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("at", "event", "session", "score", "detail")

	for _, r := range recs {
		var (
			sess, detail string
			score        int
		)
		switch e := r.(type) {
		case blokfall.RowsClearedEvent:
			sess, score, detail = e.Session, e.Score, fmt.Sprintf("%d rows", e.Rows)
		case blokfall.HighScoreEvent:
			sess, score, detail = e.Session, e.Score, fmt.Sprintf("was %d", e.Previous)
		case blokfall.GameOverEvent:
			sess, score = e.Session, e.Score
		default:
			detail = fmt.Sprintf("%+v", r)
		}
		t.Row(r.Ts().Format(time.DateTime), r.TypeName(), sess, fmt.Sprint(score), detail)
	}

	_, err = fmt.Fprintln(w, t.Render())
	return err
}

func closeLogged(closeStore func() error) {
	if err := closeStore(); err != nil {
		log.Error("failed to close store", "error", err)
	}
}

func openStore(ctx context.Context, path string) (gameStore, func() error, error) {
	if path == "" {
		return store.NewMemory(0), func() error { return nil }, nil
	}

	db, err := store.OpenSqlite(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

func sessionOptions(st gameStore, logger *log.Logger) []blokfall.Option {
	opts := []blokfall.Option{
		blokfall.WithStore(st),
		blokfall.WithRecorder(st),
		blokfall.WithLogger(logger),
	}
	if seed != 0 {
		opts = append(opts, blokfall.WithSeed(seed))
	}
	return opts
}

func runLocal(ctx context.Context, st gameStore) error {
	// the TUI owns the terminal
	f, err := tea.LogToFile(logPath, "shapesboom")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	log.SetOutput(f)

	m := playfield.New(blokfall.DefaultConfig(), sessionOptions(st, log.Default())...)
	m.Player = os.Getenv("USER")

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func runServer(ctx context.Context, st gameStore) error {
	var (
		l   tshelper.Listeners
		err error
	)
	if tailscale != "" {
		l, err = tshelper.NewTailscaleListeners(tailscale, sshPort, httpPort)
	} else {
		l, err = tshelper.NewLocalListeners(host, sshPort, httpPort)
	}
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	defer l.Close()

	ip, err := l.WaitForIP(ctx)
	if err != nil {
		return fmt.Errorf("failed to wait for listener IP: %w", err)
	}
	log.Info("Listening", "ip", ip, "ssh", sshPort, "http", httpPort)

	s := &shapesboom.Server{
		Listeners:       l,
		NewModel:        newModel(st),
		HostKeyPath:     hostKey,
		ShutdownTimeout: 30 * time.Second,
	}
	return s.Run(ctx)
}

func newModel(st gameStore) tstea.NewModel {
	return func(ctx context.Context, p tstea.Player) tea.Model {
		logger := log.Default().With("player", p.String())
		logger.Info("player connected", "term", p.Term, "width", p.Width, "height", p.Height)
		context.AfterFunc(ctx, func() {
			logger.Info("player disconnected")
		})

		m := playfield.New(blokfall.DefaultConfig(), sessionOptions(st, logger)...)
		m.Player = p.Name
		return m
	}
}
