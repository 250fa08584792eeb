package tstea

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/creack/pty"
	"github.com/ghthor/gotty/v2/server"
	"github.com/ghthor/shapesboom/ctxhelp"
	"github.com/ghthor/shapesboom/tshelper"
	"github.com/gorilla/websocket"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
)

// Player describes who is on the other end of a connection and the terminal
// they are playing in.
type Player struct {
	Name string
	Addr net.Addr

	Term          string
	Width, Height int
}

func (p Player) String() string {
	if p.Addr == nil {
		return p.Name
	}
	return p.Name + " " + p.Addr.String()
}

type NewModel func(context.Context, Player) tea.Model
type NewTeaProgram func(context.Context, tea.Model, ...tea.ProgramOption) *tea.Program

// NewProgram is the default NewTeaProgram. The program is killed when ctx is
// done.
func NewProgram(ctx context.Context, m tea.Model, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(m, append(opts, tea.WithContext(ctx))...)
}

func identify(ctx context.Context, id tshelper.Identifier, addr net.Addr) (string, error) {
	if id == nil {
		id = tshelper.AddrIdentifier{}
	}
	return id.Identify(ctx, addr.String())
}

// WishMiddleware starts one bubbletea program per ssh session.
func WishMiddleware(ctx context.Context, id tshelper.Identifier, newModel NewModel, newProg NewTeaProgram) wish.Middleware {
	teaHandler := func(s ssh.Session) *tea.Program {
		name, err := identify(s.Context(), id, s.RemoteAddr())
		if err != nil {
			wish.Fatalln(s, "unable to identify player: ", err)
			return nil
		}

		pty, _, active := s.Pty()
		if !active {
			wish.Fatalln(s, "no active terminal, skipping")
			return nil
		}

		var (
			progCtx, _ = ctxhelp.Join(ctx, s.Context())
			m          = newModel(progCtx, Player{
				Name:   name,
				Addr:   s.RemoteAddr(),
				Term:   pty.Term,
				Width:  pty.Window.Width,
				Height: pty.Window.Height,
			})
		)
		return newProg(progCtx, m, bubbletea.MakeOptions(s)...)
	}
	return bubbletea.MiddlewareWithProgramHandler(teaHandler, termenv.ANSI256)
}

// TeaTYFactory starts one bubbletea program per browser terminal, attached
// to a fresh pty pair.
type TeaTYFactory struct {
	ctx context.Context
	id  tshelper.Identifier

	newModel NewModel
	newProg  NewTeaProgram
}

func NewTeaTYFactory(ctx context.Context, id tshelper.Identifier, newModel NewModel, newProg NewTeaProgram) *TeaTYFactory {
	return &TeaTYFactory{
		ctx: ctx,
		id:  id,

		newModel: newModel,
		newProg:  newProg,
	}
}

var _ server.Factory = &TeaTYFactory{}

func (*TeaTYFactory) Name() string { return "TeaTYFactory" }

func (f *TeaTYFactory) New(ctx context.Context, params map[string][]string, conn *websocket.Conn) (server.Slave, error) {
	ctx, cancel := ctxhelp.Join(f.ctx, ctx)

	name, err := identify(ctx, f.id, conn.RemoteAddr())
	if err != nil {
		cancel(err)
		return nil, err
	}

	p, t, err := pty.Open()
	if err != nil {
		cancel(err)
		return nil, fmt.Errorf("failed to pty.Open(): %w", err)
	}

	m := f.newModel(ctx, Player{
		Name:   name,
		Addr:   conn.RemoteAddr(),
		Term:   "xterm",
		Width:  80,
		Height: 40,
	})
	prog := f.newProg(ctx, m,
		tea.WithInput(t),
		tea.WithOutput(t),
	)

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer func() {
			t.Close()
			p.Close()
			conn.Close()
		}()

		_, err := prog.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
			cancel(err)
			return err
		}
		cancel(nil)
		return nil
	})

	return &TeaTYProgram{
		ctx: grpCtx,
		pty: p,
		tty: t,

		player:  name,
		grp:     grp,
		program: prog,
	}, nil
}

type TeaTYProgram struct {
	ctx context.Context

	pty, tty *os.File

	player  string
	grp     *errgroup.Group
	program *tea.Program
}

var _ server.Slave = &TeaTYProgram{}

func (t *TeaTYProgram) Read(p []byte) (n int, err error) {
	return t.pty.Read(p)
}

func (t *TeaTYProgram) Write(p []byte) (n int, err error) {
	return t.pty.Write(p)
}

func (t *TeaTYProgram) Close() error {
	t.tty.Close()
	t.pty.Close()
	t.program.Quit()
	return t.grp.Wait()
}

func (t *TeaTYProgram) WindowTitleVariables() map[string]any {
	return map[string]any{
		"player": t.player,
	}
}

func (t *TeaTYProgram) ResizeTerminal(width, height int) error {
	exp := &backoff.ExponentialBackOff{
		InitialInterval:     10 * time.Millisecond,
		RandomizationFactor: 0.0,
		Multiplier:          1.1,
		MaxInterval:         500 * time.Millisecond,
	}
	_, err := backoff.Retry(t.ctx, func() (struct{}, error) {
		return struct{}{}, errors.Join(
			pty.Setsize(t.pty, &pty.Winsize{
				Cols: uint16(width),
				Rows: uint16(height),
			}),
			pty.Setsize(t.tty, &pty.Winsize{
				Cols: uint16(width),
				Rows: uint16(height),
			}),
		)
	},
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(2*time.Second),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Warn("pty resize", "player", t.player, "error", err, "retrying", d)
		}),
	)
	if err != nil {
		log.Warn("pty resize retry exhausted", "player", t.player, "error", err)
		return err
	}
	t.program.Send(tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	})
	return nil
}
