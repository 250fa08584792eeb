// Package shapesboom serves blokfall over ssh and to the browser.
package shapesboom

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/ghthor/gotty/v2/server"
	"github.com/ghthor/gotty/v2/utils"
	"github.com/ghthor/shapesboom/tshelper"
	"github.com/ghthor/shapesboom/tstea"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultShutdownTimeout = 30 * time.Second
	DefaultHostKeyPath     = ".ssh/id_ed25519"
)

// Server hosts one game per connection on the ssh and http listeners it is
// given. A nil listener disables that front door.
type Server struct {
	Listeners tshelper.Listeners
	NewModel  tstea.NewModel

	// NewProgram defaults to tstea.NewProgram.
	NewProgram tstea.NewTeaProgram

	HostKeyPath     string
	ShutdownTimeout time.Duration
}

// Run serves until ctx is done or a front door fails. The failure, if any,
// is returned after the ssh server has been shut down.
func (s *Server) Run(ctx context.Context) error {
	if s.Listeners.Ssh == nil && s.Listeners.Http == nil {
		return errors.New("no listeners")
	}

	newProg := s.NewProgram
	if newProg == nil {
		newProg = tstea.NewProgram
	}
	hostKey := s.HostKeyPath
	if hostKey == "" {
		hostKey = DefaultHostKeyPath
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	grp, grpCtx := errgroup.WithContext(ctx)

	var sshSrv *ssh.Server
	if s.Listeners.Ssh != nil {
		var err error
		sshSrv, err = wish.NewServer(
			wish.WithHostKeyPath(hostKey),
			wish.WithMiddleware(
				tstea.WishMiddleware(ctx, s.Listeners.Identifier, s.NewModel, newProg),
				logging.Middleware(),
			),
		)
		if err != nil {
			return fmt.Errorf("could not create ssh server: %w", err)
		}

		log.Info("Starting SSH server", "addr", s.Listeners.Ssh.Addr())
		RunSSH(grpCtx, grp, cancel, s.Listeners.Ssh, sshSrv)
	}

	if s.Listeners.Http != nil {
		fact := tstea.NewTeaTYFactory(ctx, s.Listeners.Identifier, s.NewModel, newProg)

		log.Infof("Starting HTTP server http://%s", s.Listeners.Http.Addr())
		if err := RunHTTP(grpCtx, grp, cancel, s.Listeners.Http, fact); err != nil {
			cancel(err)
		}
	}

	<-ctx.Done()
	err := context.Cause(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if sshSrv != nil {
		log.Info("Stopping SSH server")
		err = errors.Join(err, ShutdownSSH(sshSrv, s.ShutdownTimeout))
	}

	// failures were already reported through cancel
	_ = grp.Wait()
	return err
}

func RunSSH(ctx context.Context, grp *errgroup.Group, cancel context.CancelCauseFunc, l net.Listener, s *ssh.Server) {
	grp.Go(func() error {
		if err := s.Serve(l); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			err = fmt.Errorf("ssh server: %w", err)
			cancel(err)
			return err
		}
		return nil
	})
}

func ShutdownSSH(s *ssh.Server, timeout time.Duration) error {
	if timeout == 0 {
		timeout = DefaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		if errors.Is(err, context.DeadlineExceeded) {
			return s.Close()
		}
		return err
	}
	return nil
}

// RunHTTP serves browser terminals backed by fact on l.
func RunHTTP(ctx context.Context, grp *errgroup.Group, cancel context.CancelCauseFunc, l net.Listener, fact server.Factory) error {
	var (
		err        error
		appOptions = &server.Options{}
	)

	if err = utils.ApplyDefaultValues(appOptions); err != nil {
		return fmt.Errorf("gotty default options failure: %w", err)
	}
	appOptions.Preferences = &server.HtermPrefernces{}
	if err = utils.ApplyDefaultValues(appOptions.Preferences); err != nil {
		return fmt.Errorf("gotty default hterm preferences failure: %w", err)
	}
	appOptions.Preferences.EnableWebGL = true
	appOptions.PermitWrite = true

	if err = appOptions.Validate(); err != nil {
		return fmt.Errorf("gotty options validation failure: %w", err)
	}

	var gottySrv *server.Server
	gottySrv, err = server.New(fact, appOptions)
	if err != nil {
		return fmt.Errorf("error creating gotty server: %w", err)
	}

	grp.Go(func() error {
		if serr := gottySrv.Run(ctx, server.WithListener(l)); serr != nil && !errors.Is(serr, context.Canceled) {
			serr = fmt.Errorf("http server: %w", serr)
			cancel(serr)
			return serr
		}
		return nil
	})

	return nil
}
