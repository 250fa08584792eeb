package shapesboom

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghthor/shapesboom/tshelper"
	"github.com/ghthor/shapesboom/tstea"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, l net.Listener) *Server {
	t.Helper()
	return &Server{
		Listeners: tshelper.Listeners{
			Ssh:        l,
			Identifier: tshelper.AddrIdentifier{},
		},
		NewModel: func(context.Context, tstea.Player) tea.Model {
			t.Fatal("no connections are made")
			return nil
		},
		HostKeyPath:     filepath.Join(t.TempDir(), "id_ed25519"),
		ShutdownTimeout: time.Second,
	}
}

func TestServerRequiresListeners(t *testing.T) {
	s := &Server{}
	require.Error(t, s.Run(t.Context()))
}

func TestServerStopsWhenCanceled(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := newTestServer(t, l)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerReportsListenerFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, l.Close())

	s := newTestServer(t, l)

	done := make(chan error, 1)
	go func() { done <- s.Run(t.Context()) }()

	select {
	case err := <-done:
		require.ErrorContains(t, err, "ssh server")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
