package tshelper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"tailscale.com/client/local"
	"tailscale.com/tsnet"
)

// Identifier names the player behind a remote address.
type Identifier interface {
	Identify(ctx context.Context, remoteAddr string) (string, error)
}

// AddrIdentifier names players by their remote host.
type AddrIdentifier struct{}

func (AddrIdentifier) Identify(_ context.Context, remoteAddr string) (string, error) {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr, nil
	}
	return host, nil
}

// WhoIsIdentifier names players by their tailscale login.
type WhoIsIdentifier struct {
	Client *local.Client
}

func (w WhoIsIdentifier) Identify(ctx context.Context, remoteAddr string) (string, error) {
	who, err := w.Client.WhoIs(ctx, remoteAddr)
	if err != nil {
		return "", fmt.Errorf("tailscale WhoIs error: %w", err)
	}
	name, _, _ := strings.Cut(who.UserProfile.LoginName, "@")
	return name, nil
}

// Listeners holds the ssh and http listeners the game is served on. They
// either live on a tailnet (tsnet) or on the host network.
type Listeners struct {
	ts *tsnet.Server

	Ssh, Http net.Listener

	Identifier Identifier
}

// NewTailscaleListeners joins the tailnet as hostname and listens there.
func NewTailscaleListeners(hostname string, sshPort, httpPort int) (Listeners, error) {
	l := Listeners{}
	l.ts = new(tsnet.Server)
	l.ts.Hostname = hostname

	var err error
	l.Ssh, err = l.ts.Listen("tcp", net.JoinHostPort("", fmt.Sprint(sshPort)))
	if err != nil {
		return l, errors.Join(
			fmt.Errorf("failed to start ssh listener: %w", err),
			l.Close(),
		)
	}

	l.Http, err = l.ts.Listen("tcp", net.JoinHostPort("", fmt.Sprint(httpPort)))
	if err != nil {
		return l, errors.Join(
			fmt.Errorf("failed to start http listener: %w", err),
			l.Close(),
		)
	}

	client, err := l.ts.LocalClient()
	if err != nil {
		return l, errors.Join(
			fmt.Errorf("failed to create tsnet LocalClient(): %w", err),
			l.Close(),
		)
	}
	l.Identifier = WhoIsIdentifier{Client: client}

	return l, nil
}

// NewLocalListeners listens on host. A port of 0 disables that listener.
func NewLocalListeners(host string, sshPort, httpPort int) (Listeners, error) {
	l := Listeners{Identifier: AddrIdentifier{}}

	var err error
	if sshPort != 0 {
		l.Ssh, err = net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(sshPort)))
		if err != nil {
			return l, errors.Join(
				fmt.Errorf("failed to start ssh listener: %w", err),
				l.Close(),
			)
		}
	}

	if httpPort != 0 {
		l.Http, err = net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(httpPort)))
		if err != nil {
			return l, errors.Join(
				fmt.Errorf("failed to start http listener: %w", err),
				l.Close(),
			)
		}
	}

	return l, nil
}

// WaitForIP blocks until the listeners have an address worth logging. Local
// listeners return immediately.
func (l Listeners) WaitForIP(ctx context.Context) (netip.Addr, error) {
	if l.ts == nil {
		return netip.IPv4Unspecified(), nil
	}

	var (
		t    = time.NewTicker(time.Second)
		done = ctx.Done()
	)
	defer t.Stop()

	for {
		select {
		case <-done:
			return netip.Addr{}, ctx.Err()

		case <-t.C:
			v4, _ := l.ts.TailscaleIPs()
			if v4.IsValid() {
				return v4, nil
			}
			log.Info("Waiting for tailscale IP")
		}
	}
}

func (l Listeners) Close() error {
	errs := make([]error, 0, 3)
	if l.Ssh != nil {
		errs = append(errs, l.Ssh.Close())
	}
	if l.Http != nil {
		errs = append(errs, l.Http.Close())
	}
	if l.ts != nil {
		errs = append(errs, l.ts.Close())
	}

	return errors.Join(errs...)
}
