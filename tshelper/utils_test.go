package tshelper

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddrIdentifier(t *testing.T) {
	cases := map[string]string{
		"10.0.0.7:51234": "10.0.0.7",
		"[::1]:22":       "::1",
		"not-an-address": "not-an-address",
	}
	for addr, want := range cases {
		name, err := AddrIdentifier{}.Identify(t.Context(), addr)
		require.NoError(t, err)
		require.Equal(t, want, name, addr)
	}
}

func TestLocalListeners(t *testing.T) {
	l, err := NewLocalListeners("127.0.0.1", 0, 0)
	require.NoError(t, err)
	require.Nil(t, l.Ssh)
	require.Nil(t, l.Http)
	require.IsType(t, AddrIdentifier{}, l.Identifier)

	ip, err := l.WaitForIP(t.Context())
	require.NoError(t, err)
	require.Equal(t, netip.IPv4Unspecified(), ip)

	require.NoError(t, l.Close())
}
