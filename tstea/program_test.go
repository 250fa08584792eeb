package tstea

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayerString(t *testing.T) {
	p := Player{Name: "ghthor"}
	require.Equal(t, "ghthor", p.String())

	p.Addr = &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 2222}
	require.Equal(t, "ghthor 10.0.0.7:2222", p.String())
}

func TestIdentifyDefaultsToAddr(t *testing.T) {
	name, err := identify(t.Context(), nil, &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 2222})
	require.NoError(t, err)
	require.Equal(t, "10.0.0.7", name)
}
