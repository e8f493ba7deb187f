package studio

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreePortSkipsBoundPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	taken := ln.Addr().(*net.TCPAddr).Port
	port, err := freePort(taken)
	require.NoError(t, err)
	assert.Greater(t, port, taken)
	assert.Less(t, port, taken+portScanWindow)
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
	}{
		{"windows", "rundll32"},
		{"darwin", "open"},
		{"linux", "xdg-open"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := browserCommand(tt.goos, "http://localhost:5555")
			assert.Equal(t, tt.name, name)
			assert.Equal(t, "http://localhost:5555", args[len(args)-1])
		})
	}
}
