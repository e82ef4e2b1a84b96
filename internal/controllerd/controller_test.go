package controllerd

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestController_Run_ServesBothChannelsUntilCancelled(t *testing.T) {
	ctlAddr := freeAddr(t)
	apiAddr := freeAddr(t)
	dbPath := filepath.Join(t.TempDir(), "agents.json")
	logsDir := t.TempDir()

	ctl := New(ctlAddr, apiAddr, "shared-secret", dbPath, logsDir)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ctl.Run(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", ctlAddr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + apiAddr + "/agent")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
