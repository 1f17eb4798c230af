package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nodekeeper/internal/server/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "app.db") + "?_pragma=busy_timeout(5000)&_txlock=immediate"
	c.HTTPAddr = "127.0.0.1:0"
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewApp_SeedsBootstrapOnce(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	c.Bootstrap.RPCURL = "http://127.0.0.1:8332"
	var logs bytes.Buffer

	app, err := NewApp(ctx, c, &logs)
	require.NoError(t, err)
	active, err := app.profiles.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", active.Name)
	assert.Contains(t, logs.String(), "bootstrap node configuration created")
	require.NoError(t, app.Close())

	app, err = NewApp(ctx, c, io.Discard)
	require.NoError(t, err)
	defer app.Close()
	n, err := app.profiles.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "restart must not seed again")
}

func TestNewApp_NoBootstrapWithoutURL(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, testConfig(t), io.Discard)
	require.NoError(t, err)
	defer app.Close()

	n, err := app.profiles.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewApp_Errors(t *testing.T) {
	c := testConfig(t)
	c.LogBackend = "syslog"
	_, err := NewApp(context.Background(), c, io.Discard)
	require.Error(t, err)

	c = testConfig(t)
	c.DatabaseDriver = "mysql"
	_, err = NewApp(context.Background(), c, io.Discard)
	require.Error(t, err)
}

func TestApp_ServeUntilCanceled(t *testing.T) {
	c := testConfig(t)
	c.LogBackend = "zap"
	app, err := NewApp(context.Background(), c, io.Discard)
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Error(t, app.db.Ping(), "store must be closed after shutdown")
}
