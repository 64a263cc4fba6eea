package bootstrap

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/pageviews-api/config"
)

func TestNewHTTPServer_UsesConfig(t *testing.T) {
	cfg := sanitized(config.AppConfig{HTTP: config.HTTPConfig{Port: "7001"}})
	sc, err := NewServices(context.Background(), ServiceDeps{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Close() })

	server := NewHTTPServer(HTTPServerConfig{HTTP: cfg.HTTP, Services: sc, Logger: discardLogger()})
	assert.Equal(t, ":7001", server.Addr)
	assert.Equal(t, 30*time.Second, server.ReadTimeout)
	assert.Equal(t, 30*time.Second, server.WriteTimeout)
	assert.Equal(t, 120*time.Second, server.IdleTimeout)
}

func TestServeHTTP_ServesUntilCanceled(t *testing.T) {
	cfg := sanitized(config.AppConfig{})
	sc, err := NewServices(context.Background(), ServiceDeps{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Close() })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewHTTPServer(HTTPServerConfig{HTTP: cfg.HTTP, Services: sc, Logger: discardLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeHTTP(ctx, ServeConfig{
			Server:          server,
			Listener:        ln,
			ShutdownTimeout: 2 * time.Second,
			Logger:          discardLogger(),
		})
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"Analytics backend running 🚀"}`, string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestShutdownHTTPServer_NilServer(t *testing.T) {
	assert.NoError(t, ShutdownHTTPServer(ShutdownConfig{}))
}

func TestRun_RequiresConfig(t *testing.T) {
	require.Error(t, Run(context.Background(), RunConfig{}))
}

func TestRun_ValidateOnStartFailsFast(t *testing.T) {
	cfg := sanitized(config.AppConfig{
		HTTP:      config.HTTPConfig{Addr: "127.0.0.1:0"},
		Analytics: config.AnalyticsConfig{ValidateOnStart: true},
	})

	err := Run(context.Background(), RunConfig{Config: cfg, Logger: discardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate analytics property")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := sanitized(config.AppConfig{HTTP: config.HTTPConfig{Addr: "127.0.0.1:0"}})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, Run(ctx, RunConfig{Config: cfg, Logger: discardLogger()}))
}
