package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/KhuatDuy04/crawl/internal/config"
)

func TestParseFlags(t *testing.T) {
	t.Setenv("CRAWL_DATA_DIR", "/var/lib/crawl")

	f, err := parseFlags([]string{"--once", "--job-type", "2", "-p", "8080"})
	require.NoError(t, err)
	assert.True(t, f.once)
	assert.Equal(t, "2", f.jobType)
	assert.Equal(t, 8080, f.port)
	assert.Equal(t, "/var/lib/crawl", f.dataDir)

	f, err = parseFlags([]string{"--data-dir", "/tmp/x"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", f.dataDir)

	_, err = parseFlags([]string{"--bogus"})
	assert.Error(t, err)
}

func TestParseFlagsDefaultDataDir(t *testing.T) {
	t.Setenv("CRAWL_DATA_DIR", "")
	f, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, ".", f.dataDir)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LogConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = newLogger(config.LogConfig{Level: "nonsense", Format: "json"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

type fakeServer struct {
	done chan struct{}
}

func (s *fakeServer) Shutdown(context.Context) error {
	close(s.done)
	return nil
}

func TestShutdownHandler(t *testing.T) {
	srv := &fakeServer{done: make(chan struct{})}
	h := shutdownHandler("secret", srv)

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	req.Header.Set("X-Shutdown-Token", "secret")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "[::1]:5555"
	req.Header.Set("X-Shutdown-Token", "secret")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-srv.done:
	case <-time.After(time.Second):
		t.Fatal("server was not shut down")
	}
}

func TestRandomToken(t *testing.T) {
	a, err := randomToken(16)
	require.NoError(t, err)
	b, err := randomToken(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
