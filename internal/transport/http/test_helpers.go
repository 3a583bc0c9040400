package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/config"
	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/upload"
)

// startTestServer spins up a hub and HTTP server for handler tests.
func startTestServer(t *testing.T) (*httptest.Server, *core.Hub) {
	t.Helper()

	hub := core.NewHub(0, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	uploads, err := upload.New(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("create upload store: %v", err)
	}

	disabledLogger := zerolog.Nop()
	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		MaxMessageBytes:   1 << 20,
		MaxUploadBytes:    10 << 20,
	}

	server := NewServer(hub, uploads, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, hub
}
