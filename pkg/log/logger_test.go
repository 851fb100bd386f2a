package log_test

import (
	"context"
	"sync"
	"testing"

	"icp-hunter/pkg/log"
)

type captureTransporter struct {
	mu      sync.Mutex
	entries []log.Entry
	closed  bool
}

func (c *captureTransporter) Name() string { return "capture" }

func (c *captureTransporter) Write(e log.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	return nil
}

func (c *captureTransporter) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *captureTransporter) all() []log.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]log.Entry(nil), c.entries...)
}

func TestLogger_Info_DeliversEntryOnClose(t *testing.T) {
	// Arrange
	capture := &captureTransporter{}
	logger := log.New(log.Info, capture)

	// Act
	logger.Info("server listening", "port", "8080")
	logger.Debug("filtered out")
	logger.Close()

	// Assert
	entries := capture.all()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "server listening" || entries[0].Fields["port"] != "8080" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if entries[0].Caller == "" {
		t.Error("caller should be recorded")
	}
	if !capture.closed {
		t.Error("transporter should be closed")
	}
}

func TestLogger_WarnCtx_CarriesContextValues(t *testing.T) {
	// Arrange
	capture := &captureTransporter{}
	logger := log.New(log.Debug, capture).With("service", "icp-hunter")
	ctx := log.WithFields(log.WithRequestID(context.Background(), "req-1"), "hunt_id", "h-7")

	// Act
	logger.WarnCtx(ctx, "glitch", "stage", "analyzing")
	logger.Close()

	// Assert
	entries := capture.all()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.RequestID != "req-1" {
		t.Errorf("request id: got %q", e.RequestID)
	}
	for key, want := range map[string]string{"service": "icp-hunter", "hunt_id": "h-7", "stage": "analyzing"} {
		if e.Fields[key] != want {
			t.Errorf("%s: got %v, want %v", key, e.Fields[key], want)
		}
	}
}

func TestDefault_WithoutSetDefault_IsShared(t *testing.T) {
	// Arrange
	log.SetDefault(nil)

	// Act
	a, b := log.Default(), log.Default()

	// Assert
	if a != b {
		t.Error("expected the same discard logger on every call")
	}
	log.GlobalInfo("ignored")
}

func TestGlobalInfoCtx_UsesInstalledLogger(t *testing.T) {
	// Arrange
	capture := &captureTransporter{}
	logger := log.New(log.Info, capture)
	log.SetDefault(logger)
	defer log.SetDefault(nil)

	// Act
	log.GlobalInfoCtx(log.WithRequestID(context.Background(), "r"), "hello")
	logger.Close()

	// Assert
	entries := capture.all()
	if len(entries) != 1 || entries[0].RequestID != "r" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}
