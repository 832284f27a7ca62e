// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockServer simulates *http.Server lifecycle behavior.
type mockServer struct {
	listenErr   error
	shutdownErr error
	started     chan struct{}
	release     chan struct{}
	shutdowns   int
}

func newMockServer() *mockServer {
	return &mockServer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (m *mockServer) ListenAndServe() error {
	close(m.started)
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.release
	return errors.New("http: Server closed")
}

func (m *mockServer) Shutdown(ctx context.Context) error {
	m.shutdowns++
	close(m.release)
	return m.shutdownErr
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	mock := newMockServer()
	svc := NewHTTPServerService(mock, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-mock.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled after graceful shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop after cancellation")
	}
	if mock.shutdowns != 1 {
		t.Errorf("expected exactly one Shutdown call, got %d", mock.shutdowns)
	}
}

func TestHTTPServiceStartupFailure(t *testing.T) {
	mock := newMockServer()
	mock.listenErr = errors.New("listen tcp: address already in use")
	svc := NewHTTPServerService(mock, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, mock.listenErr) {
		t.Errorf("expected wrapped listen error, got %v", err)
	}
}

func TestHTTPServiceString(t *testing.T) {
	svc := NewHTTPServerService(newMockServer(), 0)
	if svc.String() != "http-server" {
		t.Errorf("unexpected service name %q", svc.String())
	}
}

// countingGC records GC invocations.
type countingGC struct {
	calls chan struct{}
	err   error
}

func (c *countingGC) RunGC(float64) error {
	select {
	case c.calls <- struct{}{}:
	default:
	}
	return c.err
}

func TestModelCacheGCServiceRunsCycles(t *testing.T) {
	gc := &countingGC{calls: make(chan struct{}, 1)}
	svc := NewModelCacheGCService(gc, 10*time.Millisecond, 0.5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-gc.calls:
	case <-time.After(time.Second):
		t.Fatal("GC cycle never ran")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("GC service did not stop after cancellation")
	}
}

func TestModelCacheGCServiceSurvivesErrors(t *testing.T) {
	gc := &countingGC{calls: make(chan struct{}, 1), err: errors.New("gc failed")}
	svc := NewModelCacheGCService(gc, 5*time.Millisecond, 0.5)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GC errors must not kill the loop, got %v", err)
	}
}
