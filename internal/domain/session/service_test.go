package session

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc := NewService(newTestGateway(), nil, Config{RefreshInterval: time.Hour}, ttl, zerolog.Nop())
	t.Cleanup(svc.Shutdown)
	return svc
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := newTestService(t, time.Minute)

	id := svc.Create()
	if id == "" {
		t.Fatal("expected a session id")
	}

	ctrl, err := svc.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ctrl.State() != StateIdle {
		t.Fatalf("expected new session idle, got %s", ctrl.State())
	}

	if _, err := svc.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceCloseEndsSession(t *testing.T) {
	svc := newTestService(t, time.Minute)

	id := svc.Create()
	ctrl, err := svc.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if err := svc.Close(id); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := svc.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after close, got %v", err)
	}
	if _, err := ctrl.Offerings(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected controller closed, got %v", err)
	}
	if err := svc.Close(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on double close, got %v", err)
	}
}

func TestSweepClosesIdleSessions(t *testing.T) {
	svc := newTestService(t, 10*time.Millisecond)

	idle := svc.Create()
	active := svc.Create()

	ctrl, err := svc.Get(idle)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := svc.Get(active); err != nil { // touch keeps it alive
		t.Fatalf("Get: %v", err)
	}

	svc.sweep(time.Now())

	if _, err := svc.Get(idle); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session swept, got %v", err)
	}
	if _, err := svc.Get(active); err != nil {
		t.Fatalf("expected active session kept, got %v", err)
	}
	if _, err := ctrl.Offerings(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected swept controller closed, got %v", err)
	}
	if svc.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", svc.Len())
	}
}

func TestShutdownClosesEverything(t *testing.T) {
	svc := newTestService(t, time.Minute)

	id := svc.Create()
	ctrl, err := svc.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	svc.Shutdown()
	svc.Shutdown() // idempotent

	if svc.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", svc.Len())
	}
	if _, err := ctrl.Offerings(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected controllers closed, got %v", err)
	}
}
