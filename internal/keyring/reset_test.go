package keyring

import (
	"testing"

	"go.uber.org/zap"
)

func TestResetScheduleSpec(t *testing.T) {
	r := New(zap.NewNop())

	s := NewResetSchedule(r, 6, zap.NewNop())
	if s.spec != "@every 6h" {
		t.Fatalf("unexpected spec: %q", s.spec)
	}

	// Zero and negative intervals fall back to hourly.
	if s := NewResetSchedule(r, 0, zap.NewNop()); s.spec != "@every 1h" {
		t.Fatalf("unexpected fallback spec: %q", s.spec)
	}
}

func TestResetScheduleStartStop(t *testing.T) {
	r := New(zap.NewNop())
	s := NewResetSchedule(r, 1, zap.NewNop())

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}
