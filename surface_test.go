package xdg

import (
	"errors"
	"testing"
)

func TestSerialsStrictlyIncrease(t *testing.T) {
	s := newSurface[int](nil, 1, TagToplevel)

	seen := make(map[uint32]bool)
	var prev uint32
	for i := 0; i < 100; i++ {
		serial := s.issue(i)
		if serial == 0 {
			t.Fatalf("issue returned 0 on a live surface")
		}
		if serial <= prev {
			t.Fatalf("serial %d not greater than %d", serial, prev)
		}
		if seen[serial] {
			t.Fatalf("serial %d issued twice", serial)
		}
		seen[serial] = true
		prev = serial
	}
}

func TestAckCumulative(t *testing.T) {
	s := newSurface[string](nil, 1, TagToplevel)

	s.issue("a")
	s.issue("b")
	three := s.issue("c")

	state, ok, err := s.ack(three)
	if err != nil || !ok {
		t.Fatalf("ack(%d): ok=%v err=%v", three, ok, err)
	}
	if state != "c" {
		t.Fatalf("expected state at highest serial, got %q", state)
	}
	if len(s.outstanding) != 0 {
		t.Fatalf("earlier configures not retired: %v", s.outstanding)
	}

	// Both earlier serials are now stale: ignored, never an error.
	for serial := uint32(1); serial <= 2; serial++ {
		_, ok, err := s.ack(serial)
		if ok || err != nil {
			t.Fatalf("ack(%d): ok=%v err=%v", serial, ok, err)
		}
	}
}

func TestAckPartialThenRest(t *testing.T) {
	s := newSurface[string](nil, 1, TagToplevel)

	s.issue("a")
	s.issue("b")

	state, ok, err := s.ack(1)
	if err != nil || !ok || state != "a" {
		t.Fatalf("ack(1): state=%q ok=%v err=%v", state, ok, err)
	}
	state, ok, err = s.ack(2)
	if err != nil || !ok || state != "b" {
		t.Fatalf("ack(2): state=%q ok=%v err=%v", state, ok, err)
	}
	if s.phase != phaseAcked {
		t.Fatalf("surface not acknowledged, phase %v", s.phase)
	}
}

func TestAckNeverIssued(t *testing.T) {
	s := newSurface[string](nil, 7, TagToplevel)
	s.issue("a")

	_, ok, err := s.ack(2)
	var ackErr *AckError
	if ok || !errors.As(err, &ackErr) {
		t.Fatalf("expected *AckError, got ok=%v err=%v", ok, err)
	}
	if ackErr.Surface != 7 || ackErr.Serial != 2 {
		t.Fatalf("unexpected error fields: %+v", ackErr)
	}
}

func TestDestroyCancelsOutstanding(t *testing.T) {
	s := newSurface[string](nil, 1, TagToplevel)
	s.issue("a")
	s.destroy()

	if serial := s.issue("b"); serial != 0 {
		t.Fatalf("configure issued on destroyed surface: %d", serial)
	}
	_, ok, err := s.ack(1)
	if ok || err != nil {
		t.Fatalf("ack on destroyed surface: ok=%v err=%v", ok, err)
	}
}
