package xdg

import (
	"errors"
	"image"
	"testing"

	"deedles.dev/xdg/positioner"
)

func testPositioner() positioner.State {
	return positioner.State{
		AnchorRect: image.Rect(100, 100, 200, 120),
		Size:       image.Pt(80, 40),
		Anchor:     positioner.AnchorBottom,
		Gravity:    positioner.GravityBottom,
	}
}

func TestPopupMapsOnFirstAck(t *testing.T) {
	p := newPopup(nil, 2, 1, testPositioner(), TagPopup)

	cfg, err := p.configure(image.Rect(0, 0, 1000, 1000), 0)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if p.State() != PopupUnmapped {
		t.Fatalf("popup mapped before ack")
	}

	if err := p.ackConfigure(cfg.Serial); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if p.State() != PopupMapped {
		t.Fatalf("popup not mapped, state %v", p.State())
	}
	if p.Current().Geometry != cfg.Geometry {
		t.Fatalf("geometry not committed: %+v", p.Current())
	}
}

func TestPopupDismissTerminal(t *testing.T) {
	p := newPopup(nil, 2, 1, testPositioner(), TagPopup)
	cfg, _ := p.configure(image.Rectangle{}, 0)

	p.dismiss()
	p.dismiss() // idempotent
	if p.State() != PopupDismissed {
		t.Fatalf("state %v after dismiss", p.State())
	}

	err := p.ackConfigure(cfg.Serial)
	var perr *PopupError
	if !errors.As(err, &perr) || perr.Reason != PopupAckDismissed {
		t.Fatalf("expected dismissed PopupError, got %v", err)
	}

	if _, err := p.configure(image.Rectangle{}, 0); err == nil {
		t.Fatalf("configure accepted after dismiss")
	}
}

func TestPopupRepositionOrdering(t *testing.T) {
	p := newPopup(nil, 2, 1, testPositioner(), TagPopup)

	first, _ := p.configure(image.Rectangle{}, 0)
	repos, err := p.configure(image.Rectangle{}, 42)
	if err != nil {
		t.Fatalf("reposition configure: %v", err)
	}

	err = p.ackConfigure(first.Serial)
	var perr *PopupError
	if !errors.As(err, &perr) || perr.Reason != PopupAckOutOfOrder {
		t.Fatalf("expected out-of-order PopupError, got %v", err)
	}

	if err := p.ackConfigure(repos.Serial); err != nil {
		t.Fatalf("ack reposition: %v", err)
	}
	if token := p.repositioned(); token != 42 {
		t.Fatalf("expected token 42, got %d", token)
	}
	// The token is retired with its first read.
	if token := p.repositioned(); token != 0 {
		t.Fatalf("token not retired: %d", token)
	}
}

func TestPopupRepositionCumulativeAck(t *testing.T) {
	p := newPopup(nil, 2, 1, testPositioner(), TagPopup)

	p.configure(image.Rectangle{}, 0)
	if _, err := p.configure(image.Rectangle{}, 9); err != nil {
		t.Fatalf("reposition configure: %v", err)
	}
	later, err := p.configure(image.Rectangle{}, 0)
	if err != nil {
		t.Fatalf("later configure: %v", err)
	}

	if err := p.ackConfigure(later.Serial); err != nil {
		t.Fatalf("ack latest: %v", err)
	}
	if token := p.repositioned(); token != 9 {
		t.Fatalf("expected token 9 from cumulative ack, got %d", token)
	}
	if token := p.repositioned(); token != 0 {
		t.Fatalf("token not retired: %d", token)
	}
}

func TestPopupStaleAckAfterReposition(t *testing.T) {
	p := newPopup(nil, 2, 1, testPositioner(), TagPopup)

	first, _ := p.configure(image.Rectangle{}, 0)
	repos, _ := p.configure(image.Rectangle{}, 7)
	if err := p.ackConfigure(repos.Serial); err != nil {
		t.Fatalf("ack reposition: %v", err)
	}

	// The skipped serial is retired now: a late ack for it is
	// stale, not an ordering violation.
	if err := p.ackConfigure(first.Serial); err != nil {
		t.Fatalf("stale ack errored: %v", err)
	}
}

func TestPopupGeometryTracksPositioner(t *testing.T) {
	p := newPopup(nil, 2, 1, testPositioner(), TagPopup)
	work := image.Rect(0, 0, 1000, 1000)

	cfg, _ := p.configure(work, 0)
	want := testPositioner().Geometry(work)
	if cfg.Geometry != want {
		t.Fatalf("expected %v, got %v", want, cfg.Geometry)
	}

	moved := testPositioner()
	moved.Offset = image.Pt(10, 0)
	p.setPositioner(moved)
	cfg2, _ := p.configure(work, 0)
	if cfg2.Geometry != moved.Geometry(work) {
		t.Fatalf("geometry not recomputed: %v", cfg2.Geometry)
	}
	if cfg2.Serial <= cfg.Serial {
		t.Fatalf("serials not increasing: %d then %d", cfg.Serial, cfg2.Serial)
	}
}
