package positioner

import (
	"image"
	"math/rand"
	"testing"
)

func base() State {
	return State{
		AnchorRect: image.Rect(100, 100, 200, 120),
		Size:       image.Pt(80, 40),
		Anchor:     AnchorBottom,
		Gravity:    GravityBottom,
	}
}

func TestGeometryUnconstrained(t *testing.T) {
	work := image.Rect(0, 0, 1000, 1000)

	got := base().Geometry(work)
	// Anchor point is the bottom-center of the anchor rect; the
	// popup extends downward from it, centered horizontally.
	want := image.Rect(110, 120, 190, 160)
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGeometryDeterministic(t *testing.T) {
	work := image.Rect(0, 0, 500, 500)
	s := base()
	s.Adjustment = AdjustFlipY | AdjustSlideX

	first := s.Geometry(work)
	for i := 0; i < 10; i++ {
		if got := s.Geometry(work); got != first {
			t.Fatalf("geometry not deterministic: %v then %v", first, got)
		}
	}
}

func TestGeometryOffset(t *testing.T) {
	work := image.Rect(0, 0, 1000, 1000)
	s := base()
	s.Offset = image.Pt(5, -3)

	got := s.Geometry(work)
	want := image.Rect(115, 117, 195, 157)
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestZeroAreaAnchorRect(t *testing.T) {
	s := base()
	s.AnchorRect = image.Rectangle{Min: image.Pt(50, 60), Max: image.Pt(50, 60)}

	got := s.Geometry(image.Rect(0, 0, 1000, 1000))
	// Every anchor choice collapses to the rectangle's origin.
	want := image.Rect(10, 60, 90, 100)
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFlipY(t *testing.T) {
	// Anchored near the bottom edge: extending downward leaves the
	// work area, flipping places the popup above the anchor.
	work := image.Rect(0, 0, 1000, 500)
	s := State{
		AnchorRect: image.Rect(100, 450, 200, 480),
		Size:       image.Pt(80, 100),
		Anchor:     AnchorBottom,
		Gravity:    GravityBottom,
		Adjustment: AdjustFlipY,
	}

	got := s.Geometry(work)
	want := image.Rect(110, 350, 190, 450)
	if got != want {
		t.Fatalf("expected flip above anchor %v, got %v", want, got)
	}
}

func TestSlideX(t *testing.T) {
	work := image.Rect(0, 0, 300, 1000)
	s := State{
		AnchorRect: image.Rect(250, 100, 290, 120),
		Size:       image.Pt(100, 40),
		Anchor:     AnchorBottom,
		Gravity:    GravityBottom,
		Adjustment: AdjustSlideX,
	}

	got := s.Geometry(work)
	if got.Max.X != 300 || got.Min.X != 200 {
		t.Fatalf("expected slide to right edge, got %v", got)
	}
	if got.Min.Y != 120 {
		t.Fatalf("slide moved the unconstrained axis: %v", got)
	}
}

func TestResizeY(t *testing.T) {
	work := image.Rect(0, 0, 1000, 500)
	s := State{
		AnchorRect: image.Rect(100, 400, 200, 420),
		Size:       image.Pt(80, 300),
		Anchor:     AnchorBottom,
		Gravity:    GravityBottom,
		Adjustment: AdjustResizeY,
	}

	got := s.Geometry(work)
	if got.Max.Y != 500 {
		t.Fatalf("expected clamp to work area, got %v", got)
	}
	if got.Dy() >= 300 {
		t.Fatalf("popup not shrunk: %v", got)
	}
}

func TestFlipBeforeSlideBeforeResize(t *testing.T) {
	// All adjustments permitted and all would fit: flip must win.
	work := image.Rect(0, 0, 1000, 500)
	s := State{
		AnchorRect: image.Rect(100, 450, 200, 480),
		Size:       image.Pt(80, 100),
		Anchor:     AnchorBottom,
		Gravity:    GravityBottom,
		Adjustment: AdjustFlipY | AdjustSlideY | AdjustResizeY,
	}

	got := s.Geometry(work)
	flipped := image.Rect(110, 350, 190, 450)
	if got != flipped {
		t.Fatalf("expected flip to win, got %v", got)
	}

	// Without flip, slide wins over resize.
	s.Adjustment = AdjustSlideY | AdjustResizeY
	got = s.Geometry(work)
	if got.Dy() != 100 {
		t.Fatalf("expected slide to preserve size, got %v", got)
	}
	if !got.In(work) {
		t.Fatalf("slide left the work area: %v", got)
	}

	// Resize only.
	s.Adjustment = AdjustResizeY
	got = s.Geometry(work)
	if got.Dy() >= 100 {
		t.Fatalf("expected resize to shrink, got %v", got)
	}
}

func TestResizeFullyOffscreen(t *testing.T) {
	// The whole candidate lies beyond the work area's right edge, so
	// clamping the X axis would invert the rectangle. That is not a
	// successful adjustment; the unadjusted candidate comes back.
	work := image.Rect(0, 0, 400, 400)
	s := State{
		AnchorRect: image.Rect(500, 100, 600, 120),
		Size:       image.Pt(200, 40),
		Anchor:     AnchorBottom,
		Gravity:    GravityBottom,
		Adjustment: AdjustResizeX,
	}

	got := s.Geometry(work)
	want := image.Rect(450, 120, 650, 160)
	if got != want {
		t.Fatalf("expected unadjusted candidate %v, got %v", want, got)
	}
	if got.Empty() {
		t.Fatalf("degenerate geometry: %v", got)
	}
	if got.Dx() <= 0 || got.Dy() <= 0 {
		t.Fatalf("non-positive dimensions: %v", got)
	}
}

func TestSlideFullyOffscreenBothEdges(t *testing.T) {
	// A popup wider than the work area cannot slide into it; the
	// candidate is returned rather than a vacuously "contained"
	// result.
	work := image.Rect(0, 0, 100, 100)
	s := State{
		AnchorRect: image.Rect(10, 10, 20, 20),
		Size:       image.Pt(300, 40),
		Anchor:     AnchorBottom,
		Gravity:    GravityBottom,
		Adjustment: AdjustSlideX,
	}

	got := s.Geometry(work)
	if got != s.preferred() {
		t.Fatalf("expected unadjusted candidate %v, got %v", s.preferred(), got)
	}
}

func TestNoAdjustmentFallsBack(t *testing.T) {
	work := image.Rect(0, 0, 1000, 500)
	s := State{
		AnchorRect: image.Rect(100, 450, 200, 480),
		Size:       image.Pt(80, 100),
		Anchor:     AnchorBottom,
		Gravity:    GravityBottom,
	}

	// No adjustment allowed: the constrained candidate is returned
	// unchanged.
	got := s.Geometry(work)
	want := image.Rect(110, 480, 190, 580)
	if got != want {
		t.Fatalf("expected unconstrained candidate %v, got %v", want, got)
	}
}

func TestEmptyWorkAreaDisablesAdjustment(t *testing.T) {
	s := base()
	s.Adjustment = AdjustFlipY | AdjustSlideY | AdjustResizeY

	if got, want := s.Geometry(image.Rectangle{}), s.preferred(); got != want {
		t.Fatalf("expected preferred placement %v, got %v", want, got)
	}
}

func TestOrderingPreservedUnderRandomFlags(t *testing.T) {
	// Under arbitrary flag combinations the result is always one of
	// the candidates the stages can produce, chosen in flip, slide,
	// resize order.
	rng := rand.New(rand.NewSource(1))
	work := image.Rect(0, 0, 400, 400)

	for i := 0; i < 500; i++ {
		s := State{
			AnchorRect: image.Rect(
				rng.Intn(400), rng.Intn(400),
				rng.Intn(400), rng.Intn(400),
			).Canon(),
			Size:       image.Pt(1+rng.Intn(200), 1+rng.Intn(200)),
			Anchor:     Anchor(rng.Intn(16)),
			Gravity:    Gravity(rng.Intn(16)),
			Adjustment: ConstraintAdjustment(rng.Intn(64)),
			Offset:     image.Pt(rng.Intn(41)-20, rng.Intn(41)-20),
		}

		got := s.Geometry(work)
		if got != s.Geometry(work) {
			t.Fatalf("nondeterministic result for %+v", s)
		}

		pref := s.preferred()
		if pref.In(work) && got != pref {
			t.Fatalf("unconstrained placement adjusted: %+v -> %v", s, got)
		}
		if !pref.In(work) {
			flip := s.flipped(work).preferred()
			slide := s.slide(pref, work)
			resize := s.resize(pref, work)
			switch {
			case s.Adjustment&(AdjustFlipX|AdjustFlipY) != 0 && fits(flip, work):
				if got != flip {
					t.Fatalf("flip should win for %+v: got %v, want %v", s, got, flip)
				}
			case s.Adjustment&(AdjustSlideX|AdjustSlideY) != 0 && fits(slide, work):
				if got != slide {
					t.Fatalf("slide should win for %+v: got %v, want %v", s, got, slide)
				}
			case s.Adjustment&(AdjustResizeX|AdjustResizeY) != 0 && fits(resize, work):
				if got != resize {
					t.Fatalf("resize should win for %+v: got %v, want %v", s, got, resize)
				}
			default:
				if got != pref {
					t.Fatalf("expected fallback to candidate for %+v: got %v", s, got)
				}
			}
			if got.Empty() {
				t.Fatalf("degenerate geometry for %+v: %v", s, got)
			}
		}
	}
}
