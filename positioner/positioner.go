// Package positioner computes popup placement from client-supplied
// anchor and constraint rules.
//
// A positioner describes where a popup should be placed relative to an
// anchor rectangle on its parent surface, and how the placement may be
// adjusted when the preferred position would leave the work area. The
// numeric values of the enums match the xdg-shell protocol so that a
// transport layer can pass them through unchanged.
package positioner

import "image"

// Anchor is a bitfield selecting an edge or corner of the anchor
// rectangle. Setting neither or both flags of an axis anchors to the
// center of that axis.
type Anchor uint32

const (
	AnchorNone   Anchor = 0
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8
)

// Gravity is a bitfield selecting the direction in which the popup
// extends away from the anchor point. Setting neither or both flags of
// an axis centers the popup on that axis.
type Gravity uint32

const (
	GravityNone   Gravity = 0
	GravityTop    Gravity = 1
	GravityBottom Gravity = 2
	GravityLeft   Gravity = 4
	GravityRight  Gravity = 8
)

// ConstraintAdjustment is a bitfield of the adjustments that the
// client permits when the preferred placement is constrained.
type ConstraintAdjustment uint32

const (
	AdjustNone    ConstraintAdjustment = 0
	AdjustSlideX  ConstraintAdjustment = 1
	AdjustSlideY  ConstraintAdjustment = 2
	AdjustFlipX   ConstraintAdjustment = 4
	AdjustFlipY   ConstraintAdjustment = 8
	AdjustResizeX ConstraintAdjustment = 16
	AdjustResizeY ConstraintAdjustment = 32
)

// State is an immutable snapshot of the rules supplied by a client for
// a single popup creation or reposition request.
type State struct {
	AnchorRect image.Rectangle
	Size       image.Point
	Anchor     Anchor
	Gravity    Gravity
	Adjustment ConstraintAdjustment
	Offset     image.Point
}

// Valid reports whether the state describes a usable placement. A
// positioner with a non-positive size cannot place anything.
func (s State) Valid() bool {
	return s.Size.X > 0 && s.Size.Y > 0
}

// Geometry computes the popup rectangle relative to the parent surface.
// It is a pure function of its inputs.
//
// The preferred rectangle is derived from the anchor point, the
// gravity, and the offset. If it lies inside workArea it is returned
// as-is. Otherwise the permitted adjustments are tried in a fixed
// priority order, flip first, then slide, then resize, and the first
// one that produces an unconstrained rectangle wins. If none succeed,
// the unadjusted preferred rectangle is returned.
func (s State) Geometry(workArea image.Rectangle) image.Rectangle {
	r := s.preferred()
	if workArea.Empty() || r.In(workArea) {
		return r
	}

	if s.Adjustment&(AdjustFlipX|AdjustFlipY) != 0 {
		if f := s.flipped(workArea).preferred(); fits(f, workArea) {
			return f
		}
	}
	if s.Adjustment&(AdjustSlideX|AdjustSlideY) != 0 {
		if slid := s.slide(r, workArea); fits(slid, workArea) {
			return slid
		}
	}
	if s.Adjustment&(AdjustResizeX|AdjustResizeY) != 0 {
		if resized := s.resize(r, workArea); fits(resized, workArea) {
			return resized
		}
	}

	return r
}

// fits reports whether an adjusted rectangle actually satisfies the
// work-area bound. Rectangle.In treats empty rectangles as contained
// in anything, so a clamp that inverted or collapsed the rectangle
// must not count as a successful adjustment.
func fits(r, workArea image.Rectangle) bool {
	return !r.Empty() && r.In(workArea)
}

func (s State) preferred() image.Rectangle {
	a := s.anchorPoint()
	min := image.Pt(
		gravitate(a.X, s.Size.X, s.Gravity&GravityLeft != 0, s.Gravity&GravityRight != 0),
		gravitate(a.Y, s.Size.Y, s.Gravity&GravityTop != 0, s.Gravity&GravityBottom != 0),
	)
	min = min.Add(s.Offset)
	return image.Rectangle{Min: min, Max: min.Add(s.Size)}
}

// anchorPoint picks the point on the anchor rectangle selected by the
// anchor flags. A zero-area anchor rectangle collapses every choice to
// the rectangle's origin.
func (s State) anchorPoint() image.Point {
	return image.Pt(
		pick(s.AnchorRect.Min.X, s.AnchorRect.Max.X, s.Anchor&AnchorLeft != 0, s.Anchor&AnchorRight != 0),
		pick(s.AnchorRect.Min.Y, s.AnchorRect.Max.Y, s.Anchor&AnchorTop != 0, s.Anchor&AnchorBottom != 0),
	)
}

func pick(min, max int, low, high bool) int {
	switch {
	case low == high:
		return min + (max-min)/2
	case low:
		return min
	default:
		return max
	}
}

// gravitate places a span of the given size so that it extends away
// from the anchor coordinate in the direction the gravity flags name.
func gravitate(anchor, size int, away, toward bool) int {
	switch {
	case away == toward:
		return anchor - size/2
	case away:
		return anchor - size
	default:
		return anchor
	}
}

// flipped returns a copy of s with the anchor and gravity mirrored on
// each flagged axis whose placement is constrained.
func (s State) flipped(workArea image.Rectangle) State {
	r := s.preferred()
	f := s
	if s.Adjustment&AdjustFlipX != 0 && (r.Min.X < workArea.Min.X || r.Max.X > workArea.Max.X) {
		f.Anchor = mirror(f.Anchor, AnchorLeft, AnchorRight)
		f.Gravity = mirror(f.Gravity, GravityLeft, GravityRight)
		f.Offset.X = -f.Offset.X
	}
	if s.Adjustment&AdjustFlipY != 0 && (r.Min.Y < workArea.Min.Y || r.Max.Y > workArea.Max.Y) {
		f.Anchor = mirror(f.Anchor, AnchorTop, AnchorBottom)
		f.Gravity = mirror(f.Gravity, GravityTop, GravityBottom)
		f.Offset.Y = -f.Offset.Y
	}
	return f
}

func mirror[T ~uint32](v, a, b T) T {
	m := v &^ (a | b)
	if v&a != 0 {
		m |= b
	}
	if v&b != 0 {
		m |= a
	}
	return m
}

func (s State) slide(r, workArea image.Rectangle) image.Rectangle {
	if s.Adjustment&AdjustSlideX != 0 {
		if r.Max.X > workArea.Max.X {
			r = r.Add(image.Pt(workArea.Max.X-r.Max.X, 0))
		}
		if r.Min.X < workArea.Min.X {
			r = r.Add(image.Pt(workArea.Min.X-r.Min.X, 0))
		}
	}
	if s.Adjustment&AdjustSlideY != 0 {
		if r.Max.Y > workArea.Max.Y {
			r = r.Add(image.Pt(0, workArea.Max.Y-r.Max.Y))
		}
		if r.Min.Y < workArea.Min.Y {
			r = r.Add(image.Pt(0, workArea.Min.Y-r.Min.Y))
		}
	}
	return r
}

func (s State) resize(r, workArea image.Rectangle) image.Rectangle {
	if s.Adjustment&AdjustResizeX != 0 {
		r.Min.X = max(r.Min.X, workArea.Min.X)
		r.Max.X = min(r.Max.X, workArea.Max.X)
	}
	if s.Adjustment&AdjustResizeY != 0 {
		r.Min.Y = max(r.Min.Y, workArea.Min.Y)
		r.Max.Y = min(r.Max.Y, workArea.Max.Y)
	}
	return r
}
