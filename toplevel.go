package xdg

import (
	"fmt"
	"image"
	"strings"
)

// ToplevelState is a single logical window state flag. The numeric
// values match the xdg_toplevel state enum.
type ToplevelState uint32

const (
	StateMaximized   ToplevelState = 1
	StateFullscreen  ToplevelState = 2
	StateResizing    ToplevelState = 3
	StateActivated   ToplevelState = 4
	StateTiledLeft   ToplevelState = 5
	StateTiledRight  ToplevelState = 6
	StateTiledTop    ToplevelState = 7
	StateTiledBottom ToplevelState = 8
)

func (s ToplevelState) String() string {
	switch s {
	case StateMaximized:
		return "maximized"
	case StateFullscreen:
		return "fullscreen"
	case StateResizing:
		return "resizing"
	case StateActivated:
		return "activated"
	case StateTiledLeft:
		return "tiled_left"
	case StateTiledRight:
		return "tiled_right"
	case StateTiledTop:
		return "tiled_top"
	case StateTiledBottom:
		return "tiled_bottom"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

// StateSet is a set of mutually compatible toplevel states. The zero
// value is the empty set.
type StateSet uint32

func (set StateSet) Has(s ToplevelState) bool {
	return set&(1<<s) != 0
}

// With returns set with s added. Contradictory flags cannot coexist:
// adding one of maximized and fullscreen removes the other.
func (set StateSet) With(s ToplevelState) StateSet {
	switch s {
	case StateMaximized:
		set = set.Without(StateFullscreen)
	case StateFullscreen:
		set = set.Without(StateMaximized)
	}
	return set | 1<<s
}

func (set StateSet) Without(s ToplevelState) StateSet {
	return set &^ (1 << s)
}

// States returns the flags in the set in ascending order.
func (set StateSet) States() []ToplevelState {
	var states []ToplevelState
	for s := StateMaximized; s <= StateTiledBottom; s++ {
		if set.Has(s) {
			states = append(states, s)
		}
	}
	return states
}

func (set StateSet) String() string {
	states := set.States()
	strs := make([]string, 0, len(states))
	for _, s := range states {
		strs = append(strs, s.String())
	}
	return "[" + strings.Join(strs, " ") + "]"
}

// ToplevelConfigure proposes the next state of a toplevel. The client
// applies it and acknowledges the serial. A zero size leaves the
// choice of dimensions to the client.
type ToplevelConfigure struct {
	Serial uint32
	Size   image.Point
	States StateSet
}

// ToplevelAttrs are the client-written attributes of a toplevel,
// double-buffered in the surface's cached state.
type ToplevelAttrs struct {
	Title   string
	AppID   string
	MinSize image.Point
	MaxSize image.Point
}

// Toplevel is the toplevel role object for a surface: a top-level
// application window.
type Toplevel struct {
	surface[ToplevelConfigure]

	attrs   Cached[ToplevelAttrs]
	current ToplevelConfigure
}

func newToplevel(client *Client, id uint32, tag string) *Toplevel {
	return &Toplevel{
		surface: newSurface[ToplevelConfigure](client, id, tag),
	}
}

func (t *Toplevel) Role() Role {
	return RoleToplevel
}

// Current returns the last acknowledged configure. Before the first
// acknowledgement it is the zero value.
func (t *Toplevel) Current() ToplevelConfigure {
	return t.current
}

// Attrs returns the committed client attributes.
func (t *Toplevel) Attrs() ToplevelAttrs {
	return t.attrs.Current
}

// PendingAttrs returns the attributes written since the last commit.
func (t *Toplevel) PendingAttrs() ToplevelAttrs {
	return t.attrs.Pending
}

func (t *Toplevel) SetTitle(title string) {
	t.attrs.Pending.Title = title
}

func (t *Toplevel) SetAppID(appID string) {
	t.attrs.Pending.AppID = appID
}

func (t *Toplevel) SetMinSize(size image.Point) {
	t.attrs.Pending.MinSize = size
}

func (t *Toplevel) SetMaxSize(size image.Point) {
	t.attrs.Pending.MaxSize = size
}

// configure issues a configure proposing size and states.
func (t *Toplevel) configure(size image.Point, states StateSet) ToplevelConfigure {
	ev := ToplevelConfigure{
		Size:   size,
		States: states,
	}
	ev.Serial = t.issue(ev)
	return ev
}

// ackConfigure acknowledges serial, committing the state proposed at
// that serial along with the pending client attributes.
func (t *Toplevel) ackConfigure(serial uint32) error {
	state, ok, err := t.ack(serial)
	if err != nil || !ok {
		return err
	}

	t.current = state
	t.current.Serial = serial
	t.attrs.commit()
	return nil
}
