package xdg

import (
	"image"

	"deedles.dev/xdg/positioner"
)

// PopupState is the lifecycle of a popup, orthogonal to the
// configure/acknowledge handshake. Dismissal is terminal.
type PopupState int

const (
	PopupUnmapped PopupState = iota
	PopupMapped
	PopupDismissed
)

func (s PopupState) String() string {
	switch s {
	case PopupMapped:
		return "mapped"
	case PopupDismissed:
		return "dismissed"
	default:
		return "unmapped"
	}
}

// PopupConfigure proposes the next geometry of a popup, relative to
// its parent surface. Token is nonzero when the configure was issued
// by a reposition request.
type PopupConfigure struct {
	Serial   uint32
	Geometry image.Rectangle
	Token    uint32
}

// Popup is the popup role object for a surface: a transient,
// positioned child surface such as a menu or tooltip.
type Popup struct {
	surface[PopupConfigure]

	parent    uint32
	pos       positioner.State
	lifecycle PopupState
	current   PopupConfigure

	// repositionSerial is the serial of the configure issued by the
	// most recent unacknowledged reposition. While it is set, acking
	// an older serial skips over the reposition and is a protocol
	// error.
	repositionSerial uint32
	repositionToken  uint32
}

func newPopup(client *Client, id, parent uint32, pos positioner.State, tag string) *Popup {
	return &Popup{
		surface: newSurface[PopupConfigure](client, id, tag),
		parent:  parent,
		pos:     pos,
	}
}

func (p *Popup) Role() Role {
	return RolePopup
}

// Parent returns the surface ID of the popup's parent.
func (p *Popup) Parent() uint32 {
	return p.parent
}

// Positioner returns the placement rules from the most recent
// creation or reposition request.
func (p *Popup) Positioner() positioner.State {
	return p.pos
}

// State returns the popup's lifecycle state.
func (p *Popup) State() PopupState {
	return p.lifecycle
}

// Current returns the last acknowledged configure. Before the first
// acknowledgement it is the zero value.
func (p *Popup) Current() PopupConfigure {
	return p.current
}

// configure recomputes the popup's geometry from its positioner and
// issues a configure for it. token is nonzero for repositions.
func (p *Popup) configure(workArea image.Rectangle, token uint32) (PopupConfigure, error) {
	if p.lifecycle == PopupDismissed {
		return PopupConfigure{}, &PopupError{Surface: p.id, Reason: PopupAckDismissed}
	}

	ev := PopupConfigure{
		Geometry: p.pos.Geometry(workArea),
		Token:    token,
	}
	ev.Serial = p.issue(ev)
	if token != 0 {
		p.repositionSerial = ev.Serial
		p.repositionToken = token
	}
	return ev, nil
}

// setPositioner stores a new positioner state for the next configure.
func (p *Popup) setPositioner(pos positioner.State) {
	p.pos = pos
}

// ackConfigure acknowledges serial. The first acknowledgement maps
// the popup. Acknowledging a dismissed popup, or skipping over a
// pending reposition's configure, is a *PopupError.
func (p *Popup) ackConfigure(serial uint32) error {
	if p.lifecycle == PopupDismissed {
		return &PopupError{Surface: p.id, Serial: serial, Reason: PopupAckDismissed}
	}
	if p.repositionSerial != 0 && serial < p.repositionSerial && p.matches(serial) {
		return &PopupError{Surface: p.id, Serial: serial, Reason: PopupAckOutOfOrder}
	}

	state, ok, err := p.ack(serial)
	if err != nil || !ok {
		return err
	}

	p.current = state
	p.current.Serial = serial
	if p.lifecycle == PopupUnmapped {
		p.lifecycle = PopupMapped
	}
	if p.repositionSerial != 0 && serial >= p.repositionSerial {
		p.repositionSerial = 0
	}
	return nil
}

// repositioned returns the token of a pending reposition whose
// configure has been acknowledged, retiring the token, or 0 if none
// has. Acknowledging a later serial acknowledges the reposition's
// configure along with it, so the token is ready as soon as the
// reposition serial is no longer pending.
func (p *Popup) repositioned() uint32 {
	if p.repositionSerial == 0 && p.repositionToken != 0 {
		token := p.repositionToken
		p.repositionToken = 0
		return token
	}
	return 0
}

func (p *Popup) matches(serial uint32) bool {
	for _, rec := range p.outstanding {
		if rec.serial == serial {
			return true
		}
	}
	return false
}

// dismiss ends the popup's lifecycle. It is idempotent, and terminal:
// no further configure or acknowledgement is accepted.
func (p *Popup) dismiss() {
	if p.lifecycle == PopupDismissed {
		return
	}
	p.lifecycle = PopupDismissed
	p.outstanding = nil
	p.repositionSerial = 0
	p.repositionToken = 0
}
