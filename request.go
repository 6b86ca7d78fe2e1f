package xdg

// Request is a shell event delivered to the handler registered with
// Shell.OnRequest. The concrete type identifies the event; dispatch
// with a type switch.
type Request interface {
	isRequest()
}

// NewClient announces a client added to the shell.
type NewClient struct {
	Client *Client
}

// NewToplevel announces a newly created toplevel. The handler decides
// the initial state and calls Shell.ConfigureToplevel.
type NewToplevel struct {
	Client   *Client
	Toplevel *Toplevel
}

// NewPopup announces a newly created popup. The initial configure has
// already been issued from the popup's positioner.
type NewPopup struct {
	Client *Client
	Popup  *Popup
}

// StateChanged forwards a client's request to change its toplevel
// state, such as maximization or fullscreen. States is the state set
// the client asked for; the handler decides what to actually grant and
// calls Shell.ConfigureToplevel.
type StateChanged struct {
	Toplevel *Toplevel
	States   StateSet
}

// MoveRequested forwards a client's request for an interactive move.
type MoveRequested struct {
	Toplevel *Toplevel
}

// ResizeRequested forwards a client's request for an interactive
// resize. Edge identifies the border being dragged, using the
// xdg_toplevel resize_edge values.
type ResizeRequested struct {
	Toplevel *Toplevel
	Edge     uint32
}

// MinimizeRequested forwards a client's request to be minimized. The
// protocol has no unminimize counterpart; the handler owns the rest.
type MinimizeRequested struct {
	Toplevel *Toplevel
}

// Reposition echoes a popup reposition request after its configure has
// been acknowledged, so the handler can retire the token.
type Reposition struct {
	Popup *Popup
	Token uint32
}

// Destroyed announces that a surface's role object is gone, either
// explicitly or because its client disconnected. It lets the handler
// release resources deterministically.
type Destroyed struct {
	Client  *Client
	Surface uint32
	Role    Role
}

// ProtocolError reports a client protocol violation. The offending
// object has already been destroyed when the handler sees this.
type ProtocolError struct {
	Client  *Client
	Surface uint32
	Err     error
}

func (NewClient) isRequest() {}
func (NewToplevel) isRequest() {}
func (NewPopup) isRequest() {}
func (StateChanged) isRequest() {}
func (MoveRequested) isRequest() {}
func (ResizeRequested) isRequest() {}
func (MinimizeRequested) isRequest() {}
func (Reposition) isRequest() {}
func (Destroyed) isRequest() {}
func (ProtocolError) isRequest() {}

