// Package wire implements the line-delimited JSON protocol spoken
// between the shell daemon and its clients, along with the Unix socket
// conventions used to find and serve it.
package wire

import (
	"encoding/json"
	"image"
	"net"

	"deedles.dev/xdg/positioner"
)

// Request ops, client to server.
const (
	OpCreateToplevel = "create_toplevel"
	OpCreatePopup    = "create_popup"
	OpAckConfigure   = "ack_configure"
	OpSetPositioner  = "set_positioner"
	OpReposition     = "reposition"
	OpSetTitle       = "set_title"
	OpSetAppID       = "set_app_id"
	OpSetMinSize     = "set_min_size"
	OpSetMaxSize     = "set_max_size"
	OpSetMaximized   = "set_maximized"
	OpSetFullscreen  = "set_fullscreen"
	OpSetMinimized   = "set_minimized"
	OpMove           = "move"
	OpResize         = "resize"
	OpDestroy        = "destroy"
)

// Event ops, server to client.
const (
	OpConfigure      = "configure"
	OpPopupConfigure = "popup_configure"
	OpPopupDone      = "popup_done"
	OpError          = "error"
)

// Request is a single client request. Op selects the operation and
// decides which of the remaining fields are meaningful.
type Request struct {
	Op         string      `json:"op"`
	Surface    uint32      `json:"surface"`
	Tag        string      `json:"tag,omitempty"`
	Parent     uint32      `json:"parent,omitempty"`
	Serial     uint32      `json:"serial,omitempty"`
	Token      uint32      `json:"token,omitempty"`
	On         bool        `json:"on,omitempty"`
	Edge       uint32      `json:"edge,omitempty"`
	Title      string      `json:"title,omitempty"`
	AppID      string      `json:"app_id,omitempty"`
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Positioner *Positioner `json:"positioner,omitempty"`
}

// Event is a single server event.
type Event struct {
	Op      string   `json:"op"`
	Surface uint32   `json:"surface"`
	Serial  uint32   `json:"serial,omitempty"`
	X       int      `json:"x,omitempty"`
	Y       int      `json:"y,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	States  []string `json:"states,omitempty"`
	Token   uint32   `json:"token,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Positioner is the wire form of popup placement rules.
type Positioner struct {
	AnchorRect [4]int `json:"anchor_rect"`
	Size       [2]int `json:"size"`
	Anchor     uint32 `json:"anchor,omitempty"`
	Gravity    uint32 `json:"gravity,omitempty"`
	Adjustment uint32 `json:"adjustment,omitempty"`
	Offset     [2]int `json:"offset,omitempty"`
}

// State converts the wire form to the placement rules it encodes.
func (p *Positioner) State() positioner.State {
	if p == nil {
		return positioner.State{}
	}
	return positioner.State{
		AnchorRect: image.Rect(
			p.AnchorRect[0],
			p.AnchorRect[1],
			p.AnchorRect[0]+p.AnchorRect[2],
			p.AnchorRect[1]+p.AnchorRect[3],
		),
		Size:       image.Pt(p.Size[0], p.Size[1]),
		Anchor:     positioner.Anchor(p.Anchor),
		Gravity:    positioner.Gravity(p.Gravity),
		Adjustment: positioner.ConstraintAdjustment(p.Adjustment),
		Offset:     image.Pt(p.Offset[0], p.Offset[1]),
	}
}

// FromState converts placement rules to their wire form.
func FromState(s positioner.State) *Positioner {
	return &Positioner{
		AnchorRect: [4]int{s.AnchorRect.Min.X, s.AnchorRect.Min.Y, s.AnchorRect.Dx(), s.AnchorRect.Dy()},
		Size:       [2]int{s.Size.X, s.Size.Y},
		Anchor:     uint32(s.Anchor),
		Gravity:    uint32(s.Gravity),
		Adjustment: uint32(s.Adjustment),
		Offset:     [2]int{s.Offset.X, s.Offset.Y},
	}
}

// Conn wraps a stream connection with the JSON codec. One value per
// line in each direction.
type Conn struct {
	c   net.Conn
	dec *json.Decoder
	enc *json.Encoder
}

func NewConn(c net.Conn) *Conn {
	return &Conn{
		c:   c,
		dec: json.NewDecoder(c),
		enc: json.NewEncoder(c),
	}
}

func (c *Conn) ReadRequest() (req Request, err error) {
	err = c.dec.Decode(&req)
	return req, err
}

func (c *Conn) ReadEvent() (ev Event, err error) {
	err = c.dec.Decode(&ev)
	return ev, err
}

func (c *Conn) WriteRequest(req Request) error {
	return c.enc.Encode(req)
}

func (c *Conn) WriteEvent(ev Event) error {
	return c.enc.Encode(ev)
}

func (c *Conn) Close() error {
	return c.c.Close()
}
