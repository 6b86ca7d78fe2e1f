package xdg

import (
	"github.com/google/uuid"

	"deedles.dev/xdg/internal/objstore"
	"deedles.dev/xdg/internal/set"
)

// Conn delivers shell events to a client's transport endpoint. The
// shell calls it from the dispatch goroutine; implementations that
// write to a network connection should enqueue rather than block.
type Conn interface {
	SendToplevelConfigure(*Toplevel, ToplevelConfigure) error
	SendPopupConfigure(*Popup, PopupConfigure) error
	SendPopupDone(*Popup) error
	Close() error
}

// Client is one connected transport endpoint and the shell surfaces
// it owns. Clients are created with Shell.AddClient and destroyed,
// along with all of their surfaces, by Shell.RemoveClient.
type Client struct {
	shell    *Shell
	uuid     uuid.UUID
	conn     Conn
	surfaces *objstore.Store[Object]

	// roleIDs remembers every surface the client assigned a role to,
	// including surfaces whose role object is already gone, so the
	// registry can be cleaned up when the client disconnects.
	roleIDs set.Set[uint32]
}

// UUID returns the shell-assigned identity of the client, for
// correlation in logs and handlers.
func (client *Client) UUID() uuid.UUID {
	return client.uuid
}

// Object returns the live role object for the surface, if any.
func (client *Client) Object(id uint32) (Object, bool) {
	return client.surfaces.Get(id)
}

// Toplevel returns the surface's role object if it is a live
// toplevel.
func (client *Client) Toplevel(id uint32) (*Toplevel, bool) {
	obj, ok := client.surfaces.Get(id)
	if !ok {
		return nil, false
	}
	t, ok := obj.(*Toplevel)
	return t, ok
}

// Popup returns the surface's role object if it is a live popup.
func (client *Client) Popup(id uint32) (*Popup, bool) {
	obj, ok := client.surfaces.Get(id)
	if !ok {
		return nil, false
	}
	p, ok := obj.(*Popup)
	return p, ok
}

// Surfaces calls f for each live role object in creation order.
func (client *Client) Surfaces(f func(Object)) {
	client.surfaces.All(func(_ uint32, obj Object) {
		f(obj)
	})
}

func (client *Client) sendToplevelConfigure(t *Toplevel, ev ToplevelConfigure) error {
	if client.conn == nil {
		return nil
	}
	return client.conn.SendToplevelConfigure(t, ev)
}

func (client *Client) sendPopupConfigure(p *Popup, ev PopupConfigure) error {
	if client.conn == nil {
		return nil
	}
	return client.conn.SendPopupConfigure(p, ev)
}

func (client *Client) sendPopupDone(p *Popup) error {
	if client.conn == nil {
		return nil
	}
	return client.conn.SendPopupDone(p)
}
