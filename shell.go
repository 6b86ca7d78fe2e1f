package xdg

import (
	"context"
	"errors"
	"image"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"deedles.dev/xdg/internal/debug"
	"deedles.dev/xdg/internal/ev"
	"deedles.dev/xdg/internal/objstore"
	"deedles.dev/xdg/internal/set"
	"deedles.dev/xdg/positioner"
)

// Shell is the process-wide registry of shell clients and their
// surfaces. It routes transport requests to the per-surface state
// machines and delivers shell events to the registered handler.
//
// A Shell is not safe for concurrent use. Multi-threaded transports
// must funnel all calls through Enqueue and run Flush from a single
// dispatch goroutine.
type Shell struct {
	handler  func(Request)
	clients  set.Set[*Client]
	roles    *RoleRegistry
	workArea image.Rectangle
	queue    *ev.Queue
}

func NewShell() *Shell {
	return &Shell{
		clients: make(set.Set[*Client]),
		roles:   NewRoleRegistry(),
		queue:   ev.NewQueue(),
	}
}

// OnRequest registers the handler that receives shell events. Only
// one handler is supported; registering again replaces it.
func (sh *Shell) OnRequest(handler func(Request)) {
	sh.handler = handler
}

func (sh *Shell) emit(req Request) {
	debug.Printf(" -> %#v", req)
	if sh.handler != nil {
		sh.handler(req)
	}
}

// SetWorkArea sets the rectangle that popup placement is constrained
// to. An empty work area disables constraint adjustment.
func (sh *Shell) SetWorkArea(r image.Rectangle) {
	sh.workArea = r
}

func (sh *Shell) WorkArea() image.Rectangle {
	return sh.workArea
}

// Roles returns the shell's role registry.
func (sh *Shell) Roles() *RoleRegistry {
	return sh.roles
}

// AddClient registers a transport endpoint with the shell. conn may
// be nil for clients that do not need events delivered, such as in
// tests.
func (sh *Shell) AddClient(conn Conn) *Client {
	client := &Client{
		shell:    sh,
		uuid:     uuid.New(),
		conn:     conn,
		surfaces: objstore.New[Object](1),
		roleIDs:  make(set.Set[uint32]),
	}
	sh.clients.Add(client)
	sh.emit(NewClient{Client: client})
	return client
}

// RemoveClient destroys all of the client's surfaces in creation
// order, firing a Destroyed notification for each, and closes its
// connection. It is called when the client's endpoint disconnects.
func (sh *Shell) RemoveClient(client *Client) error {
	if !sh.clients.Has(client) {
		return nil
	}

	client.surfaces.All(func(id uint32, obj Object) {
		sh.destroyObject(client, id, obj)
	})
	for id := range client.roleIDs {
		sh.roles.Forget(id)
	}
	sh.clients.Delete(client)

	if client.conn != nil {
		return client.conn.Close()
	}
	return nil
}

// Clients returns the currently registered clients in unspecified
// order.
func (sh *Shell) Clients() []*Client {
	return maps.Keys(sh.clients)
}

// CreateToplevel creates the toplevel role object for a surface. The
// handler receives a NewToplevel event and decides the initial
// configure.
func (sh *Shell) CreateToplevel(client *Client, surfaceID uint32, tag string) (*Toplevel, error) {
	if err := sh.createRole(client, surfaceID, RoleToplevel); err != nil {
		return nil, err
	}

	t := newToplevel(client, surfaceID, tag)
	client.surfaces.Add(surfaceID, t)
	sh.emit(NewToplevel{Client: client, Toplevel: t})
	return t, nil
}

// CreatePopup creates the popup role object for a surface, anchored
// to the parent surface with the placement rules in pos. The initial
// configure is issued immediately from the positioner.
func (sh *Shell) CreatePopup(client *Client, surfaceID, parentID uint32, pos positioner.State, tag string) (*Popup, error) {
	if !pos.Valid() {
		return nil, &InvalidPositionerError{Surface: surfaceID}
	}
	if !client.surfaces.Has(parentID) {
		return nil, &UnknownSurfaceError{Surface: parentID}
	}
	if err := sh.createRole(client, surfaceID, RolePopup); err != nil {
		return nil, err
	}

	p := newPopup(client, surfaceID, parentID, pos, tag)
	client.surfaces.Add(surfaceID, p)
	sh.emit(NewPopup{Client: client, Popup: p})

	cfg, err := p.configure(sh.workArea, 0)
	if err != nil {
		return nil, err
	}
	return p, client.sendPopupConfigure(p, cfg)
}

func (sh *Shell) createRole(client *Client, surfaceID uint32, role Role) error {
	if client.surfaces.Has(surfaceID) {
		return &DuplicateObjectError{Surface: surfaceID}
	}
	if err := sh.roles.Assign(surfaceID, role); err != nil {
		return err
	}
	client.roleIDs.Add(surfaceID)
	return nil
}

// ConfigureToplevel proposes size and states to a toplevel and sends
// the configure event. It is how the handler answers NewToplevel and
// StateChanged.
func (sh *Shell) ConfigureToplevel(t *Toplevel, size image.Point, states StateSet) (ToplevelConfigure, error) {
	if t.destroyed() {
		return ToplevelConfigure{}, &UnknownSurfaceError{Surface: t.id}
	}

	cfg := t.configure(size, states)
	return cfg, t.client.sendToplevelConfigure(t, cfg)
}

// SetPositioner stores new placement rules for a popup and issues a
// configure with the recomputed geometry.
func (sh *Shell) SetPositioner(client *Client, surfaceID uint32, pos positioner.State) error {
	p, ok := client.Popup(surfaceID)
	if !ok {
		return &UnknownSurfaceError{Surface: surfaceID}
	}
	if !pos.Valid() {
		return &InvalidPositionerError{Surface: surfaceID}
	}

	p.setPositioner(pos)
	cfg, err := p.configure(sh.workArea, 0)
	if err != nil {
		return sh.popupFault(client, p, err)
	}
	return client.sendPopupConfigure(p, cfg)
}

// Reposition handles a client's reposition request: new placement
// rules plus a client-chosen token that is echoed back through a
// Reposition event once the resulting configure is acknowledged.
func (sh *Shell) Reposition(client *Client, surfaceID uint32, pos positioner.State, token uint32) error {
	p, ok := client.Popup(surfaceID)
	if !ok {
		return &UnknownSurfaceError{Surface: surfaceID}
	}
	if !pos.Valid() {
		return &InvalidPositionerError{Surface: surfaceID}
	}

	p.setPositioner(pos)
	cfg, err := p.configure(sh.workArea, token)
	if err != nil {
		return sh.popupFault(client, p, err)
	}
	return client.sendPopupConfigure(p, cfg)
}

// AckConfigure handles a client's acknowledgement of a configure
// serial. An acknowledgement for a surface with no live role object
// is a no-op: the surface was destroyed with the configure in flight,
// which is a normal race. Popup protocol violations destroy the popup
// and are reported through a ProtocolError event.
func (sh *Shell) AckConfigure(client *Client, surfaceID, serial uint32) error {
	obj, ok := client.surfaces.Get(surfaceID)
	if !ok {
		return nil
	}

	switch obj := obj.(type) {
	case *Toplevel:
		return obj.ackConfigure(serial)

	case *Popup:
		err := obj.ackConfigure(serial)
		if err != nil {
			return sh.popupFault(client, obj, err)
		}
		if token := obj.repositioned(); token != 0 {
			sh.emit(Reposition{Popup: obj, Token: token})
		}
		return nil

	default:
		return &UnknownSurfaceError{Surface: surfaceID}
	}
}

// popupFault handles a popup protocol violation: the client is
// non-compliant, so the popup is destroyed per protocol convention
// and the violation is surfaced to the handler.
func (sh *Shell) popupFault(client *Client, p *Popup, err error) error {
	var perr *PopupError
	if !errors.As(err, &perr) {
		return err
	}

	sh.emit(ProtocolError{Client: client, Surface: p.id, Err: err})
	sh.destroyObject(client, p.id, p)
	return err
}

// SetMaximized handles a client's (un)maximize request.
func (sh *Shell) SetMaximized(client *Client, surfaceID uint32, on bool) error {
	return sh.requestState(client, surfaceID, StateMaximized, on)
}

// SetFullscreen handles a client's (un)fullscreen request.
func (sh *Shell) SetFullscreen(client *Client, surfaceID uint32, on bool) error {
	return sh.requestState(client, surfaceID, StateFullscreen, on)
}

func (sh *Shell) requestState(client *Client, surfaceID uint32, state ToplevelState, on bool) error {
	t, ok := client.Toplevel(surfaceID)
	if !ok {
		return &UnknownSurfaceError{Surface: surfaceID}
	}

	states := t.current.States
	if on {
		states = states.With(state)
	} else {
		states = states.Without(state)
	}
	sh.emit(StateChanged{Toplevel: t, States: states})
	return nil
}

// SetMinimized handles a client's minimize request.
func (sh *Shell) SetMinimized(client *Client, surfaceID uint32) error {
	t, ok := client.Toplevel(surfaceID)
	if !ok {
		return &UnknownSurfaceError{Surface: surfaceID}
	}
	sh.emit(MinimizeRequested{Toplevel: t})
	return nil
}

// Move handles a client's interactive move request.
func (sh *Shell) Move(client *Client, surfaceID uint32) error {
	t, ok := client.Toplevel(surfaceID)
	if !ok {
		return &UnknownSurfaceError{Surface: surfaceID}
	}
	sh.emit(MoveRequested{Toplevel: t})
	return nil
}

// Resize handles a client's interactive resize request. edge uses the
// xdg_toplevel resize_edge values.
func (sh *Shell) Resize(client *Client, surfaceID uint32, edge uint32) error {
	t, ok := client.Toplevel(surfaceID)
	if !ok {
		return &UnknownSurfaceError{Surface: surfaceID}
	}
	sh.emit(ResizeRequested{Toplevel: t, Edge: edge})
	return nil
}

// DismissPopup dismisses a popup from the compositor side and tells
// the client with a popup_done event. The role object stays live
// until the client destroys it. Dismissing an already dismissed popup
// is a no-op.
func (sh *Shell) DismissPopup(p *Popup) error {
	if p.State() == PopupDismissed {
		return nil
	}

	p.dismiss()
	return p.client.sendPopupDone(p)
}

// Destroy handles a client's destroy request for a surface's role
// object. Outstanding configures are cancelled; their serials become
// permanently unacknowledgeable without error. Destroying a toplevel
// dismisses any popups still anchored to it.
func (sh *Shell) Destroy(client *Client, surfaceID uint32) error {
	obj, ok := client.surfaces.Get(surfaceID)
	if !ok {
		return &UnknownSurfaceError{Surface: surfaceID}
	}

	var errs []error
	client.surfaces.All(func(_ uint32, child Object) {
		if p, ok := child.(*Popup); ok && p.parent == surfaceID {
			errs = append(errs, sh.DismissPopup(p))
		}
	})

	sh.destroyObject(client, surfaceID, obj)
	return errors.Join(errs...)
}

func (sh *Shell) destroyObject(client *Client, surfaceID uint32, obj Object) {
	obj.destroy()
	client.surfaces.Delete(surfaceID)
	sh.emit(Destroyed{Client: client, Surface: surfaceID, Role: obj.Role()})
}

// Enqueue schedules f to run on the next Flush. It is the one method
// on a Shell that may be called from any goroutine.
func (sh *Shell) Enqueue(f func() error) {
	sh.queue.Add() <- f
}

// Dispatch blocks until at least one operation has been enqueued or
// ctx is cancelled, then runs everything queued so far on the caller's
// goroutine. It returns the operations' joined errors, or the context
// error on cancellation.
func (sh *Shell) Dispatch(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case queue := <-sh.queue.Get():
		return queue.Flush()
	}
}

// Flush runs all operations enqueued since the last flush, on the
// caller's goroutine, and returns their joined errors.
func (sh *Shell) Flush() error {
	select {
	case queue := <-sh.queue.Get():
		return queue.Flush()
	default:
		return nil
	}
}

// Close stops the shell's event queue and removes all clients.
func (sh *Shell) Close() error {
	sh.queue.Stop()

	var errs []error
	for client := range sh.clients {
		errs = append(errs, sh.RemoveClient(client))
	}
	return errors.Join(errs...)
}
