package main

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"net"

	"deedles.dev/xdg"
	"deedles.dev/xdg/wire"
)

type server struct {
	shell *xdg.Shell
	lis   *net.UnixListener
}

func newServer(shell *xdg.Shell, lis *net.UnixListener) *server {
	return &server{
		shell: shell,
		lis:   lis,
	}
}

// listen accepts connections until ctx is cancelled. Clients are
// registered with the shell on the dispatch goroutine.
func (s *server) listen(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.lis.Close() })
	defer stop()

	for {
		c, err := s.lis.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			return err
		}
		s.addClient(ctx, c)
	}
}

// dispatch runs the shell's single-threaded event loop. Request
// handling errors are already reported to the offending client, so
// they are only logged here.
func (s *server) dispatch(ctx context.Context) error {
	for {
		err := s.shell.Dispatch(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			slog.Warn("Dispatch", slog.Any("error", err))
		}
	}
}

func (s *server) addClient(ctx context.Context, c *net.UnixConn) {
	if cred, err := wire.PeerCredentials(c); err == nil {
		slog.Info("Client connected", slog.Int("pid", int(cred.Pid)), slog.Int("uid", int(cred.Uid)))
	} else {
		slog.Info("Client connected", slog.Any("peer_cred_error", err))
	}

	cc := &clientConn{server: s, conn: wire.NewConn(c)}
	s.shell.Enqueue(func() error {
		cc.client = s.shell.AddClient(cc)
		slog.Debug("Client registered", slog.String("uuid", cc.client.UUID().String()), slog.Int("clients", len(s.shell.Clients())))
		go cc.listen(ctx)
		return nil
	})
}

// clientConn binds one socket connection to one shell client. It
// implements xdg.Conn for the event direction and feeds the request
// direction into the shell's queue.
type clientConn struct {
	server *server
	conn   *wire.Conn
	client *xdg.Client
}

func (cc *clientConn) listen(ctx context.Context) {
	defer cc.server.shell.Enqueue(func() error {
		slog.Debug("Client disconnected", slog.String("uuid", cc.client.UUID().String()))
		return cc.server.shell.RemoveClient(cc.client)
	})

	for {
		req, err := cc.conn.ReadRequest()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				slog.Debug("Client read", slog.Any("error", err))
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
		cc.server.shell.Enqueue(func() error { return cc.dispatch(req) })
	}
}

// dispatch applies one request on the dispatch goroutine. Failures are
// reported back to the client as an error event rather than tearing
// down the connection; the shell has already destroyed whatever the
// protocol requires.
func (cc *clientConn) dispatch(req wire.Request) error {
	err := cc.apply(req)
	if err == nil {
		return nil
	}

	slog.Debug("Request failed", slog.String("op", req.Op), slog.Int("surface", int(req.Surface)), slog.Any("error", err))
	return cc.conn.WriteEvent(wire.Event{
		Op:      wire.OpError,
		Surface: req.Surface,
		Message: err.Error(),
	})
}

func (cc *clientConn) apply(req wire.Request) error {
	sh, client := cc.server.shell, cc.client

	switch req.Op {
	case wire.OpCreateToplevel:
		_, err := sh.CreateToplevel(client, req.Surface, tagOr(req.Tag, xdg.TagToplevel))
		return err

	case wire.OpCreatePopup:
		_, err := sh.CreatePopup(client, req.Surface, req.Parent, req.Positioner.State(), tagOr(req.Tag, xdg.TagPopup))
		return err

	case wire.OpAckConfigure:
		return sh.AckConfigure(client, req.Surface, req.Serial)

	case wire.OpSetPositioner:
		return sh.SetPositioner(client, req.Surface, req.Positioner.State())

	case wire.OpReposition:
		return sh.Reposition(client, req.Surface, req.Positioner.State(), req.Token)

	case wire.OpSetTitle:
		t, ok := client.Toplevel(req.Surface)
		if !ok {
			return &xdg.UnknownSurfaceError{Surface: req.Surface}
		}
		t.SetTitle(req.Title)
		return nil

	case wire.OpSetAppID:
		t, ok := client.Toplevel(req.Surface)
		if !ok {
			return &xdg.UnknownSurfaceError{Surface: req.Surface}
		}
		t.SetAppID(req.AppID)
		return nil

	case wire.OpSetMinSize:
		t, ok := client.Toplevel(req.Surface)
		if !ok {
			return &xdg.UnknownSurfaceError{Surface: req.Surface}
		}
		t.SetMinSize(image.Pt(req.Width, req.Height))
		return nil

	case wire.OpSetMaxSize:
		t, ok := client.Toplevel(req.Surface)
		if !ok {
			return &xdg.UnknownSurfaceError{Surface: req.Surface}
		}
		t.SetMaxSize(image.Pt(req.Width, req.Height))
		return nil

	case wire.OpSetMaximized:
		return sh.SetMaximized(client, req.Surface, req.On)

	case wire.OpSetFullscreen:
		return sh.SetFullscreen(client, req.Surface, req.On)

	case wire.OpSetMinimized:
		return sh.SetMinimized(client, req.Surface)

	case wire.OpMove:
		return sh.Move(client, req.Surface)

	case wire.OpResize:
		return sh.Resize(client, req.Surface, req.Edge)

	case wire.OpDestroy:
		return sh.Destroy(client, req.Surface)

	default:
		return errors.New("unknown op " + req.Op)
	}
}

func tagOr(tag, def string) string {
	if tag == "" {
		return def
	}
	return tag
}

func (cc *clientConn) SendToplevelConfigure(t *xdg.Toplevel, cfg xdg.ToplevelConfigure) error {
	states := cfg.States.States()
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, s.String())
	}

	return cc.conn.WriteEvent(wire.Event{
		Op:      wire.OpConfigure,
		Surface: t.ID(),
		Serial:  cfg.Serial,
		Width:   cfg.Size.X,
		Height:  cfg.Size.Y,
		States:  names,
	})
}

func (cc *clientConn) SendPopupConfigure(p *xdg.Popup, cfg xdg.PopupConfigure) error {
	return cc.conn.WriteEvent(wire.Event{
		Op:      wire.OpPopupConfigure,
		Surface: p.ID(),
		Serial:  cfg.Serial,
		X:       cfg.Geometry.Min.X,
		Y:       cfg.Geometry.Min.Y,
		Width:   cfg.Geometry.Dx(),
		Height:  cfg.Geometry.Dy(),
		Token:   cfg.Token,
	})
}

func (cc *clientConn) SendPopupDone(p *xdg.Popup) error {
	return cc.conn.WriteEvent(wire.Event{
		Op:      wire.OpPopupDone,
		Surface: p.ID(),
	})
}

func (cc *clientConn) Close() error {
	return cc.conn.Close()
}

// handle is the daemon's window-management policy. It answers shell
// events with configures; anything interactive is logged and left to a
// real compositor embedding the package.
func (s *server) handle(req xdg.Request) {
	switch req := req.(type) {
	case xdg.NewClient:

	case xdg.NewToplevel:
		// A zero size lets the client pick its own dimensions.
		if _, err := s.shell.ConfigureToplevel(req.Toplevel, image.Point{}, 0); err != nil {
			slog.Warn("Initial configure", slog.Any("error", err))
		}

	case xdg.NewPopup:

	case xdg.StateChanged:
		size := req.Toplevel.Current().Size
		if req.States.Has(xdg.StateMaximized) || req.States.Has(xdg.StateFullscreen) {
			size = s.shell.WorkArea().Size()
		}
		if _, err := s.shell.ConfigureToplevel(req.Toplevel, size, req.States); err != nil {
			slog.Warn("State configure", slog.Any("error", err))
		}

	case xdg.MinimizeRequested:
		slog.Debug("Minimize requested", slog.Int("surface", int(req.Toplevel.ID())))

	case xdg.MoveRequested:
		slog.Debug("Move requested", slog.Int("surface", int(req.Toplevel.ID())))

	case xdg.ResizeRequested:
		slog.Debug("Resize requested", slog.Int("surface", int(req.Toplevel.ID())), slog.Int("edge", int(req.Edge)))

	case xdg.Reposition:
		slog.Debug("Reposition applied", slog.Int("surface", int(req.Popup.ID())), slog.Int("token", int(req.Token)))

	case xdg.ProtocolError:
		slog.Warn("Protocol violation", slog.Int("surface", int(req.Surface)), slog.Any("error", req.Err))

	case xdg.Destroyed:
		slog.Debug("Surface destroyed", slog.Int("surface", int(req.Surface)), slog.String("role", req.Role.String()))
	}
}
