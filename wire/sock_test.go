package wire

import (
	"net"
	"path/filepath"
	"testing"
)

func TestSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("WAYLAND_DISPLAY", "wayland-3")
	if got, want := SocketPath(), "/run/user/1000/wayland-3"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	t.Setenv("WAYLAND_DISPLAY", "/somewhere/else/sock")
	if got, want := SocketPath(), "/somewhere/else/sock"; got != want {
		t.Fatalf("absolute display not honored: %q", got)
	}
}

func TestListenAndDial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wayland-5")

	lis, got, err := Listen(path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer lis.Close()
	if got != path {
		t.Fatalf("expected socket at %q, got %q", path, got)
	}

	type accepted struct {
		conn *net.UnixConn
		err  error
	}
	acceptC := make(chan accepted, 1)
	go func() {
		c, err := lis.AcceptUnix()
		acceptC <- accepted{conn: c, err: err}
	}()

	t.Setenv("WAYLAND_DISPLAY", path)
	raw, err := Dial()
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client := NewConn(raw)
	defer client.Close()

	acc := <-acceptC
	if acc.err != nil {
		t.Fatalf("accept: %v", acc.err)
	}
	server := NewConn(acc.conn)
	defer server.Close()

	err = client.WriteRequest(Request{
		Op:      OpCreateToplevel,
		Surface: 1,
		Tag:     "xdg_toplevel",
	})
	if err != nil {
		t.Fatalf("write request: %v", err)
	}
	req, err := server.ReadRequest()
	if err != nil {
		t.Fatalf("read request: %v", err)
	}
	if req.Op != OpCreateToplevel || req.Surface != 1 || req.Tag != "xdg_toplevel" {
		t.Fatalf("unexpected request: %+v", req)
	}

	err = server.WriteEvent(Event{
		Op:      OpConfigure,
		Surface: 1,
		Serial:  1,
	})
	if err != nil {
		t.Fatalf("write event: %v", err)
	}
	ev, err := client.ReadEvent()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Op != OpConfigure || ev.Surface != 1 || ev.Serial != 1 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
