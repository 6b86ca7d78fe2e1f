// Package xdg implements compositor-side state tracking for the
// xdg-shell protocol. It sits above a transport that handles the wire
// format, tracking surface roles, the configure/acknowledge handshake,
// and popup placement, and delivering shell events to a host-supplied
// handler.
//
// All methods on a Shell and on the objects it owns must be called
// from a single dispatch goroutine. Hosts whose transports run on
// multiple goroutines can funnel calls through Shell.Enqueue and
// Shell.Flush.
package xdg

// Role identifies the shell role assigned to a surface. A surface has
// exactly one role for its lifetime once one is assigned.
type Role int

const (
	RoleNone Role = iota
	RoleToplevel
	RolePopup
)

func (r Role) String() string {
	switch r {
	case RoleToplevel:
		return "toplevel"
	case RolePopup:
		return "popup"
	default:
		return "none"
	}
}

// Protocol role tags. The legacy zxdg tags come from the unstable v6
// protocol and map onto the same behavior as the current ones; only
// the tag differs, for client compatibility.
const (
	TagToplevel       = "xdg_toplevel"
	TagPopup          = "xdg_popup"
	TagToplevelLegacy = "zxdg_toplevel_v6"
	TagPopupLegacy    = "zxdg_popup_v6"
)

// RoleForTag maps a protocol role tag to the role it assigns.
func RoleForTag(tag string) Role {
	switch tag {
	case TagToplevel, TagToplevelLegacy:
		return RoleToplevel
	case TagPopup, TagPopupLegacy:
		return RolePopup
	default:
		return RoleNone
	}
}
