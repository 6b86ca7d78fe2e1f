package xdg

import "fmt"

// RoleError is returned by an attempt to assign a role to a surface
// that already carries a different one.
type RoleError struct {
	Surface   uint32
	Existing  Role
	Requested Role
}

func (err *RoleError) Error() string {
	return fmt.Sprintf("surface %v already has role %v, cannot assign %v", err.Surface, err.Existing, err.Requested)
}

// AckError is returned by an acknowledgement whose serial was never
// issued for the surface. Acknowledgements of serials that have
// already been retired by a later cumulative ack are not errors and
// are ignored instead.
type AckError struct {
	Surface uint32
	Serial  uint32
}

func (err *AckError) Error() string {
	return fmt.Sprintf("unknown configure serial %v for surface %v", err.Serial, err.Surface)
}

// PopupErrorReason describes which popup protocol rule was violated.
type PopupErrorReason int

const (
	// PopupAckDismissed means a configure or acknowledgement arrived
	// for a popup that has already been dismissed.
	PopupAckDismissed PopupErrorReason = iota

	// PopupAckOutOfOrder means an acknowledgement skipped over a
	// pending reposition's configure.
	PopupAckOutOfOrder
)

func (r PopupErrorReason) String() string {
	switch r {
	case PopupAckDismissed:
		return "popup already dismissed"
	case PopupAckOutOfOrder:
		return "acknowledgement out of order with pending reposition"
	default:
		return "invalid popup state"
	}
}

// PopupError is a popup protocol violation. The client is considered
// non-compliant and the shell destroys the popup after reporting it.
type PopupError struct {
	Surface uint32
	Serial  uint32
	Reason  PopupErrorReason
}

func (err *PopupError) Error() string {
	return fmt.Sprintf("popup %v, serial %v: %v", err.Surface, err.Serial, err.Reason)
}

// UnknownSurfaceError is returned by a request that names a surface
// the shell has no live role object for.
type UnknownSurfaceError struct {
	Surface uint32
}

func (err *UnknownSurfaceError) Error() string {
	return fmt.Sprintf("unknown surface ID: %v", err.Surface)
}

// DuplicateObjectError is returned by an attempt to create a second
// live role object for a surface that already has one.
type DuplicateObjectError struct {
	Surface uint32
}

func (err *DuplicateObjectError) Error() string {
	return fmt.Sprintf("surface %v already has a live role object", err.Surface)
}

// InvalidPositionerError is returned by a popup request whose
// positioner cannot place anything, such as one with no size.
type InvalidPositionerError struct {
	Surface uint32
}

func (err *InvalidPositionerError) Error() string {
	return fmt.Sprintf("invalid positioner for surface %v", err.Surface)
}
