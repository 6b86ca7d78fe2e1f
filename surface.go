package xdg

// phase is the position of a surface in the configure/acknowledge
// handshake.
type phase int

const (
	phaseUnconfigured phase = iota
	phaseConfigured
	phaseAcked
	phaseDestroyed
)

// Object is a role object attached to a surface, either a *Toplevel
// or a *Popup.
type Object interface {
	ID() uint32
	Tag() string
	Role() Role

	destroy()
}

// Cached is a double-buffered pair of role attributes. Pending is
// written by client requests and becomes Current atomically when the
// client acknowledges a configure.
type Cached[T any] struct {
	Pending T
	Current T
}

func (c *Cached[T]) commit() {
	c.Current = c.Pending
}

// configureRecord is an issued-but-unacknowledged configure.
type configureRecord[S any] struct {
	serial uint32
	state  S
}

// surface carries the configure/acknowledge machinery shared by
// toplevels and popups. Serials are monotonically increasing per
// surface, starting at 1, and acknowledgements are cumulative: acking
// a serial retires every earlier outstanding configure along with it.
type surface[S any] struct {
	client *Client
	id     uint32
	tag    string

	phase       phase
	nextSerial  uint32
	outstanding []configureRecord[S]
}

func newSurface[S any](client *Client, id uint32, tag string) surface[S] {
	return surface[S]{
		client:     client,
		id:         id,
		tag:        tag,
		nextSerial: 1,
	}
}

func (s *surface[S]) ID() uint32 {
	return s.id
}

func (s *surface[S]) Tag() string {
	return s.tag
}

func (s *surface[S]) Client() *Client {
	return s.client
}

// Configured reports whether at least one configure has been issued
// for the surface.
func (s *surface[S]) Configured() bool {
	return s.phase == phaseConfigured || s.phase == phaseAcked
}

func (s *surface[S]) destroyed() bool {
	return s.phase == phaseDestroyed
}

// issue allocates the next serial for a configure carrying state and
// marks the surface configured. It returns 0 on a destroyed surface.
func (s *surface[S]) issue(state S) uint32 {
	if s.phase == phaseDestroyed {
		return 0
	}

	serial := s.nextSerial
	s.nextSerial++
	s.outstanding = append(s.outstanding, configureRecord[S]{
		serial: serial,
		state:  state,
	})
	s.phase = phaseConfigured
	return serial
}

// ack acknowledges serial. On a match it returns the state proposed
// at that serial with ok set, retires it and every earlier
// outstanding configure, and marks the surface acknowledged. A serial
// below the lowest outstanding one is a stale ack from a normal
// protocol race and is ignored without error. A serial that was never
// issued is an *AckError.
func (s *surface[S]) ack(serial uint32) (state S, ok bool, err error) {
	if s.phase == phaseDestroyed {
		return state, false, nil
	}
	if serial >= s.nextSerial {
		return state, false, &AckError{Surface: s.id, Serial: serial}
	}
	if len(s.outstanding) == 0 || serial < s.outstanding[0].serial {
		// Stale: already retired by a later cumulative ack.
		return state, false, nil
	}

	for i, rec := range s.outstanding {
		if rec.serial == serial {
			s.outstanding = s.outstanding[i+1:]
			s.phase = phaseAcked
			return rec.state, true, nil
		}
	}

	// Serials are allocated contiguously, so a serial between the
	// lowest and highest outstanding ones always matches above.
	return state, false, &AckError{Surface: s.id, Serial: serial}
}

// destroy cancels all outstanding configures. Their serials become
// permanently unacknowledgeable without error.
func (s *surface[S]) destroy() {
	s.phase = phaseDestroyed
	s.outstanding = nil
}
