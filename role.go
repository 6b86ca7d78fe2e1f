package xdg

// RoleRegistry tracks the exclusive role assigned to each surface. A
// role outlives the role object that assigned it: destroying a
// toplevel does not free its surface for use as a popup.
type RoleRegistry struct {
	roles map[uint32]Role
}

func NewRoleRegistry() *RoleRegistry {
	return &RoleRegistry{
		roles: make(map[uint32]Role),
	}
}

// Assign records role for the surface. Assigning the role a surface
// already has is a no-op. Assigning a different one fails with a
// *RoleError and leaves the registry unchanged.
func (reg *RoleRegistry) Assign(surface uint32, role Role) error {
	existing, ok := reg.roles[surface]
	if ok && existing != role {
		return &RoleError{
			Surface:   surface,
			Existing:  existing,
			Requested: role,
		}
	}

	reg.roles[surface] = role
	return nil
}

// Query returns the role assigned to the surface, if any.
func (reg *RoleRegistry) Query(surface uint32) (Role, bool) {
	role, ok := reg.roles[surface]
	return role, ok
}

// Forget drops the surface from the registry. It is called when the
// underlying surface itself goes away, not when a role object is
// destroyed.
func (reg *RoleRegistry) Forget(surface uint32) {
	delete(reg.roles, surface)
}
