package domain

// Capability is the role-specific view of the workflow, selected once at the
// authentication boundary and passed down in place of role-string dispatch.
type Capability interface {
	// Role returns the underlying workflow role
	Role() Role

	// AllowedNextStatuses enumerates the transition matrix row for the role
	AllowedNextStatuses(from ApplicationStatus) []ApplicationStatus

	// CanTransition reports whether the role may drive the transition
	CanTransition(from, to ApplicationStatus) bool

	// ValidateTransition is the write-boundary form of CanTransition,
	// failing with the descriptive transition error
	ValidateTransition(from, to ApplicationStatus) error
}

type clientCapability struct{}
type kamCapability struct{}
type creditCapability struct{}
type nbfcCapability struct{}

func (clientCapability) Role() Role { return RoleClient }
func (kamCapability) Role() Role    { return RoleKam }
func (creditCapability) Role() Role { return RoleCreditTeam }
func (nbfcCapability) Role() Role   { return RoleNbfc }

func (c clientCapability) AllowedNextStatuses(from ApplicationStatus) []ApplicationStatus {
	return AllowedNextStatuses(from, c.Role())
}

func (c kamCapability) AllowedNextStatuses(from ApplicationStatus) []ApplicationStatus {
	return AllowedNextStatuses(from, c.Role())
}

func (c creditCapability) AllowedNextStatuses(from ApplicationStatus) []ApplicationStatus {
	return AllowedNextStatuses(from, c.Role())
}

func (c nbfcCapability) AllowedNextStatuses(from ApplicationStatus) []ApplicationStatus {
	return AllowedNextStatuses(from, c.Role())
}

func (c clientCapability) CanTransition(from, to ApplicationStatus) bool {
	return IsValidTransition(from, to, c.Role())
}

func (c kamCapability) CanTransition(from, to ApplicationStatus) bool {
	return IsValidTransition(from, to, c.Role())
}

func (c creditCapability) CanTransition(from, to ApplicationStatus) bool {
	return IsValidTransition(from, to, c.Role())
}

func (c nbfcCapability) CanTransition(from, to ApplicationStatus) bool {
	return IsValidTransition(from, to, c.Role())
}

func (c clientCapability) ValidateTransition(from, to ApplicationStatus) error {
	return ValidateTransition(from, to, c.Role())
}

func (c kamCapability) ValidateTransition(from, to ApplicationStatus) error {
	return ValidateTransition(from, to, c.Role())
}

func (c creditCapability) ValidateTransition(from, to ApplicationStatus) error {
	return ValidateTransition(from, to, c.Role())
}

func (c nbfcCapability) ValidateTransition(from, to ApplicationStatus) error {
	return ValidateTransition(from, to, c.Role())
}

// CapabilityFor selects the capability for a role. Unknown roles get nil,
// which every caller must treat as deny.
func CapabilityFor(role Role) Capability {
	switch role {
	case RoleClient:
		return clientCapability{}
	case RoleKam:
		return kamCapability{}
	case RoleCreditTeam:
		return creditCapability{}
	case RoleNbfc:
		return nbfcCapability{}
	}
	return nil
}
