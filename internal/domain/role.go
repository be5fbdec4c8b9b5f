package domain

// Role represents the actor role of an authenticated identity
type Role string

const (
	RoleClient     Role = "client"
	RoleKam        Role = "kam"
	RoleCreditTeam Role = "credit_team"
	RoleNbfc       Role = "nbfc"
)

// IsValid checks if the role is one of the known workflow roles
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleKam, RoleCreditTeam, RoleNbfc:
		return true
	}
	return false
}

// Identity represents a verified caller identity
type Identity struct {
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	ClientID string `json:"client_id,omitempty"`
	KamID    string `json:"kam_id,omitempty"`
	NbfcID   string `json:"nbfc_id,omitempty"`
}

// ScopeID returns the scoping id for the identity's role.
// credit_team has no scoping id (global visibility).
func (i Identity) ScopeID() string {
	switch i.Role {
	case RoleClient:
		return i.ClientID
	case RoleKam:
		return i.KamID
	case RoleNbfc:
		return i.NbfcID
	}
	return ""
}

// UserAccount represents a login credential row backing authentication
type UserAccount struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
	ClientID     string `json:"client_id,omitempty"`
	KamID        string `json:"kam_id,omitempty"`
	NbfcID       string `json:"nbfc_id,omitempty"`
}

// KamRecord represents a KAM directory row mapping a login email to the
// business KAM id and the clients the KAM manages.
type KamRecord struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	KamID     string   `json:"kam_id"`
	Name      string   `json:"name"`
	ClientIDs []string `json:"client_ids,omitempty"`
}
