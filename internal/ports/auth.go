package ports

import (
	"time"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
)

// PasswordService verifies login credentials against stored hashes
type PasswordService interface {
	// Hash derives a storable hash from a plain password
	Hash(password string) (string, error)

	// Compare checks a plain password against a stored hash
	Compare(hash, password string) error
}

// TokenService issues and verifies access tokens carrying a resolved
// identity. Verification is the in-process realization of Identity.verify:
// the lifecycle core trusts the identity and role it is handed back.
type TokenService interface {
	// Issue creates a signed token for an identity
	Issue(identity domain.Identity) (string, time.Time, error)

	// Verify validates a token and returns the identity it carries
	Verify(token string) (domain.Identity, error)
}
