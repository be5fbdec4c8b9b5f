package usecase

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// AccessFilter narrows record sets to what a caller may see. It defines
// visibility only; the transition guard separately defines mutability, so an
// identity can pass this filter and still be denied a status change.
type AccessFilter struct {
	kamDirectory ports.KamDirectory
	logger       *logrus.Logger
}

// NewAccessFilter creates a new RBAC access filter
func NewAccessFilter(kamDirectory ports.KamDirectory, logger *logrus.Logger) *AccessFilter {
	return &AccessFilter{
		kamDirectory: kamDirectory,
		logger:       logger,
	}
}

// MatchScopeID compares a record's scoping value against a caller's scope id.
// Only exact or case-insensitive equality counts; substring and prefix
// matches are forbidden ("KAM1" must never match "KAM10"). A collection
// value matches by membership. Nil never matches.
func MatchScopeID(value interface{}, want string) bool {
	if value == nil || want == "" {
		return false
	}

	switch v := value.(type) {
	case string:
		return strings.EqualFold(v, want)
	case *string:
		if v == nil {
			return false
		}
		return strings.EqualFold(*v, want)
	case []string:
		for _, item := range v {
			if strings.EqualFold(item, want) {
				return true
			}
		}
		return false
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
		return false
	}
	return false
}

// FilterApplications returns only the loan files the caller may act on.
// Unknown or absent roles yield an empty set: fail closed, never fail open.
func (f *AccessFilter) FilterApplications(ctx context.Context, identity domain.Identity, apps []*domain.LoanApplication) []*domain.LoanApplication {
	switch identity.Role {
	case domain.RoleCreditTeam:
		// Unrestricted visibility across all records
		return apps

	case domain.RoleClient:
		return filterApps(apps, func(app *domain.LoanApplication) bool {
			return MatchScopeID(app.ClientID, identity.ClientID)
		})

	case domain.RoleKam:
		kamID, clientIDs := f.resolveKamScope(ctx, identity)
		if kamID == "" && len(clientIDs) == 0 {
			return []*domain.LoanApplication{}
		}
		return filterApps(apps, func(app *domain.LoanApplication) bool {
			if MatchScopeID(app.AssignedKamID, kamID) {
				return true
			}
			return MatchScopeID(clientIDs, app.ClientID)
		})

	case domain.RoleNbfc:
		return filterApps(apps, func(app *domain.LoanApplication) bool {
			if app.AssignedNbfcID == nil {
				return false
			}
			return MatchScopeID(*app.AssignedNbfcID, identity.NbfcID)
		})
	}

	f.logger.WithField("role", identity.Role).Warn("Unrecognized role, denying visibility")
	return []*domain.LoanApplication{}
}

// CanAccessApplication checks visibility of one specific record
func (f *AccessFilter) CanAccessApplication(ctx context.Context, identity domain.Identity, app *domain.LoanApplication) bool {
	if app == nil {
		return false
	}
	visible := f.FilterApplications(ctx, identity, []*domain.LoanApplication{app})
	return len(visible) == 1
}

// resolveKamScope resolves the caller to a business KAM id and the managed
// client ids. The scope id on the verified identity wins; the directory
// lookup by email is the fallback when the claim is absent.
func (f *AccessFilter) resolveKamScope(ctx context.Context, identity domain.Identity) (string, []string) {
	kamID := identity.KamID

	record, err := f.kamDirectory.FindByEmail(ctx, identity.Email)
	if err != nil {
		if kamID == "" {
			f.logger.WithError(err).WithField("email", identity.Email).
				Warn("KAM directory lookup failed and identity carries no KAM id")
		}
		return kamID, nil
	}

	if kamID == "" {
		kamID = record.KamID
	}
	return kamID, record.ClientIDs
}

func filterApps(apps []*domain.LoanApplication, keep func(*domain.LoanApplication) bool) []*domain.LoanApplication {
	out := make([]*domain.LoanApplication, 0, len(apps))
	for _, app := range apps {
		if keep(app) {
			out = append(out, app)
		}
	}
	return out
}
