package authz

import (
	"storefront/internal/domain"
	"storefront/internal/observability/metrics"
)

// Authorize permits the actor when it owns the resource, or when allowAdmin
// is set and the actor is an admin.
func Authorize(actor domain.Claims, ownerID domain.UserID, allowAdmin bool) error {
	if actor.ID == ownerID {
		return nil
	}
	if allowAdmin && actor.IsAdmin() {
		return nil
	}
	metrics.AuthzDeniedTotal.WithLabelValues("ownership").Inc()
	return domain.ErrForbidden
}
