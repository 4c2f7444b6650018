// Package access decides whether a principal may perform an action on a
// resource. Every service consults it; handlers never check roles themselves.
package access

import (
	"github.com/simp-lee/bilemo/internal/domain"
	"github.com/simp-lee/bilemo/internal/metrics"
)

// Action is an operation on a resource.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Reason explains a denial.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonAdminOnly       Reason = "admin_only"
	ReasonCrossTenant     Reason = "cross_tenant"
)

// Target identifies the resource an action applies to. TenantID is the
// owning company for companies and users; it is ignored for products.
type Target struct {
	Kind     domain.Kind
	TenantID uint
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var allow = Decision{Allowed: true}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// Authorize evaluates the access policy. It has no side effects.
func Authorize(p *domain.Principal, action Action, target Target) Decision {
	if p == nil {
		return deny(ReasonUnauthenticated)
	}
	if p.IsAdmin() {
		return allow
	}

	switch target.Kind {
	case domain.KindProduct:
		if action == ActionList || action == ActionRead {
			return allow
		}
		return deny(ReasonAdminOnly)

	case domain.KindCompany:
		if action != ActionRead {
			return deny(ReasonAdminOnly)
		}
		return sameTenant(p, target)

	case domain.KindUser:
		return sameTenant(p, target)
	}

	return deny(ReasonAdminOnly)
}

func sameTenant(p *domain.Principal, target Target) Decision {
	if p.TenantID == target.TenantID {
		return allow
	}
	return deny(ReasonCrossTenant)
}

// Error translates a decision into an application error, or nil when the
// decision allows the action. Cross-tenant reads look like missing
// resources, cross-tenant mutations are invalid requests and cross-tenant
// listings are forbidden.
func Error(d Decision, action Action) error {
	if d.Allowed {
		return nil
	}

	switch d.Reason {
	case ReasonUnauthenticated:
		return domain.NewAppError(domain.CodeUnauthorized, "authentication required", nil)
	case ReasonCrossTenant:
		switch action {
		case ActionRead:
			return domain.NewAppError(domain.CodeNotFound, "not found", nil)
		case ActionList:
			return domain.NewAppError(domain.CodeForbidden, "access denied", nil)
		default:
			return domain.NewAppError(domain.CodeInvalidResource, "invalid resource", nil)
		}
	}
	return domain.NewAppError(domain.CodeForbidden, "access denied", nil)
}

// Enforce authorizes the action, records denials and returns the matching
// application error.
func Enforce(p *domain.Principal, action Action, target Target) error {
	d := Authorize(p, action, target)
	if !d.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(target.Kind), string(d.Reason)).Inc()
	}
	return Error(d, action)
}
