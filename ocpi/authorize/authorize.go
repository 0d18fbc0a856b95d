package authorize

import (
	"evocpi/entity"
)

// Authorize decides whether the caller may use an endpoint requiring one of
// roles. With openData a request without any identity is let through, a
// present but invalid identity is still denied.
func Authorize(identity *entity.Identity, openData bool, roles ...entity.Role) *Result {
	if identity == nil {
		if openData {
			return &Result{Allowed: true, Anonymous: true}
		}
		return &Result{Info: "no identity"}
	}
	if identity.Status == entity.AccessBlocked {
		return &Result{Identity: identity, Blocked: true, Info: "access blocked"}
	}
	if !identity.IsAllowed() {
		return &Result{Identity: identity, Info: "access not allowed: " + string(identity.Status)}
	}
	if !identity.HasRole(roles...) {
		return &Result{Identity: identity, Info: "missing role"}
	}
	return &Result{Identity: identity, Allowed: true}
}
