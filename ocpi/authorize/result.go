package authorize

import (
	"evocpi/entity"
	"evocpi/ocpi"
)

type Result struct {
	Allowed   bool
	Anonymous bool
	Blocked   bool
	Identity  *entity.Identity
	Info      string
}

// Denied returns the envelope for a failed check, nil when access is allowed
func (r *Result) Denied() *ocpi.Response {
	if r.Allowed {
		return nil
	}
	return ocpi.Denied()
}
