package roles

import (
	"github.com/ludorg/gamenight/internal/model"
)

// Service is the role policy: a pure decision function over principals and
// role transitions. It holds no state and talks to no store; managers consult
// it before mutating anything.
type Service struct{}

// New creates a new role policy service
func New() *Service {
	return &Service{}
}

// HasElevatedAccess reports whether the principal may act on entities it does
// not own. Only admins qualify.
func (s *Service) HasElevatedAccess(p *model.Principal) bool {
	return p != nil && p.Role == model.RoleAdmin
}

// CanManage reports whether actor may mutate an entity owned by ownerID.
// Owners manage their own entities; admins manage everything.
func (s *Service) CanManage(actor *model.Principal, ownerID model.PrincipalID) bool {
	if actor == nil {
		return false
	}
	return actor.ID == ownerID || s.HasElevatedAccess(actor)
}

// CanCreate reports whether the principal may create events, tables or game
// lists. Pending principals must be approved first.
func (s *Service) CanCreate(p *model.Principal) bool {
	if p == nil {
		return false
	}
	return p.Role == model.RoleMember || p.Role == model.RoleAdmin
}

// CanTransition reports whether actor may move target from one role to
// another. Allowed transitions: pending->member (approval), member<->admin.
// All of them are admin-only, and nobody transitions themselves.
func (s *Service) CanTransition(actor, target *model.Principal, from, to model.Role) bool {
	if actor == nil || target == nil {
		return false
	}
	if !s.HasElevatedAccess(actor) {
		return false
	}
	if actor.ID == target.ID {
		return false
	}
	if target.Role != from {
		return false
	}

	switch {
	case from == model.RolePending && to == model.RoleMember:
		return true
	case from == model.RoleMember && to == model.RoleAdmin:
		return true
	case from == model.RoleAdmin && to == model.RoleMember:
		return true
	}
	return false
}

// CanAssignBadges reports whether actor may change another principal's badges
func (s *Service) CanAssignBadges(actor *model.Principal) bool {
	return s.HasElevatedAccess(actor)
}
