package model

import "time"

// PrincipalID uniquely identifies an authenticated caller across the system
type PrincipalID string

// Role is the lifecycle role of a principal
type Role string

const (
	// RolePending is assigned on registration; pending principals can browse
	// but cannot create or join anything until approved
	RolePending Role = "pending"
	// RoleMember is a regular approved community member
	RoleMember Role = "member"
	// RoleAdmin has elevated access to all entities
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RolePending, RoleMember, RoleAdmin:
		return true
	}
	return false
}

// Badges the community has historically awarded. The badge set is free-form;
// these are just the well-known values.
const (
	BadgeVeteran   = "veteran"
	BadgeVIP       = "vip"
	BadgeOrganizer = "organizer"
	BadgeFounder   = "founder"
)

// Principal represents an authenticated caller
type Principal struct {
	ID          PrincipalID
	DisplayName string
	Role        Role
	Badges      []string // set semantics; no duplicates
	CreatedAt   time.Time
}

// HasBadge reports whether the principal holds the given badge
func (p *Principal) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// Credential holds login data for a principal.
// Stored separately so the hash never travels with the principal.
type Credential struct {
	PrincipalID  PrincipalID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
