package model

import "time"

// EventID uniquely identifies a meetup event
type EventID string

// Event represents a community meetup. Invariant: Archived is false exactly
// when ArchivedAt is nil.
type Event struct {
	ID          EventID
	Title       string
	Location    string
	Date        time.Time
	Description string
	Password    string // optional gate secret; empty means public
	CreatorID   PrincipalID
	Archived    bool
	ArchivedAt  *time.Time
	ShowMap     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPassword reports whether the event is password-gated
func (e *Event) HasPassword() bool {
	return e.Password != ""
}

// EventFields carries the caller-supplied fields for creating or updating an event
type EventFields struct {
	Title       string
	Location    string
	Date        time.Time
	Description string
	Password    string
	ShowMap     bool
}

// EventView is the visibility-filtered projection of an Event returned to a
// specific viewer. The raw password never appears here; only HasPassword does.
type EventView struct {
	ID          EventID     `json:"id"`
	Title       string      `json:"title"`
	Location    string      `json:"location,omitempty"`
	Date        *time.Time  `json:"date,omitempty"`
	Description string      `json:"description,omitempty"`
	CreatorID   PrincipalID `json:"creator_id,omitempty"`
	HasPassword bool        `json:"has_password"`
	Archived    bool        `json:"archived"`
	ArchivedAt  *time.Time  `json:"archived_at,omitempty"`
	ShowMap     bool        `json:"show_map,omitempty"`
}
