package model

import "time"

// TableID uniquely identifies a sign-up table
type TableID string

// RegisteredPlayer is one seat taken at a table
type RegisteredPlayer struct {
	ID   PrincipalID `json:"id"`
	Name string      `json:"name"`
}

// Table represents a sign-up table for a specific game at an event.
// Invariant: len(RegisteredPlayers) never exceeds MaxPlayers.
type Table struct {
	ID                TableID
	EventID           EventID
	HostID            PrincipalID
	HostName          string
	GameName          string
	Description       string
	MinPlayers        int
	MaxPlayers        int
	RegisteredPlayers []RegisteredPlayer // ordered, unique by ID; host is conventionally first
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsFull reports whether the table has no free seats
func (t *Table) IsFull() bool {
	return len(t.RegisteredPlayers) >= t.MaxPlayers
}

// GetPlayer returns the registered player with the given id, or nil
func (t *Table) GetPlayer(id PrincipalID) *RegisteredPlayer {
	for i := range t.RegisteredPlayers {
		if t.RegisteredPlayers[i].ID == id {
			return &t.RegisteredPlayers[i]
		}
	}
	return nil
}

// TableFields carries the caller-supplied fields for creating a table
type TableFields struct {
	GameName    string
	Description string
	MinPlayers  int
	MaxPlayers  int
}
