package model

import "time"

// GameListID uniquely identifies a free-game list
type GameListID string

// GameEntry is one game an owner brings to share at an event
type GameEntry struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// GameList is the aggregated list of free games one owner brings to an event.
// Invariant: Games is never empty; removing the last entry deletes the list.
type GameList struct {
	ID        GameListID
	EventID   EventID
	OwnerID   PrincipalID
	OwnerName string
	Games     []GameEntry // ordered; at least one entry
	CreatedAt time.Time
	UpdatedAt time.Time
}
