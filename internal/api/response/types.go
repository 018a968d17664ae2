package response

import (
	"time"

	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/auth"
)

// User represents a principal in API responses
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Badges      []string  `json:"badges"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserFromModel converts a model.Principal to a response User
func UserFromModel(p *model.Principal) User {
	badges := p.Badges
	if badges == nil {
		badges = []string{}
	}
	return User{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Role:        string(p.Role),
		Badges:      badges,
		CreatedAt:   p.CreatedAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFor creates an AuthResponse from a session and its principal
func AuthResponseFor(s *auth.Session, p *model.Principal) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(p),
		SessionToken: s.Token,
	}
}

// Player is one seat at a table in API responses
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Table represents a sign-up table in API responses
type Table struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	HostID      string    `json:"host_id"`
	HostName    string    `json:"host_name"`
	GameName    string    `json:"game_name"`
	Description string    `json:"description,omitempty"`
	MinPlayers  int       `json:"min_players"`
	MaxPlayers  int       `json:"max_players"`
	Players     []Player  `json:"players"`
	Full        bool      `json:"full"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableFromModel converts a model.Table to a response Table
func TableFromModel(t *model.Table) Table {
	players := make([]Player, len(t.RegisteredPlayers))
	for i, p := range t.RegisteredPlayers {
		players[i] = Player{ID: string(p.ID), Name: p.Name}
	}
	return Table{
		ID:          string(t.ID),
		EventID:     string(t.EventID),
		HostID:      string(t.HostID),
		HostName:    t.HostName,
		GameName:    t.GameName,
		Description: t.Description,
		MinPlayers:  t.MinPlayers,
		MaxPlayers:  t.MaxPlayers,
		Players:     players,
		Full:        t.IsFull(),
		CreatedAt:   t.CreatedAt,
	}
}

// TablesFromModel converts a slice of tables
func TablesFromModel(tables []*model.Table) []Table {
	out := make([]Table, len(tables))
	for i, t := range tables {
		out[i] = TableFromModel(t)
	}
	return out
}

// GameEntry is one game in a free-game list response
type GameEntry struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// GameList represents a free-game list in API responses
type GameList struct {
	ID        string      `json:"id"`
	EventID   string      `json:"event_id"`
	OwnerID   string      `json:"owner_id"`
	OwnerName string      `json:"owner_name"`
	Games     []GameEntry `json:"games"`
	CreatedAt time.Time   `json:"created_at"`
}

// GameListFromModel converts a model.GameList to a response GameList
func GameListFromModel(l *model.GameList) GameList {
	games := make([]GameEntry, len(l.Games))
	for i, g := range l.Games {
		games[i] = GameEntry{Name: g.Name, Note: g.Note}
	}
	return GameList{
		ID:        string(l.ID),
		EventID:   string(l.EventID),
		OwnerID:   string(l.OwnerID),
		OwnerName: l.OwnerName,
		Games:     games,
		CreatedAt: l.CreatedAt,
	}
}

// GameListsFromModel converts a slice of game lists
func GameListsFromModel(lists []*model.GameList) []GameList {
	out := make([]GameList, len(lists))
	for i, l := range lists {
		out[i] = GameListFromModel(l)
	}
	return out
}
