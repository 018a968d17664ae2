package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EventRequest is the request body for creating or updating an event
type EventRequest struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	Date        string `json:"date"` // RFC 3339
	Description string `json:"description,omitempty"`
	Password    string `json:"password,omitempty"`
	ShowMap     bool   `json:"show_map,omitempty"`
}

// VerifyPasswordRequest is the request body for unlocking a gated event
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

// CreateTableRequest is the request body for opening a sign-up table
type CreateTableRequest struct {
	GameName    string `json:"game_name"`
	Description string `json:"description,omitempty"`
	MinPlayers  int    `json:"min_players"`
	MaxPlayers  int    `json:"max_players"`
}

// GameEntryRequest is one game in a free-game list payload
type GameEntryRequest struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// GameListRequest is the request body for creating or replacing a free-game list
type GameListRequest struct {
	Games []GameEntryRequest `json:"games"`
}

// SetRoleRequest is the request body for changing a user's role
type SetRoleRequest struct {
	Role string `json:"role"`
}

// SetBadgesRequest is the request body for replacing a user's badges
type SetBadgesRequest struct {
	Badges []string `json:"badges"`
}
