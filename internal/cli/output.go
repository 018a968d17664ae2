package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case []User:
		o.printUsers(v)
	case AuthResult:
		o.printAuthResult(v)
	case Event:
		o.printEvent(v)
	case []Event:
		o.printEvents(v)
	case Table:
		o.printTable(v)
	case []Table:
		o.printTables(v)
	case GameList:
		o.printGameList(v)
	case []GameList:
		o.printGameLists(v)
	case Stats:
		o.printStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	Badges      []string `json:"badges"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// Event response type
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Location    string     `json:"location,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Description string     `json:"description,omitempty"`
	HasPassword bool       `json:"has_password"`
	Archived    bool       `json:"archived"`
}

// TablePlayer response type
type TablePlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Table response type
type Table struct {
	ID         string        `json:"id"`
	EventID    string        `json:"event_id"`
	HostName   string        `json:"host_name"`
	GameName   string        `json:"game_name"`
	MinPlayers int           `json:"min_players"`
	MaxPlayers int           `json:"max_players"`
	Players    []TablePlayer `json:"players"`
	Full       bool          `json:"full"`
}

// GameEntry response type
type GameEntry struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// GameList response type
type GameList struct {
	ID        string      `json:"id"`
	EventID   string      `json:"event_id"`
	OwnerName string      `json:"owner_name"`
	Games     []GameEntry `json:"games"`
}

// Stats response type
type Stats struct {
	Users     int `json:"users"`
	Events    int `json:"events"`
	Tables    int `json:"tables"`
	GameLists int `json:"game_lists"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.DisplayName, u.ID)
	fmt.Printf("Role: %s\n", u.Role)
	if len(u.Badges) > 0 {
		fmt.Printf("Badges: %s\n", strings.Join(u.Badges, ", "))
	}
}

func (o *Output) printUsers(users []User) {
	fmt.Printf("Users (%d):\n", len(users))
	for _, u := range users {
		badges := ""
		if len(u.Badges) > 0 {
			badges = " [" + strings.Join(u.Badges, ", ") + "]"
		}
		fmt.Printf("  - %s (%s) - %s%s\n", u.DisplayName, u.ID, u.Role, badges)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printEvent(e Event) {
	fmt.Printf("Event: %s (%s)\n", e.Title, e.ID)
	if e.HasPassword && e.Location == "" {
		fmt.Println("This event is password protected. Use 'event unlock' to view details.")
		return
	}
	if e.Location != "" {
		fmt.Printf("Location: %s\n", e.Location)
	}
	if e.Date != nil {
		fmt.Printf("Date: %s\n", e.Date.Format(time.RFC1123))
	}
	if e.Description != "" {
		fmt.Printf("Description: %s\n", e.Description)
	}
	if e.Archived {
		fmt.Println("Archived: yes")
	}
}

func (o *Output) printEvents(events []Event) {
	fmt.Printf("Events (%d):\n", len(events))
	for _, e := range events {
		locked := ""
		if e.HasPassword {
			locked = " [locked]"
		}
		date := ""
		if e.Date != nil {
			date = " - " + e.Date.Format("2006-01-02")
		}
		fmt.Printf("  - %s (%s)%s%s\n", e.Title, e.ID, date, locked)
	}
}

func (o *Output) printTable(t Table) {
	fmt.Printf("Table: %s (%s)\n", t.GameName, t.ID)
	fmt.Printf("Host: %s\n", t.HostName)
	fmt.Printf("Players: %d-%d\n", t.MinPlayers, t.MaxPlayers)
	status := "open"
	if t.Full {
		status = "full"
	}
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Registered (%d):\n", len(t.Players))
	for _, p := range t.Players {
		fmt.Printf("  - %s\n", p.Name)
	}
}

func (o *Output) printTables(tables []Table) {
	fmt.Printf("Tables (%d):\n", len(tables))
	for _, t := range tables {
		status := "open"
		if t.Full {
			status = "full"
		}
		fmt.Printf("  - %s (%s) - %s, %d/%d seats\n",
			t.GameName, t.ID, status, len(t.Players), t.MaxPlayers)
	}
}

func (o *Output) printGameList(l GameList) {
	fmt.Printf("Game list: %s (%s)\n", l.OwnerName, l.ID)
	for _, g := range l.Games {
		if g.Note != "" {
			fmt.Printf("  - %s (%s)\n", g.Name, g.Note)
		} else {
			fmt.Printf("  - %s\n", g.Name)
		}
	}
}

func (o *Output) printGameLists(lists []GameList) {
	fmt.Printf("Game lists (%d):\n", len(lists))
	for _, l := range lists {
		fmt.Printf("  - %s (%s) - %d games\n", l.OwnerName, l.ID, len(l.Games))
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Printf("Users: %d\n", s.Users)
	fmt.Printf("Events: %d\n", s.Events)
	fmt.Printf("Tables: %d\n", s.Tables)
	fmt.Printf("Game lists: %d\n", s.GameLists)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
