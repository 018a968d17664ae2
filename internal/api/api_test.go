package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludorg/gamenight/internal/api"
	"github.com/ludorg/gamenight/internal/api/response"
	"github.com/ludorg/gamenight/internal/factory"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		AuthService:       app.AuthService,
		EventController:   app.EventController,
		TableController:   app.TableController,
		CatalogController: app.CatalogController,
		AdminService:      app.AdminService,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// registerUser registers an account and promotes it to the given role,
// returning the session token and principal id.
func (ts *testServer) registerUser(t *testing.T, username string, role model.Role) (string, model.PrincipalID) {
	t.Helper()

	body := map[string]string{
		"username":     username,
		"password":     "secret123",
		"display_name": username,
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	id := model.PrincipalID(resp.User.ID)
	if role != model.RolePending {
		err := ts.storage.UpdatePrincipal(context.Background(), id, func(p *model.Principal) error {
			p.Role = role
			return nil
		})
		require.NoError(t, err)
	}
	return resp.SessionToken, id
}

func (ts *testServer) createEvent(t *testing.T, token string, body map[string]any) model.EventView {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/events", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var view model.EventView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	return view
}

func eventBody(title string) map[string]any {
	return map[string]any{
		"title":    title,
		"location": "Community Hall",
		"date":     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.Equal(t, "Alice", registerResp.User.DisplayName)
	assert.Equal(t, string(model.RolePending), registerResp.User.Role)
	assert.NotEmpty(t, registerResp.SessionToken)

	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/auth/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.User.ID, loginResp.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "alice", model.RolePending)

	body := map[string]string{"username": "alice", "password": "wrongpass"}
	rr := ts.request(http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	token, id := ts.registerUser(t, "alice", model.RoleMember)

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, string(id), user.ID)
	assert.Equal(t, string(model.RoleMember), user.Role)
}

func TestGetMeRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice", model.RoleMember)

	rr := ts.request(http.MethodPost, "/api/v1/auth/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPendingUserCannotCreateEvent(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice", model.RolePending)

	rr := ts.request(http.MethodPost, "/api/v1/events", eventBody("Game Night"), token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreateAndGetEvent(t *testing.T) {
	ts := newTestServer(t)
	token, id := ts.registerUser(t, "alice", model.RoleMember)

	view := ts.createEvent(t, token, eventBody("Game Night"))
	assert.Equal(t, "Game Night", view.Title)
	assert.Equal(t, id, view.CreatorID)
	assert.False(t, view.HasPassword)

	rr := ts.request(http.MethodGet, "/api/v1/events/"+string(view.ID), nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGatedEventHiddenFromAnonymous(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice", model.RoleMember)

	body := eventBody("Secret Night")
	body["password"] = "knock-knock"
	view := ts.createEvent(t, token, body)

	// Anonymous viewers only learn the title and that a password exists
	rr := ts.request(http.MethodGet, "/api/v1/events/"+string(view.ID), nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var gated model.EventView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &gated))
	assert.Equal(t, "Secret Night", gated.Title)
	assert.True(t, gated.HasPassword)
	assert.Nil(t, gated.Date)
	assert.Empty(t, gated.Location)

	// Wrong password is rejected, the right one unlocks the full view
	rr = ts.request(http.MethodPost, "/api/v1/events/"+string(view.ID)+"/verify-password",
		map[string]string{"password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/events/"+string(view.ID)+"/verify-password",
		map[string]string{"password": "knock-knock"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var unlocked model.EventView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &unlocked))
	assert.NotNil(t, unlocked.Date)
	assert.Equal(t, "Community Hall", unlocked.Location)
	assert.Empty(t, unlocked.CreatorID)
}

func TestTableSignupFlow(t *testing.T) {
	ts := newTestServer(t)
	hostToken, _ := ts.registerUser(t, "host", model.RoleMember)
	playerToken, playerID := ts.registerUser(t, "player", model.RoleMember)

	event := ts.createEvent(t, hostToken, eventBody("Game Night"))

	tableBody := map[string]any{
		"game_name":   "Catan",
		"min_players": 2,
		"max_players": 2,
	}
	rr := ts.request(http.MethodPost, "/api/v1/events/"+string(event.ID)+"/tables", tableBody, hostToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	var table response.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	assert.Len(t, table.Players, 1)
	assert.False(t, table.Full)

	// Joining requires auth
	rr = ts.request(http.MethodPost, "/api/v1/tables/"+table.ID+"/join", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/tables/"+table.ID+"/join", nil, playerToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var joined response.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))
	assert.Len(t, joined.Players, 2)
	assert.True(t, joined.Full)
	assert.Equal(t, string(playerID), joined.Players[1].ID)

	// A second join of the same player conflicts
	rr = ts.request(http.MethodPost, "/api/v1/tables/"+table.ID+"/join", nil, playerToken)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// The full table rejects a third player
	lateToken, _ := ts.registerUser(t, "late", model.RoleMember)
	rr = ts.request(http.MethodPost, "/api/v1/tables/"+table.ID+"/join", nil, lateToken)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/tables/"+table.ID+"/leave", nil, playerToken)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGameListLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice", model.RoleMember)

	event := ts.createEvent(t, token, eventBody("Game Night"))

	listBody := map[string]any{
		"games": []map[string]string{
			{"name": "Azul", "note": "missing one tile"},
			{"name": "Wingspan"},
		},
	}
	rr := ts.request(http.MethodPost, "/api/v1/events/"+string(event.ID)+"/games", listBody, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var list response.GameList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Games, 2)

	rr = ts.request(http.MethodDelete, fmt.Sprintf("/api/v1/games/%s/items/0", list.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Removing the last game removes the list itself
	rr = ts.request(http.MethodDelete, fmt.Sprintf("/api/v1/games/%s/items/0", list.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+list.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteEventCascades(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice", model.RoleMember)

	event := ts.createEvent(t, token, eventBody("Game Night"))

	tableBody := map[string]any{"game_name": "Catan", "min_players": 2, "max_players": 4}
	rr := ts.request(http.MethodPost, "/api/v1/events/"+string(event.ID)+"/tables", tableBody, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	var table response.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))

	rr = ts.request(http.MethodDelete, "/api/v1/events/"+string(event.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/events/"+string(event.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/tables/"+table.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminApprovalFlow(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := ts.registerUser(t, "admin", model.RoleAdmin)
	pendingToken, pendingID := ts.registerUser(t, "newbie", model.RolePending)

	// Members cannot reach the admin surface
	memberToken, _ := ts.registerUser(t, "member", model.RoleMember)
	rr := ts.request(http.MethodGet, "/api/v1/admin/users", nil, memberToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/users", nil, adminToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/admin/users/"+string(pendingID)+"/approve", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)

	// The approved user's existing session picks up the new role immediately
	rr = ts.request(http.MethodPost, "/api/v1/events", eventBody("First Night"), pendingToken)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestAdminListingsRecoverArchivedEvent(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := ts.registerUser(t, "admin", model.RoleAdmin)

	event := ts.createEvent(t, adminToken, eventBody("Game Night"))
	rr := ts.request(http.MethodPost, "/api/v1/events/"+string(event.ID)+"/archive", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)

	// Archived: gone from the public listing, even for the admin
	rr = ts.request(http.MethodGet, "/api/v1/events", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var public []model.EventView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &public))
	assert.Empty(t, public)

	// The admin listing still surfaces it with full detail
	rr = ts.request(http.MethodGet, "/api/v1/admin/events", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []model.EventView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, event.ID, all[0].ID)
	assert.True(t, all[0].Archived)

	// Which makes restoring it possible
	rr = ts.request(http.MethodPost, "/api/v1/events/"+string(all[0].ID)+"/archive", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/events", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &public))
	assert.Len(t, public, 1)

	// Members cannot reach the management listings
	memberToken, _ := ts.registerUser(t, "member", model.RoleMember)
	rr = ts.request(http.MethodGet, "/api/v1/admin/events", nil, memberToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/admin/tables", nil, memberToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/admin/games", nil, memberToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminStats(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := ts.registerUser(t, "admin", model.RoleAdmin)
	ts.createEvent(t, adminToken, eventBody("Game Night"))

	rr := ts.request(http.MethodGet, "/api/v1/admin/stats", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats struct {
		Users  int `json:"users"`
		Events int `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Users)
	assert.Equal(t, 1, stats.Events)
}
