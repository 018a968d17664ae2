package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ludorg/gamenight/internal/api/handler"
	"github.com/ludorg/gamenight/internal/api/middleware"
	"github.com/ludorg/gamenight/internal/services/admin"
	"github.com/ludorg/gamenight/internal/services/auth"
	"github.com/ludorg/gamenight/internal/services/catalog"
	"github.com/ludorg/gamenight/internal/services/events"
	"github.com/ludorg/gamenight/internal/services/tables"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	EventController   *events.Controller
	TableController   *tables.Controller
	CatalogController *catalog.Controller
	AdminService      *admin.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	eventHandler := handler.NewEventHandler(cfg.EventController)
	tableHandler := handler.NewTableHandler(cfg.TableController)
	catalogHandler := handler.NewCatalogHandler(cfg.CatalogController)
	adminHandler := handler.NewAdminHandler(cfg.AdminService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no auth required for register/login)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)

	// Event reads take optional auth: anonymous viewers get the gated
	// projection, members get the full one
	eventReads := api.NewRoute().Subrouter()
	eventReads.Use(optionalAuthMiddleware)
	eventReads.HandleFunc("/events", eventHandler.List).Methods(http.MethodGet)
	eventReads.HandleFunc("/events/{event_id}", eventHandler.Get).Methods(http.MethodGet)
	eventReads.HandleFunc("/events/{event_id}/verify-password", eventHandler.VerifyPassword).Methods(http.MethodPost)
	eventReads.HandleFunc("/events/{event_id}/tables", tableHandler.ListForEvent).Methods(http.MethodGet)
	eventReads.HandleFunc("/events/{event_id}/games", catalogHandler.ListForEvent).Methods(http.MethodGet)

	// Event writes require auth
	eventWrites := api.NewRoute().Subrouter()
	eventWrites.Use(authMiddleware)
	eventWrites.HandleFunc("/events", eventHandler.Create).Methods(http.MethodPost)
	eventWrites.HandleFunc("/events/{event_id}", eventHandler.Update).Methods(http.MethodPut)
	eventWrites.HandleFunc("/events/{event_id}", eventHandler.Delete).Methods(http.MethodDelete)
	eventWrites.HandleFunc("/events/{event_id}/archive", eventHandler.ToggleArchive).Methods(http.MethodPost)
	eventWrites.HandleFunc("/events/{event_id}/tables", tableHandler.Create).Methods(http.MethodPost)
	eventWrites.HandleFunc("/events/{event_id}/games", catalogHandler.Create).Methods(http.MethodPost)

	// Table routes
	api.HandleFunc("/tables/{table_id}", tableHandler.Get).Methods(http.MethodGet)

	tablesProtected := api.PathPrefix("/tables").Subrouter()
	tablesProtected.Use(authMiddleware)
	tablesProtected.HandleFunc("/{table_id}/join", tableHandler.Join).Methods(http.MethodPost)
	tablesProtected.HandleFunc("/{table_id}/leave", tableHandler.Leave).Methods(http.MethodPost)
	tablesProtected.HandleFunc("/{table_id}", tableHandler.Delete).Methods(http.MethodDelete)

	// Free-game list routes
	api.HandleFunc("/games/{list_id}", catalogHandler.Get).Methods(http.MethodGet)

	gamesProtected := api.PathPrefix("/games").Subrouter()
	gamesProtected.Use(authMiddleware)
	gamesProtected.HandleFunc("/{list_id}", catalogHandler.Replace).Methods(http.MethodPut)
	gamesProtected.HandleFunc("/{list_id}", catalogHandler.Delete).Methods(http.MethodDelete)
	gamesProtected.HandleFunc("/{list_id}/items/{index}", catalogHandler.DeleteItem).Methods(http.MethodDelete)

	// Admin routes (all require auth; the service enforces the admin role)
	adminRoutes := api.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMiddleware)
	adminRoutes.HandleFunc("/users", adminHandler.ListUsers).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/events", adminHandler.ListEvents).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/tables", adminHandler.ListTables).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/games", adminHandler.ListGameLists).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/users/{user_id}/approve", adminHandler.Approve).Methods(http.MethodPost)
	adminRoutes.HandleFunc("/users/{user_id}/role", adminHandler.SetRole).Methods(http.MethodPatch)
	adminRoutes.HandleFunc("/users/{user_id}/badges", adminHandler.SetBadges).Methods(http.MethodPut)
	adminRoutes.HandleFunc("/users/{user_id}", adminHandler.DeleteUser).Methods(http.MethodDelete)
	adminRoutes.HandleFunc("/stats", adminHandler.GetStats).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
