package admin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/auth"
	"github.com/ludorg/gamenight/internal/services/events"
	"github.com/ludorg/gamenight/internal/services/roles"
	"github.com/ludorg/gamenight/internal/storage"
)

// Stats is the aggregate entity count snapshot for the admin dashboard
type Stats struct {
	Users     int `json:"users"`
	Events    int `json:"events"`
	Tables    int `json:"tables"`
	GameLists int `json:"game_lists"`
}

// Service handles community management: approvals, role changes, badges,
// account removal and aggregate stats. Every operation is gated by the role
// policy; this service never makes its own authorization rules.
type Service struct {
	storage storage.Storage
	roles   *roles.Service
	events  *events.Controller
	auth    *auth.Service
	logger  *slog.Logger
}

// New creates a new admin service
func New(storage storage.Storage, rolePolicy *roles.Service, eventController *events.Controller, authService *auth.Service, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		roles:   rolePolicy,
		events:  eventController,
		auth:    authService,
		logger:  logger,
	}
}

// ListUsers returns every principal, newest first. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor *model.Principal) ([]*model.Principal, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !s.roles.HasElevatedAccess(actor) {
		return nil, model.ErrForbidden
	}

	users, err := s.storage.ListPrincipals(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// ListEvents returns every event including archived ones, fully projected.
// Archived events are invisible to the public listing; this is the only way
// to find one again to inspect, restore, or delete it. Admin only.
func (s *Service) ListEvents(ctx context.Context, actor *model.Principal) ([]*model.EventView, error) {
	return s.events.ListAll(ctx, actor)
}

// ListTables returns every sign-up table across all events, newest first.
// Admin only.
func (s *Service) ListTables(ctx context.Context, actor *model.Principal) ([]*model.Table, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !s.roles.HasElevatedAccess(actor) {
		return nil, model.ErrForbidden
	}

	allEvents, err := s.storage.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	var tables []*model.Table
	for _, e := range allEvents {
		forEvent, err := s.storage.GetTablesForEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		tables = append(tables, forEvent...)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].CreatedAt.After(tables[j].CreatedAt)
	})
	return tables, nil
}

// ListGameLists returns every free-game list across all events, newest first.
// Admin only.
func (s *Service) ListGameLists(ctx context.Context, actor *model.Principal) ([]*model.GameList, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !s.roles.HasElevatedAccess(actor) {
		return nil, model.ErrForbidden
	}

	allEvents, err := s.storage.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	var lists []*model.GameList
	for _, e := range allEvents {
		forEvent, err := s.storage.GetGameListsForEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		lists = append(lists, forEvent...)
	}
	sort.Slice(lists, func(i, j int) bool {
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})
	return lists, nil
}

// Approve moves a pending principal to member. Admin only.
func (s *Service) Approve(ctx context.Context, actor *model.Principal, targetID model.PrincipalID) (*model.Principal, error) {
	return s.transition(ctx, actor, targetID, model.RolePending, model.RoleMember)
}

// SetRole transitions a principal to the given role. The role policy decides
// which transitions are legal; self-transitions never are.
func (s *Service) SetRole(ctx context.Context, actor *model.Principal, targetID model.PrincipalID, to model.Role) (*model.Principal, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", model.ErrValidation, to)
	}

	var updated model.Principal
	err := s.storage.UpdatePrincipal(ctx, targetID, func(p *model.Principal) error {
		if !s.roles.CanTransition(actor, p, p.Role, to) {
			return model.ErrForbidden
		}
		p.Role = to
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role changed",
		slog.String("actor_id", string(actor.ID)),
		slog.String("target_id", string(targetID)),
		slog.String("role", string(to)),
	)
	return &updated, nil
}

// SetBadges replaces a principal's badge set. Admin only. Duplicates collapse;
// order is not significant.
func (s *Service) SetBadges(ctx context.Context, actor *model.Principal, targetID model.PrincipalID, badges []string) (*model.Principal, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !s.roles.CanAssignBadges(actor) {
		return nil, model.ErrForbidden
	}

	seen := make(map[string]bool, len(badges))
	deduped := make([]string, 0, len(badges))
	for _, b := range badges {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		deduped = append(deduped, b)
	}

	var updated model.Principal
	err := s.storage.UpdatePrincipal(ctx, targetID, func(p *model.Principal) error {
		p.Badges = deduped
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes a principal, their credential and sessions, and every
// event they created (which cascades to tables and game lists). Admins cannot
// delete themselves. Tables joined and lists owned at other people's events
// are left in place; cleaning those up is an external policy concern.
func (s *Service) DeleteUser(ctx context.Context, actor *model.Principal, targetID model.PrincipalID) error {
	if actor == nil {
		return model.ErrUnauthenticated
	}
	if !s.roles.HasElevatedAccess(actor) {
		return model.ErrForbidden
	}
	if actor.ID == targetID {
		return fmt.Errorf("%w: cannot delete your own admin account", model.ErrValidation)
	}

	if _, err := s.storage.GetPrincipal(ctx, targetID); err != nil {
		return err
	}

	all, err := s.storage.ListEvents(ctx)
	if err != nil {
		return err
	}
	for _, e := range all {
		if e.CreatorID != targetID {
			continue
		}
		if err := s.events.Delete(ctx, actor, e.ID); err != nil {
			return err
		}
	}

	if err := s.storage.DeleteCredential(ctx, targetID); err != nil {
		return err
	}
	if err := s.storage.DeletePrincipal(ctx, targetID); err != nil {
		return err
	}
	s.auth.InvalidateSessionsFor(targetID)

	s.logger.Info("user deleted",
		slog.String("actor_id", string(actor.ID)),
		slog.String("target_id", string(targetID)),
	)
	return nil
}

// GetStats returns aggregate entity counts. Admin only.
func (s *Service) GetStats(ctx context.Context, actor *model.Principal) (*Stats, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !s.roles.HasElevatedAccess(actor) {
		return nil, model.ErrForbidden
	}

	users, err := s.storage.ListPrincipals(ctx)
	if err != nil {
		return nil, err
	}
	allEvents, err := s.storage.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Users:  len(users),
		Events: len(allEvents),
	}
	for _, e := range allEvents {
		tables, err := s.storage.GetTablesForEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		lists, err := s.storage.GetGameListsForEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		stats.Tables += len(tables)
		stats.GameLists += len(lists)
	}

	return stats, nil
}

// transition applies a single role transition atomically
func (s *Service) transition(ctx context.Context, actor *model.Principal, targetID model.PrincipalID, from, to model.Role) (*model.Principal, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}

	var updated model.Principal
	err := s.storage.UpdatePrincipal(ctx, targetID, func(p *model.Principal) error {
		if !s.roles.CanTransition(actor, p, from, to) {
			return model.ErrForbidden
		}
		p.Role = to
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
