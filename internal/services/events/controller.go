package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ludorg/gamenight/internal/dependencies/clock"
	"github.com/ludorg/gamenight/internal/dependencies/random"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/roles"
	"github.com/ludorg/gamenight/internal/services/visibility"
	"github.com/ludorg/gamenight/internal/storage"
)

const (
	// EventIDLength is the length of generated event id suffixes
	EventIDLength = 12
	// IDAlphabet is the characters used in generated ids (avoid confusing chars)
	IDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

	// DefaultDescription is applied when a creator leaves the description blank
	DefaultDescription = "Community-organized event."

	// DefaultArchiveAge is how long after its date an event is auto-archived
	DefaultArchiveAge = 7 * 24 * time.Hour
)

// Controller manages the event lifecycle: creation, listing, the archive
// toggle, cascade deletion, and scheduled auto-archiving
type Controller struct {
	storage    storage.Storage
	visibility *visibility.Service
	roles      *roles.Service
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// NewController creates a new event controller
func NewController(
	storage storage.Storage,
	visibilityPolicy *visibility.Service,
	rolePolicy *roles.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:    storage,
		visibility: visibilityPolicy,
		roles:      rolePolicy,
		clock:      clock,
		random:     random,
		logger:     logger,
	}
}

// Create validates and stores a new event with the actor as creator
func (c *Controller) Create(ctx context.Context, actor *model.Principal, fields model.EventFields) (*model.Event, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !c.roles.CanCreate(actor) {
		return nil, model.ErrForbidden
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	description := fields.Description
	if description == "" {
		description = DefaultDescription
	}

	event := &model.Event{
		ID:          model.EventID("evt_" + c.random.String(EventIDLength, IDAlphabet)),
		Title:       fields.Title,
		Location:    fields.Location,
		Date:        fields.Date,
		Description: description,
		Password:    fields.Password,
		CreatorID:   actor.ID,
		Archived:    false,
		ArchivedAt:  nil,
		ShowMap:     fields.ShowMap,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Get returns the viewer-specific projection of a single event
func (c *Controller) Get(ctx context.Context, id model.EventID, viewer *model.Principal) (*model.EventView, error) {
	event, err := c.storage.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.visibility.ProjectEvent(event, viewer), nil
}

// List returns all non-archived events, date-ascending, each projected for the viewer
func (c *Controller) List(ctx context.Context, viewer *model.Principal) ([]*model.EventView, error) {
	all, err := c.storage.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	var live []*model.Event
	for _, e := range all {
		if !e.Archived {
			live = append(live, e)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		return live[i].Date.Before(live[j].Date)
	})

	views := make([]*model.EventView, 0, len(live))
	for _, e := range live {
		views = append(views, c.visibility.ProjectEvent(e, viewer))
	}
	return views, nil
}

// ListAll returns every event including archived ones, date-ascending, fully
// projected. This is the management view: archived events drop out of List,
// so without it they could never be found again to restore or delete.
// Admin only.
func (c *Controller) ListAll(ctx context.Context, actor *model.Principal) ([]*model.EventView, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !c.roles.HasElevatedAccess(actor) {
		return nil, model.ErrForbidden
	}

	all, err := c.storage.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})

	views := make([]*model.EventView, 0, len(all))
	for _, e := range all {
		views = append(views, c.visibility.ProjectEvent(e, actor))
	}
	return views, nil
}

// VerifyPassword checks a candidate gate password and returns the full
// projection on success. No unlock state is stored; the grant is per request.
func (c *Controller) VerifyPassword(ctx context.Context, id model.EventID, viewer *model.Principal, candidate string) (*model.EventView, error) {
	event, err := c.storage.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.visibility.VerifyPassword(event, viewer, candidate)
}

// Update replaces the mutable fields of an event. Creator or admin only.
func (c *Controller) Update(ctx context.Context, actor *model.Principal, id model.EventID, fields model.EventFields) (*model.Event, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	var updated model.Event
	err := c.storage.UpdateEvent(ctx, id, func(e *model.Event) error {
		if !c.roles.CanManage(actor, e.CreatorID) {
			return model.ErrForbidden
		}
		e.Title = fields.Title
		e.Location = fields.Location
		e.Date = fields.Date
		if fields.Description != "" {
			e.Description = fields.Description
		}
		e.Password = fields.Password
		e.ShowMap = fields.ShowMap
		e.UpdatedAt = c.clock.Now()
		updated = *e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ToggleArchive flips the archived flag. Each call flips; two calls restore
// the original state. The flip is applied against the latest stored value.
func (c *Controller) ToggleArchive(ctx context.Context, actor *model.Principal, id model.EventID) (*model.Event, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}

	var updated model.Event
	err := c.storage.UpdateEvent(ctx, id, func(e *model.Event) error {
		if !c.roles.CanManage(actor, e.CreatorID) {
			return model.ErrForbidden
		}
		if e.Archived {
			e.Archived = false
			e.ArchivedAt = nil
		} else {
			now := c.clock.Now()
			e.Archived = true
			e.ArchivedAt = &now
		}
		e.UpdatedAt = c.clock.Now()
		updated = *e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an event and everything that references it. Dependent tables
// and game lists go first; the event itself is only removed once the cascade
// is complete, so a partial failure leaves the operation retryable.
func (c *Controller) Delete(ctx context.Context, actor *model.Principal, id model.EventID) error {
	if actor == nil {
		return model.ErrUnauthenticated
	}

	event, err := c.storage.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if !c.roles.CanManage(actor, event.CreatorID) {
		return model.ErrForbidden
	}

	// Collect all affected ids before deleting anything
	tables, err := c.storage.GetTablesForEvent(ctx, id)
	if err != nil {
		return err
	}
	lists, err := c.storage.GetGameListsForEvent(ctx, id)
	if err != nil {
		return err
	}

	cascade := &model.PartialCascadeError{EventID: id}
	for _, t := range tables {
		if err := c.storage.DeleteTable(ctx, t.ID); err != nil {
			cascade.RemainingTables = append(cascade.RemainingTables, t.ID)
			cascade.Errs = append(cascade.Errs, fmt.Errorf("table %s: %w", t.ID, err))
		}
	}
	for _, l := range lists {
		if err := c.storage.DeleteGameList(ctx, l.ID); err != nil {
			cascade.RemainingLists = append(cascade.RemainingLists, l.ID)
			cascade.Errs = append(cascade.Errs, fmt.Errorf("game list %s: %w", l.ID, err))
		}
	}

	if len(cascade.Errs) > 0 {
		return cascade
	}

	return c.storage.DeleteEvent(ctx, id)
}

// errNotStale signals that an auto-archive candidate no longer qualifies
var errNotStale = errors.New("event no longer stale")

// AutoArchive archives every non-archived event whose date is older than
// now - maxAge. Safe to run repeatedly; already-archived events are left
// untouched. Returns the number of events archived by this run.
func (c *Controller) AutoArchive(ctx context.Context, now time.Time, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultArchiveAge
	}
	cutoff := now.Add(-maxAge)

	all, err := c.storage.ListEvents(ctx)
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, candidate := range all {
		if candidate.Archived || !candidate.Date.Before(cutoff) {
			continue
		}

		// Re-check against the latest stored value; a concurrent toggle wins
		err := c.storage.UpdateEvent(ctx, candidate.ID, func(e *model.Event) error {
			if e.Archived || !e.Date.Before(cutoff) {
				return errNotStale
			}
			e.Archived = true
			e.ArchivedAt = &now
			e.UpdatedAt = now
			return nil
		})
		switch {
		case err == nil:
			archived++
			c.logger.Info("event auto-archived",
				slog.String("event_id", string(candidate.ID)),
				slog.Time("event_date", candidate.Date),
			)
		case errors.Is(err, errNotStale) || errors.Is(err, model.ErrEventNotFound):
			// Raced with a toggle or delete; nothing to do
		default:
			return archived, err
		}
	}

	return archived, nil
}

// validateFields checks the caller-supplied event fields
func validateFields(fields model.EventFields) error {
	if fields.Title == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if fields.Location == "" {
		return fmt.Errorf("%w: location is required", model.ErrValidation)
	}
	if fields.Date.IsZero() {
		return fmt.Errorf("%w: date is required", model.ErrValidation)
	}
	return nil
}
