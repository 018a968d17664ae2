package tables

import (
	"context"
	"fmt"
	"strings"

	"github.com/ludorg/gamenight/internal/dependencies/clock"
	"github.com/ludorg/gamenight/internal/dependencies/random"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/roles"
	"github.com/ludorg/gamenight/internal/storage"
)

const (
	// TableIDLength is the length of generated table id suffixes
	TableIDLength = 12
	// IDAlphabet is the characters used in generated ids
	IDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

// Controller manages capacity-constrained table enrollment.
// A table is Open while seats remain and Full at max capacity; both are live
// states and a table moves freely between them as players join and leave.
type Controller struct {
	storage storage.Storage
	roles   *roles.Service
	clock   clock.Clock
	random  random.Random
}

// NewController creates a new table enrollment controller
func NewController(storage storage.Storage, rolePolicy *roles.Service, clock clock.Clock, random random.Random) *Controller {
	return &Controller{
		storage: storage,
		roles:   rolePolicy,
		clock:   clock,
		random:  random,
	}
}

// Create validates and stores a new table, auto-enrolling the actor as host
func (c *Controller) Create(ctx context.Context, actor *model.Principal, eventID model.EventID, fields model.TableFields) (*model.Table, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !c.roles.CanCreate(actor) {
		return nil, model.ErrForbidden
	}
	if strings.TrimSpace(fields.GameName) == "" {
		return nil, fmt.Errorf("%w: game name is required", model.ErrValidation)
	}
	if fields.MinPlayers < 1 {
		return nil, fmt.Errorf("%w: min players must be at least 1", model.ErrValidation)
	}
	if fields.MaxPlayers < fields.MinPlayers {
		return nil, fmt.Errorf("%w: max players must be at least min players", model.ErrValidation)
	}

	// The event must exist, but an archived event keeps its tables editable
	if _, err := c.storage.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	table := &model.Table{
		ID:          model.TableID("tbl_" + c.random.String(TableIDLength, IDAlphabet)),
		EventID:     eventID,
		HostID:      actor.ID,
		HostName:    actor.DisplayName,
		GameName:    fields.GameName,
		Description: fields.Description,
		MinPlayers:  fields.MinPlayers,
		MaxPlayers:  fields.MaxPlayers,
		RegisteredPlayers: []model.RegisteredPlayer{
			{ID: actor.ID, Name: actor.DisplayName},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveTable(ctx, table); err != nil {
		return nil, err
	}

	return table, nil
}

// Get retrieves a table by id
func (c *Controller) Get(ctx context.Context, id model.TableID) (*model.Table, error) {
	return c.storage.GetTable(ctx, id)
}

// ListForEvent returns all tables at an event
func (c *Controller) ListForEvent(ctx context.Context, eventID model.EventID) ([]*model.Table, error) {
	return c.storage.GetTablesForEvent(ctx, eventID)
}

// Join enrolls the actor at a table. The capacity check and the append happen
// in one atomic update, so two concurrent joins cannot both take the last seat.
func (c *Controller) Join(ctx context.Context, actor *model.Principal, id model.TableID) (*model.Table, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}

	var updated model.Table
	err := c.storage.UpdateTable(ctx, id, func(t *model.Table) error {
		if t.GetPlayer(actor.ID) != nil {
			return model.ErrAlreadyRegistered
		}
		if t.IsFull() {
			return model.ErrTableFull
		}
		t.RegisteredPlayers = append(t.RegisteredPlayers, model.RegisteredPlayer{
			ID:   actor.ID,
			Name: actor.DisplayName,
		})
		t.UpdatedAt = c.clock.Now()
		updated = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Leave removes the actor from a table. Leaving a table you are not at is a
// no-op, so the operation is idempotent. Removing the host does not delete
// the table.
func (c *Controller) Leave(ctx context.Context, actor *model.Principal, id model.TableID) (*model.Table, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}

	var updated model.Table
	err := c.storage.UpdateTable(ctx, id, func(t *model.Table) error {
		players := t.RegisteredPlayers[:0]
		for _, p := range t.RegisteredPlayers {
			if p.ID != actor.ID {
				players = append(players, p)
			}
		}
		t.RegisteredPlayers = players
		t.UpdatedAt = c.clock.Now()
		updated = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a table regardless of how many players remain.
// Host or admin only.
func (c *Controller) Delete(ctx context.Context, actor *model.Principal, id model.TableID) error {
	if actor == nil {
		return model.ErrUnauthenticated
	}

	table, err := c.storage.GetTable(ctx, id)
	if err != nil {
		return err
	}
	if !c.roles.CanManage(actor, table.HostID) {
		return model.ErrForbidden
	}

	return c.storage.DeleteTable(ctx, id)
}
