package catalog

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
	// ListIDLength is the length of generated game list id suffixes
	ListIDLength = 12
	// IDAlphabet is the characters used in generated ids
	IDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

// Controller manages per-owner free-game lists. A list always holds at least
// one game; removing the last one removes the list itself.
type Controller struct {
	storage storage.Storage
	roles   *roles.Service
	clock   clock.Clock
	random  random.Random
}

// NewController creates a new free-game catalog controller
func NewController(storage storage.Storage, rolePolicy *roles.Service, clock clock.Clock, random random.Random) *Controller {
	return &Controller{
		storage: storage,
		roles:   rolePolicy,
		clock:   clock,
		random:  random,
	}
}

// CreateList stores a new free-game list owned by the actor
func (c *Controller) CreateList(ctx context.Context, actor *model.Principal, eventID model.EventID, games []model.GameEntry) (*model.GameList, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if !c.roles.CanCreate(actor) {
		return nil, model.ErrForbidden
	}
	if err := validateGames(games); err != nil {
		return nil, err
	}

	if _, err := c.storage.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	list := &model.GameList{
		ID:        model.GameListID("lst_" + c.random.String(ListIDLength, IDAlphabet)),
		EventID:   eventID,
		OwnerID:   actor.ID,
		OwnerName: actor.DisplayName,
		Games:     games,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGameList(ctx, list); err != nil {
		return nil, err
	}

	return list, nil
}

// Get retrieves a game list by id
func (c *Controller) Get(ctx context.Context, id model.GameListID) (*model.GameList, error) {
	return c.storage.GetGameList(ctx, id)
}

// ListForEvent returns all free-game lists at an event
func (c *Controller) ListForEvent(ctx context.Context, eventID model.EventID) ([]*model.GameList, error) {
	return c.storage.GetGameListsForEvent(ctx, eventID)
}

// ReplaceList swaps the entire games slice of a list. Owner or admin only;
// the replacement must be non-empty.
func (c *Controller) ReplaceList(ctx context.Context, actor *model.Principal, id model.GameListID, games []model.GameEntry) (*model.GameList, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if err := validateGames(games); err != nil {
		return nil, err
	}

	var updated model.GameList
	err := c.storage.UpdateGameList(ctx, id, func(l *model.GameList) error {
		if !c.roles.CanManage(actor, l.OwnerID) {
			return model.ErrForbidden
		}
		l.Games = games
		l.UpdatedAt = c.clock.Now()
		updated = *l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes the game at the given position. If it is the only game,
// the whole list is deleted instead of leaving an empty one. The length
// check, the decision and the write happen in one atomic update.
func (c *Controller) DeleteItem(ctx context.Context, actor *model.Principal, id model.GameListID, index int) error {
	if actor == nil {
		return model.ErrUnauthenticated
	}

	return c.storage.UpdateGameList(ctx, id, func(l *model.GameList) error {
		if !c.roles.CanManage(actor, l.OwnerID) {
			return model.ErrForbidden
		}
		if index < 0 || index >= len(l.Games) {
			return fmt.Errorf("%w: index %d not in [0, %d)", model.ErrIndexOutOfRange, index, len(l.Games))
		}
		if len(l.Games) == 1 {
			return storage.Delete
		}
		l.Games = append(l.Games[:index], l.Games[index+1:]...)
		l.UpdatedAt = c.clock.Now()
		return nil
	})
}

// DeleteList removes an entire list. Owner or admin only.
func (c *Controller) DeleteList(ctx context.Context, actor *model.Principal, id model.GameListID) error {
	if actor == nil {
		return model.ErrUnauthenticated
	}

	list, err := c.storage.GetGameList(ctx, id)
	if err != nil {
		return err
	}
	if !c.roles.CanManage(actor, list.OwnerID) {
		return model.ErrForbidden
	}

	return c.storage.DeleteGameList(ctx, id)
}

// validateGames rejects empty lists and blank game names
func validateGames(games []model.GameEntry) error {
	if len(games) == 0 {
		return fmt.Errorf("%w: at least one game is required", model.ErrValidation)
	}
	for i, g := range games {
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("%w: game %d has a blank name", model.ErrValidation, i)
		}
	}
	return nil
}
