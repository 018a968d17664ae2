package storage

import (
	"context"
	"errors"

	"github.com/ludorg/gamenight/internal/model"
)

// Delete is returned by an update function to atomically remove the entity
// instead of saving the mutated value.
var Delete = errors.New("storage: delete entity")

// Storage defines the interface for data persistence.
//
// The UpdateX methods are the atomicity primitive required by the enrollment
// and archive logic: the mutation function is applied against the latest
// stored value, and the read-modify-write cycle is atomic per entity id.
// If the function returns an error the entity is left untouched and the error
// is returned; if it returns Delete the entity is removed.
type Storage interface {
	// Principal operations
	SavePrincipal(ctx context.Context, p *model.Principal) error
	GetPrincipal(ctx context.Context, id model.PrincipalID) (*model.Principal, error)
	ListPrincipals(ctx context.Context) ([]*model.Principal, error)
	DeletePrincipal(ctx context.Context, id model.PrincipalID) error
	UpdatePrincipal(ctx context.Context, id model.PrincipalID, fn func(*model.Principal) error) error

	// Credential operations. SaveCredentialIfAbsent claims the username and
	// stores the credential in one step; it returns model.ErrUsernameTaken if
	// the username is already claimed, so two concurrent registrations of the
	// same name cannot both succeed.
	SaveCredentialIfAbsent(ctx context.Context, c *model.Credential) error
	GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error)
	DeleteCredential(ctx context.Context, id model.PrincipalID) error

	// Event operations
	SaveEvent(ctx context.Context, e *model.Event) error
	GetEvent(ctx context.Context, id model.EventID) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	DeleteEvent(ctx context.Context, id model.EventID) error
	UpdateEvent(ctx context.Context, id model.EventID, fn func(*model.Event) error) error

	// Table operations
	SaveTable(ctx context.Context, t *model.Table) error
	GetTable(ctx context.Context, id model.TableID) (*model.Table, error)
	GetTablesForEvent(ctx context.Context, eventID model.EventID) ([]*model.Table, error)
	DeleteTable(ctx context.Context, id model.TableID) error
	UpdateTable(ctx context.Context, id model.TableID, fn func(*model.Table) error) error

	// Game list operations
	SaveGameList(ctx context.Context, l *model.GameList) error
	GetGameList(ctx context.Context, id model.GameListID) (*model.GameList, error)
	GetGameListsForEvent(ctx context.Context, eventID model.EventID) ([]*model.GameList, error)
	DeleteGameList(ctx context.Context, id model.GameListID) error
	UpdateGameList(ctx context.Context, id model.GameListID, fn func(*model.GameList) error) error
}
