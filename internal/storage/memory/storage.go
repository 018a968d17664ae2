package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	principals    map[model.PrincipalID]*model.Principal
	credentials   map[model.PrincipalID]*model.Credential
	usernameIndex map[string]model.PrincipalID
	events        map[model.EventID]*model.Event
	tables        map[model.TableID]*model.Table
	gameLists     map[model.GameListID]*model.GameList
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		principals:    make(map[model.PrincipalID]*model.Principal),
		credentials:   make(map[model.PrincipalID]*model.Credential),
		usernameIndex: make(map[string]model.PrincipalID),
		events:        make(map[model.EventID]*model.Event),
		tables:        make(map[model.TableID]*model.Table),
		gameLists:     make(map[model.GameListID]*model.GameList),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Principal operations

func (s *Storage) SavePrincipal(ctx context.Context, p *model.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principals[p.ID] = p
	return nil
}

func (s *Storage) GetPrincipal(ctx context.Context, id model.PrincipalID) (*model.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.principals[id]
	if !ok {
		return nil, model.ErrPrincipalNotFound
	}
	return p, nil
}

func (s *Storage) ListPrincipals(ctx context.Context) ([]*model.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	principals := make([]*model.Principal, 0, len(s.principals))
	for _, p := range s.principals {
		principals = append(principals, p)
	}
	return principals, nil
}

func (s *Storage) DeletePrincipal(ctx context.Context, id model.PrincipalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.principals, id)
	return nil
}

func (s *Storage) UpdatePrincipal(ctx context.Context, id model.PrincipalID, fn func(*model.Principal) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.principals[id]
	if !ok {
		return model.ErrPrincipalNotFound
	}
	if err := fn(p); err != nil {
		if errors.Is(err, storage.Delete) {
			delete(s.principals, id)
			return nil
		}
		return err
	}
	return nil
}

// Credential operations

func (s *Storage) SaveCredentialIfAbsent(ctx context.Context, c *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernameIndex[c.Username]; taken {
		return model.ErrUsernameTaken
	}
	s.credentials[c.PrincipalID] = c
	s.usernameIndex[c.Username] = c.PrincipalID
	return nil
}

func (s *Storage) GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPrincipalNotFound
	}
	c, ok := s.credentials[id]
	if !ok {
		return nil, model.ErrPrincipalNotFound
	}
	return c, nil
}

func (s *Storage) DeleteCredential(ctx context.Context, id model.PrincipalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.credentials[id]; ok {
		delete(s.usernameIndex, c.Username)
		delete(s.credentials, id)
	}
	return nil
}

// Event operations

func (s *Storage) SaveEvent(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	return e, nil
}

func (s *Storage) ListEvents(ctx context.Context) ([]*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]*model.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	return events, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id model.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	return nil
}

func (s *Storage) UpdateEvent(ctx context.Context, id model.EventID, fn func(*model.Event) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return model.ErrEventNotFound
	}
	if err := fn(e); err != nil {
		if errors.Is(err, storage.Delete) {
			delete(s.events, id)
			return nil
		}
		return err
	}
	return nil
}

// Table operations

func (s *Storage) SaveTable(ctx context.Context, t *model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
	return nil
}

func (s *Storage) GetTable(ctx context.Context, id model.TableID) (*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, model.ErrTableNotFound
	}
	return t, nil
}

func (s *Storage) GetTablesForEvent(ctx context.Context, eventID model.EventID) ([]*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tables []*model.Table
	for _, t := range s.tables {
		if t.EventID == eventID {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

func (s *Storage) DeleteTable(ctx context.Context, id model.TableID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
	return nil
}

func (s *Storage) UpdateTable(ctx context.Context, id model.TableID, fn func(*model.Table) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return model.ErrTableNotFound
	}
	if err := fn(t); err != nil {
		if errors.Is(err, storage.Delete) {
			delete(s.tables, id)
			return nil
		}
		return err
	}
	return nil
}

// Game list operations

func (s *Storage) SaveGameList(ctx context.Context, l *model.GameList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameLists[l.ID] = l
	return nil
}

func (s *Storage) GetGameList(ctx context.Context, id model.GameListID) (*model.GameList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.gameLists[id]
	if !ok {
		return nil, model.ErrGameListNotFound
	}
	return l, nil
}

func (s *Storage) GetGameListsForEvent(ctx context.Context, eventID model.EventID) ([]*model.GameList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var lists []*model.GameList
	for _, l := range s.gameLists {
		if l.EventID == eventID {
			lists = append(lists, l)
		}
	}
	return lists, nil
}

func (s *Storage) DeleteGameList(ctx context.Context, id model.GameListID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.gameLists, id)
	return nil
}

func (s *Storage) UpdateGameList(ctx context.Context, id model.GameListID, fn func(*model.GameList) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.gameLists[id]
	if !ok {
		return model.ErrGameListNotFound
	}
	if err := fn(l); err != nil {
		if errors.Is(err, storage.Delete) {
			delete(s.gameLists, id)
			return nil
		}
		return err
	}
	return nil
}
