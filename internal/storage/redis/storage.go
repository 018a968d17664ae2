package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Entities are stored as JSON values; secondary lookups go through index sets.
// Atomic updates use WATCH-based optimistic transactions.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Principal operations

func (s *Storage) SavePrincipal(ctx context.Context, p *model.Principal) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := principalKey(p.ID)

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, principalsIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPrincipal(ctx context.Context, id model.PrincipalID) (*model.Principal, error) {
	data, err := s.client.Get(ctx, principalKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPrincipalNotFound
		}
		return nil, err
	}

	var p model.Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) ListPrincipals(ctx context.Context) ([]*model.Principal, error) {
	keys, err := s.client.SMembers(ctx, principalsIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Principal{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	principals := make([]*model.Principal, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // removed since the index was read
		}
		var p model.Principal
		if err := json.Unmarshal([]byte(val.(string)), &p); err != nil {
			continue
		}
		principals = append(principals, &p)
	}
	return principals, nil
}

func (s *Storage) DeletePrincipal(ctx context.Context, id model.PrincipalID) error {
	key := principalKey(id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, principalsIndexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdatePrincipal(ctx context.Context, id model.PrincipalID, fn func(*model.Principal) error) error {
	key := principalKey(id)
	return s.updateAtomic(ctx, key, model.ErrPrincipalNotFound,
		func(data []byte) (any, error) {
			var p model.Principal
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, err
			}
			if err := fn(&p); err != nil {
				return nil, err
			}
			return &p, nil
		},
		func(ctx context.Context, pipe redis.Pipeliner) {
			pipe.SRem(ctx, principalsIndexKey(), key)
		})
}

// Credential operations

func (s *Storage) SaveCredentialIfAbsent(ctx context.Context, c *model.Credential) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	// SETNX on the username index is the uniqueness guard; only the
	// registration that claims the name gets to write its credential
	claimed, err := s.client.SetNX(ctx, usernameIndexKey(c.Username), string(c.PrincipalID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrUsernameTaken
	}

	return s.client.Set(ctx, credentialKey(c.PrincipalID), data, 0).Err()
}

func (s *Storage) GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPrincipalNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, credentialKey(model.PrincipalID(idStr))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPrincipalNotFound
		}
		return nil, err
	}

	var c model.Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Storage) DeleteCredential(ctx context.Context, id model.PrincipalID) error {
	data, err := s.client.Get(ctx, credentialKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	var c model.Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, credentialKey(id))
	pipe.Del(ctx, usernameIndexKey(c.Username))
	_, err = pipe.Exec(ctx)
	return err
}

// Event operations

func (s *Storage) SaveEvent(ctx context.Context, e *model.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	key := eventKey(e.ID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, eventsIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	data, err := s.client.Get(ctx, eventKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEventNotFound
		}
		return nil, err
	}

	var e model.Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Storage) ListEvents(ctx context.Context) ([]*model.Event, error) {
	keys, err := s.client.SMembers(ctx, eventsIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Event{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	events := make([]*model.Event, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var e model.Event
		if err := json.Unmarshal([]byte(val.(string)), &e); err != nil {
			continue
		}
		events = append(events, &e)
	}
	return events, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id model.EventID) error {
	key := eventKey(id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, eventsIndexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdateEvent(ctx context.Context, id model.EventID, fn func(*model.Event) error) error {
	key := eventKey(id)
	return s.updateAtomic(ctx, key, model.ErrEventNotFound,
		func(data []byte) (any, error) {
			var e model.Event
			if err := json.Unmarshal(data, &e); err != nil {
				return nil, err
			}
			if err := fn(&e); err != nil {
				return nil, err
			}
			return &e, nil
		},
		func(ctx context.Context, pipe redis.Pipeliner) {
			pipe.SRem(ctx, eventsIndexKey(), key)
		})
}

// Table operations

func (s *Storage) SaveTable(ctx context.Context, t *model.Table) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	key := tableKey(t.ID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, tablesForEventIndexKey(t.EventID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetTable(ctx context.Context, id model.TableID) (*model.Table, error) {
	data, err := s.client.Get(ctx, tableKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTableNotFound
		}
		return nil, err
	}

	var t model.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Storage) GetTablesForEvent(ctx context.Context, eventID model.EventID) ([]*model.Table, error) {
	keys, err := s.client.SMembers(ctx, tablesForEventIndexKey(eventID)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Table{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	tables := make([]*model.Table, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var t model.Table
		if err := json.Unmarshal([]byte(val.(string)), &t); err != nil {
			continue
		}
		tables = append(tables, &t)
	}
	return tables, nil
}

func (s *Storage) DeleteTable(ctx context.Context, id model.TableID) error {
	t, err := s.GetTable(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrTableNotFound) {
			return nil
		}
		return err
	}

	key := tableKey(id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, tablesForEventIndexKey(t.EventID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdateTable(ctx context.Context, id model.TableID, fn func(*model.Table) error) error {
	key := tableKey(id)
	var eventID model.EventID
	return s.updateAtomic(ctx, key, model.ErrTableNotFound,
		func(data []byte) (any, error) {
			var t model.Table
			if err := json.Unmarshal(data, &t); err != nil {
				return nil, err
			}
			eventID = t.EventID
			if err := fn(&t); err != nil {
				return nil, err
			}
			return &t, nil
		},
		func(ctx context.Context, pipe redis.Pipeliner) {
			pipe.SRem(ctx, tablesForEventIndexKey(eventID), key)
		})
}

// Game list operations

func (s *Storage) SaveGameList(ctx context.Context, l *model.GameList) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}

	key := gameListKey(l.ID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, gameListsForEventIndexKey(l.EventID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGameList(ctx context.Context, id model.GameListID) (*model.GameList, error) {
	data, err := s.client.Get(ctx, gameListKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameListNotFound
		}
		return nil, err
	}

	var l model.GameList
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Storage) GetGameListsForEvent(ctx context.Context, eventID model.EventID) ([]*model.GameList, error) {
	keys, err := s.client.SMembers(ctx, gameListsForEventIndexKey(eventID)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.GameList{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	lists := make([]*model.GameList, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var l model.GameList
		if err := json.Unmarshal([]byte(val.(string)), &l); err != nil {
			continue
		}
		lists = append(lists, &l)
	}
	return lists, nil
}

func (s *Storage) DeleteGameList(ctx context.Context, id model.GameListID) error {
	l, err := s.GetGameList(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGameListNotFound) {
			return nil
		}
		return err
	}

	key := gameListKey(id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, gameListsForEventIndexKey(l.EventID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdateGameList(ctx context.Context, id model.GameListID, fn func(*model.GameList) error) error {
	key := gameListKey(id)
	var eventID model.EventID
	return s.updateAtomic(ctx, key, model.ErrGameListNotFound,
		func(data []byte) (any, error) {
			var l model.GameList
			if err := json.Unmarshal(data, &l); err != nil {
				return nil, err
			}
			eventID = l.EventID
			if err := fn(&l); err != nil {
				return nil, err
			}
			return &l, nil
		},
		func(ctx context.Context, pipe redis.Pipeliner) {
			pipe.SRem(ctx, gameListsForEventIndexKey(eventID), key)
		})
}

// updateAtomic runs a WATCH-based read-modify-write cycle on a single key.
// apply unmarshals the current value, runs the caller's mutation, and returns
// the value to store. A storage.Delete error from the mutation removes the
// key instead; removeFromIndexes cleans up index sets in the same transaction.
// Concurrent writers to the same key abort the transaction and the cycle
// retries against the fresh value, up to MaxTxRetries attempts.
func (s *Storage) updateAtomic(
	ctx context.Context,
	key string,
	notFound error,
	apply func(data []byte) (any, error),
	removeFromIndexes func(ctx context.Context, pipe redis.Pipeliner),
) error {
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return notFound
			}
			return err
		}

		entity, err := apply(data)
		if err != nil {
			if errors.Is(err, storage.Delete) {
				_, derr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					removeFromIndexes(ctx, pipe)
					return nil
				})
				return derr
			}
			return err
		}

		updated, err := json.Marshal(entity)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < s.cfg.MaxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("atomic update of %s failed after %d retries", key, s.cfg.MaxTxRetries)
}
