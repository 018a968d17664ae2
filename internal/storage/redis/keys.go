package redis

import (
	"fmt"

	"github.com/ludorg/gamenight/internal/model"
)

// Key prefix for all meetup data
const keyPrefix = "gamenight"

// Key generation functions for each entity type

// principalKey returns the Redis key for a Principal
func principalKey(id model.PrincipalID) string {
	return fmt.Sprintf("%s:principal:%s", keyPrefix, id)
}

// principalsIndexKey returns the Redis key for the SET of all principal keys
func principalsIndexKey() string {
	return fmt.Sprintf("%s:idx:principals", keyPrefix)
}

// credentialKey returns the Redis key for a Credential
func credentialKey(id model.PrincipalID) string {
	return fmt.Sprintf("%s:credential:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> principal_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// eventKey returns the Redis key for an Event
func eventKey(id model.EventID) string {
	return fmt.Sprintf("%s:event:%s", keyPrefix, id)
}

// eventsIndexKey returns the Redis key for the SET of all event keys
func eventsIndexKey() string {
	return fmt.Sprintf("%s:idx:events", keyPrefix)
}

// tableKey returns the Redis key for a Table
func tableKey(id model.TableID) string {
	return fmt.Sprintf("%s:table:%s", keyPrefix, id)
}

// tablesForEventIndexKey returns the Redis key for the SET of tables at an event
func tablesForEventIndexKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:idx:tables_for_event:%s", keyPrefix, eventID)
}

// gameListKey returns the Redis key for a GameList
func gameListKey(id model.GameListID) string {
	return fmt.Sprintf("%s:gamelist:%s", keyPrefix, id)
}

// gameListsForEventIndexKey returns the Redis key for the SET of game lists at an event
func gameListsForEventIndexKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:idx:gamelists_for_event:%s", keyPrefix, eventID)
}
