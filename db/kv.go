// Package db provides the versioned in-memory store the services keep
// agent state in: beliefs, conflicts, and anything else keyed per agent.
package db

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// storedValue is one serialized version of a value.
type storedValue struct {
	data    []byte
	version int
}

// KeyValueStore holds per-agent keyed state, every version retained.
// Values are stored serialized, so callers always get their own copy back
// and nothing in the store is shared mutable state.
type KeyValueStore struct {
	mu     sync.RWMutex
	store  map[string]map[string][]storedValue // agent -> key -> versions ascending
	logger *zap.Logger
}

// NewKeyValueStore initializes an empty store.
func NewKeyValueStore(logger *zap.Logger) *KeyValueStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyValueStore{
		store:  make(map[string]map[string][]storedValue),
		logger: logger,
	}
}

// Store serializes value under (agentID, key) at the given version. An
// existing version is replaced in place; new versions keep the slice
// sorted ascending.
func (kvs *KeyValueStore) Store(agentID, key string, value interface{}, version int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize %T for key %s: %w", value, key, err)
	}

	kvs.mu.Lock()
	defer kvs.mu.Unlock()

	kvs.logger.Debug("storing value",
		zap.String("agent_id", agentID),
		zap.String("key", key),
		zap.Int("version", version))

	if _, ok := kvs.store[agentID]; !ok {
		kvs.store[agentID] = make(map[string][]storedValue)
	}

	versions := kvs.store[agentID][key]
	for i, existing := range versions {
		if existing.version == version {
			versions[i] = storedValue{data: data, version: version}
			return nil
		}
	}

	versions = append(versions, storedValue{data: data, version: version})
	sort.Slice(versions, func(i, j int) bool { return versions[i].version < versions[j].version })
	kvs.store[agentID][key] = versions
	return nil
}

// Retrieve deserializes the latest version under (agentID, key) into out,
// which must be a pointer.
func (kvs *KeyValueStore) Retrieve(agentID, key string, out interface{}) error {
	kvs.mu.RLock()
	defer kvs.mu.RUnlock()

	versions, err := kvs.lookup(agentID, key)
	if err != nil {
		return err
	}
	latest := versions[len(versions)-1]
	if err := json.Unmarshal(latest.data, out); err != nil {
		return fmt.Errorf("failed to deserialize key %s: %w", key, err)
	}
	return nil
}

// RetrieveAllVersions returns every stored version under (agentID, key) in
// ascending version order, as raw serialized documents.
func (kvs *KeyValueStore) RetrieveAllVersions(agentID, key string) ([]json.RawMessage, error) {
	kvs.mu.RLock()
	defer kvs.mu.RUnlock()

	versions, err := kvs.lookup(agentID, key)
	if err != nil {
		return nil, err
	}
	result := make([]json.RawMessage, len(versions))
	for i, v := range versions {
		result[i] = append(json.RawMessage(nil), v.data...)
	}
	return result, nil
}

// ListKeys returns the agent's keys with the given prefix, sorted. An
// unknown agent yields an empty list, not an error; enumeration is used
// for scans where absence is normal.
func (kvs *KeyValueStore) ListKeys(agentID, prefix string) []string {
	kvs.mu.RLock()
	defer kvs.mu.RUnlock()

	var keys []string
	for key := range kvs.store[agentID] {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// lookup must be called with the lock held.
func (kvs *KeyValueStore) lookup(agentID, key string) ([]storedValue, error) {
	agentStore, ok := kvs.store[agentID]
	if !ok {
		return nil, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	versions, ok := agentStore[key]
	if !ok || len(versions) == 0 {
		return nil, fmt.Errorf("key %s: %w", key, ErrNotFound)
	}
	return versions, nil
}
