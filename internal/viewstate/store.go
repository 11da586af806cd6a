// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package viewstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix namespaces expansion-state keys in Valkey.
	keyPrefix = "expand:"

	// DefaultTTL matches the session lifetime; an expansion set has no
	// meaning once its session is gone.
	DefaultTTL = 24 * time.Hour
)

// Store keeps one expansion set per admin session in Valkey. Losing an
// entry is harmless — the view falls back to fully collapsed.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates an expansion-state store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: DefaultTTL}
}

// Get loads the expansion state for a session. A missing or unreadable
// entry yields an empty (fully collapsed) state.
func (s *Store) Get(ctx context.Context, sessionID string) State {
	payload, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		return New()
	}

	var keys []string
	if err := json.Unmarshal(payload, &keys); err != nil {
		return New()
	}
	return FromKeys(keys)
}

// Save stores the expansion state for a session, refreshing the TTL.
func (s *Store) Save(ctx context.Context, sessionID string, state State) error {
	payload, err := json.Marshal(state.Keys())
	if err != nil {
		return fmt.Errorf("viewstate marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("viewstate save: %w", err)
	}
	return nil
}

// Clear removes the stored expansion state for a session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("viewstate clear: %w", err)
	}
	return nil
}
