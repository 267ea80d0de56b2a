// Package store is the local key-value persistence layer. Every record is a
// JSON document addressed by a fixed string key.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys shared by the mobile and web clients.
const (
	KeyProfile       = "userProfile"
	KeyLegacyProfile = "sweat_profile" // web client's name for the same record
	KeyCredentials   = "userCredentials"
	KeyUserMode      = "currentUserMode"
	KeyCalorieGoal   = "sweat_calories"
	KeyCalorieLog    = "sweat_calorie_log"
	KeySessionToken  = "sessionToken"
)

// ErrNotFound is returned by Get and Remove when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Store gets, sets and removes raw JSON values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// GetJSON decodes the value at key into dst. found is false (with a nil
// error) when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and writes it at key, replacing any previous value.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key, treating an already-missing key as success.
func Delete(ctx context.Context, s Store, key string) error {
	if err := s.Remove(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("store: remove %s: %w", key, err)
	}
	return nil
}
