// Package store is the persistent key-value adapter every tracker component
// is built on. Values are UTF-8 JSON blobs addressed by string keys; the key
// namespace is owned here so components never spell raw keys themselves.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the persisted records. Each key is an independent record; there is
// no transactionality across keys.
const (
	KeySavedIDs       = "jobTrackerSavedIds"
	KeyPreferences    = "jobTrackerPreferences"
	KeyStatus         = "jobTrackerStatus"
	KeyStatusHistory  = "jobTrackerStatusHistory"
	KeyProofArtifacts = "jobTrackerProofArtifacts"
	KeyTestChecklist  = "jobTrackerTestChecklist"

	digestKeyPrefix = "jobTrackerDigest_"
)

// DigestKey returns the key of the digest snapshot for a YYYY-MM-DD date.
func DigestKey(date string) string {
	return digestKeyPrefix + date
}

// Store is a durable string-keyed store. Any call may fail; callers are
// expected to degrade to a safe default rather than propagate.
type Store interface {
	// Get returns the value for key. found is false when the key is unset.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ErrUnavailable wraps every failure of the underlying backend.
var ErrUnavailable = errors.New("store unavailable")

// DecodeError reports a persisted value that is not valid JSON for the
// record it is read into. The value stays in place until the next write.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// GetJSON reads key and decodes it into v. It returns found=false with a nil
// error when the key is unset, a *DecodeError when the blob is corrupt, and an
// error wrapping ErrUnavailable when the backend failed.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	if !found || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, &DecodeError{Key: key, Err: err}
	}
	return true, nil
}

// SetJSON encodes v and writes it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}
