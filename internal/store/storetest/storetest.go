// Package storetest provides Store fakes for tests.
package storetest

import (
	"context"
	"errors"
)

// ErrBroken is returned by every Broken call.
var ErrBroken = errors.New("storage broken")

// Broken fails every read and write.
type Broken struct{}

// Get implements store.Store.
func (Broken) Get(context.Context, string) (string, bool, error) { return "", false, ErrBroken }

// Set implements store.Store.
func (Broken) Set(context.Context, string, string) error { return ErrBroken }

// Remove implements store.Store.
func (Broken) Remove(context.Context, string) error { return ErrBroken }

// ReadOnly wraps a backing map: reads succeed, writes fail. It models a
// store that is full or whose quota has been exceeded.
type ReadOnly struct {
	Data map[string]string
}

// Get implements store.Store.
func (r ReadOnly) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := r.Data[key]
	return v, ok, nil
}

// Set implements store.Store.
func (ReadOnly) Set(context.Context, string, string) error { return ErrBroken }

// Remove implements store.Store.
func (ReadOnly) Remove(context.Context, string) error { return ErrBroken }
