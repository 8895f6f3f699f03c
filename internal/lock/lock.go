// Package lock provides the serialization units the reservation coordinator
// acquires around check-and-reserve sequences. Units are keyed by room type:
// two writers touching the same room type are strictly serialized, writers
// on different room types proceed in parallel.
package lock

import (
	"context"
	"sync"
)

// Locker hands out exclusive scopes keyed by an arbitrary string. Acquire
// blocks until the prior holder releases or ctx is done; the returned
// release function must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Keyed is an in-process Locker backed by one semaphore per key. It is the
// default for single-instance deployments and the vehicle for deterministic
// tests.
type Keyed struct {
	mu    sync.Mutex
	units map[string]chan struct{}
}

// NewKeyed creates an in-process keyed locker.
func NewKeyed() *Keyed {
	return &Keyed{units: make(map[string]chan struct{})}
}

func (k *Keyed) unit(key string) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	ch, ok := k.units[key]
	if !ok {
		// One unit per room type for the process lifetime; the set of room
		// types is small and bounded.
		ch = make(chan struct{}, 1)
		k.units[key] = ch
	}
	return ch
}

// Acquire blocks until the unit for key is free or ctx is cancelled.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	ch := k.unit(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-ch })
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
