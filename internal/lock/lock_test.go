package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutualExclusion(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	var mu sync.Mutex
	inside := 0
	maxInside := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := k.Acquire(ctx, "room-type-1")
			require.NoError(t, err)
			defer release()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside, "two holders inside the same unit")
}

func TestKeyedIndependentKeys(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	releaseA, err := k.Acquire(ctx, "room-type-a")
	require.NoError(t, err)
	defer releaseA()

	// A different key must not block behind the first.
	done := make(chan struct{})
	go func() {
		releaseB, err := k.Acquire(ctx, "room-type-b")
		assert.NoError(t, err)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent key blocked")
	}
}

func TestKeyedAcquireHonoursContext(t *testing.T) {
	k := NewKeyed()

	release, err := k.Acquire(context.Background(), "room-type-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = k.Acquire(ctx, "room-type-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKeyedReleaseIsIdempotent(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	release, err := k.Acquire(ctx, "room-type-1")
	require.NoError(t, err)
	release()
	release() // a double call must not free the unit for a phantom holder

	release2, err := k.Acquire(ctx, "room-type-1")
	require.NoError(t, err)
	defer release2()

	ctx2, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = k.Acquire(ctx2, "room-type-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
