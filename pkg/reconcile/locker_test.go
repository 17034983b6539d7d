package reconcile

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerSerializesPerKey(t *testing.T) {
	locker := NewLocalLocker()

	const goroutines = 32
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(context.Background(), "order-1", func() error {
				// unsynchronized increment: only safe if the lock holds
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestLocalLockerPropagatesError(t *testing.T) {
	locker := NewLocalLocker()
	sentinel := assert.AnError

	err := locker.WithLock(context.Background(), "order-1", func() error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// the lock is released after a failed fn
	err = locker.WithLock(context.Background(), "order-1", func() error { return nil })
	require.NoError(t, err)
}
