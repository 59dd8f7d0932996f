package lock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_SerializesSameKey(t *testing.T) {
	m := NewMemory()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		current int
		max     int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := m.Acquire(context.Background(), "reserve:7:spec:4:2025-02-10")
			assert.NoError(t, err)
			defer release()

			mu.Lock()
			current++
			if current > max {
				max = current
			}
			mu.Unlock()

			mu.Lock()
			current--
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, max)
}

func TestMemory_DistinctKeysDoNotBlock(t *testing.T) {
	m := NewMemory()

	releaseA, err := m.Acquire(context.Background(), "a")
	assert.NoError(t, err)

	// chave diferente entra sem esperar
	releaseB, err := m.Acquire(context.Background(), "b")
	assert.NoError(t, err)

	releaseB()
	releaseA()
}

func TestMemory_ReleaseIsIdempotent(t *testing.T) {
	m := NewMemory()

	release, err := m.Acquire(context.Background(), "k")
	assert.NoError(t, err)

	release()
	release()

	// a chave liberada pode ser adquirida de novo
	release2, err := m.Acquire(context.Background(), "k")
	assert.NoError(t, err)
	release2()
}
