package lock

import (
	"context"
	"sync"
)

// Memory serializa por chave dentro do processo. Serve para testes e
// para deploy de instância única sem Redis.
type Memory struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewMemory() *Memory {
	return &Memory{locks: make(map[string]*entry)}
}

func (m *Memory) Acquire(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	released := false
	release := func() {
		if released {
			return
		}
		released = true

		e.mu.Unlock()

		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}

	return release, nil
}

var _ Keyed = (*Memory)(nil)
