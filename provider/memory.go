package provider

import (
	"context"
	"sync"
)

// Memory is a resident, writable provider over a byte slice.
type Memory struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemory wraps data without copying it.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

func (m *Memory) Size() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.data))
}

func (m *Memory) Read(ctx context.Context, off, n uint64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := checkRange(off, n, uint64(len(m.data))); err != nil {
		return nil, err
	}
	return m.data[off : off+n : off+n], nil
}

func (m *Memory) Write(ctx context.Context, off uint64, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := checkRange(off, uint64(len(p)), uint64(len(m.data))); err != nil {
		return err
	}
	copy(m.data[off:], p)
	return nil
}

// Bytes returns the backing slice.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}
