package blobstore

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStore keeps blobs in memory. It backs sources read from a pipe and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Open returns a snapshot of the named blob; a later Put does not change it.
func (m *MemoryStore) Open(_ context.Context, name string) (Blob, error) {
	m.mu.RLock()
	data, ok := m.blobs[name]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return NewMemoryBlob(data), nil
}

// Put stores a copy of data under name.
func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	data = bytes.Clone(data)
	if data == nil {
		data = []byte{}
	}

	m.mu.Lock()
	m.blobs[name] = data
	m.mu.Unlock()
	return nil
}

// Delete removes the named blob. Blobs already opened stay readable.
func (m *MemoryStore) Delete(name string) {
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()
}

// Names lists the stored blobs in lexical order.
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.blobs))
}

// NewMemoryBlob exposes data as a Blob. data is not copied and must not change.
func NewMemoryBlob(data []byte) Blob {
	return memoryBlob{r: bytes.NewReader(data), data: data}
}

type memoryBlob struct {
	r    *bytes.Reader
	data []byte
}

func (b memoryBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return b.r.ReadAt(p, off)
}

func (b memoryBlob) Size() int64            { return b.r.Size() }
func (b memoryBlob) Close() error           { return nil }
func (b memoryBlob) Bytes() ([]byte, error) { return b.data, nil }
