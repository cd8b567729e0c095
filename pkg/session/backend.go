package session

import "sync"

// Backend is the durable key-value layer behind a Store. Get reports
// ok=false for a missing key. SetMany applies every entry in one step; an
// empty value deletes its key.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	SetMany(entries map[string]string) error
}

// MemoryBackend keeps entries in process memory.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]string)}
}

func (b *MemoryBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.entries[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = value
	return nil
}

func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}

func (b *MemoryBackend) SetMany(entries map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	applyEntries(b.entries, entries)
	return nil
}

func applyEntries(dst, entries map[string]string) {
	for k, v := range entries {
		if v == "" {
			delete(dst, k)
			continue
		}
		dst[k] = v
	}
}
