package snapshot

import (
	"encoding/json"
	"sync"
)

// MemoryStore keeps the encoded snapshot in memory. It round-trips through
// JSON so callers see the same defaults as with FileStore.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
	// Err, when set, is returned from Save to simulate a full disk.
	Err error
}

func (m *MemoryStore) Save(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *MemoryStore) Load() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return Snapshot{}, ErrNotFound
	}
	var s Snapshot
	if err := json.Unmarshal(m.data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// SetRaw replaces the stored bytes, e.g. with a record from an older version.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}
