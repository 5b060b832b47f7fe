package history

import "sync"

type Memory struct {
	mu      sync.Mutex
	entries []*Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Add(e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *e
	m.entries = append(m.entries, &c)
	return nil
}

func (m *Memory) List(limit int) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(res) == limit {
			break
		}
		c := *m.entries[i]
		res = append(res, &c)
	}
	return res, nil
}

func (m *Memory) Close() error {
	return nil
}
