package archive

import (
	"fmt"
	"sort"
)

// MemContainer is an in-memory container keyed by entry name.
type MemContainer map[string][]byte

func (m MemContainer) Entries() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m MemContainer) Read(entry string) ([]byte, error) {
	data, ok := m[entry]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, entry)
	}
	return data, nil
}

func (m MemContainer) Close() error { return nil }
