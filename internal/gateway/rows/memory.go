package rows

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryTable keeps sheets in process memory.
type MemoryTable struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

// NewMemoryTable returns an empty table.
func NewMemoryTable() *MemoryTable {
	return &MemoryTable{sheets: make(map[string][][]string)}
}

func (m *MemoryTable) ReadRows(_ context.Context, sheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.sheets[sheet]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out, nil
}

func (m *MemoryTable) AppendRow(_ context.Context, sheet string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sheets[sheet] = append(m.sheets[sheet], slices.Clone(row))
	return nil
}

func (m *MemoryTable) UpdateRow(_ context.Context, sheet string, index int, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.sheets[sheet]
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("%s row %d out of range", sheet, index)
	}
	rows[index] = slices.Clone(row)
	return nil
}
