package docs

import (
	"fmt"
	"log/slog"
)

// NameTable maps reflection IDs to declaration names for one ingestion run.
// TypeDoc reports some re-exports under the literal name "default"; the
// table recovers the real name from the target ID.
type NameTable struct {
	names  map[int]string
	report func(string)
}

// NewNameTable returns an empty table. Misses are passed to report; a nil
// report logs them instead.
func NewNameTable(report func(string)) *NameTable {
	if report == nil {
		report = func(msg string) { slog.Warn(msg) }
	}
	return &NameTable{
		names:  make(map[int]string),
		report: report,
	}
}

func (t *NameTable) Set(id int, name string) {
	t.names[id] = name
}

// Get returns the name registered for id, or the placeholder default[id].
func (t *NameTable) Get(id int) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	t.report(fmt.Sprintf("Failed to resolve name for id %d", id))
	return fmt.Sprintf("default[%d]", id)
}

func (t *NameTable) Reset() {
	clear(t.names)
}

func (t *NameTable) Len() int {
	return len(t.names)
}
