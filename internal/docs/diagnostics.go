package docs

import (
	"log/slog"
	"sync"
)

// GenerationLogs buffers diagnostics per version until the generation
// report is written.
type GenerationLogs struct {
	mu   sync.Mutex
	logs map[string][]string
}

func NewGenerationLogs() *GenerationLogs {
	return &GenerationLogs{logs: make(map[string][]string)}
}

// Add appends message to the buffer of version. Messages without a version
// go to the process log only.
func (l *GenerationLogs) Add(version, message string) {
	if version == "" {
		slog.Warn("Unattributed generation diagnostic", "message", message)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs[version] = append(l.logs[version], message)
}

// Take returns and clears the buffered messages of version.
func (l *GenerationLogs) Take(version string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	msgs := l.logs[version]
	delete(l.logs, version)
	return msgs
}
