package domain

import (
	"fmt"
	"time"
)

// Report is the outcome of one generation run.
type Report struct {
	ID        string        `json:"id"`
	Version   string        `json:"version"`
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Logs      []string      `json:"logs"`
	Source    string        `json:"source,omitempty"`
	Bytes     int64         `json:"bytes"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// GenerationSummary is the one-line headline of a finished generation.
func GenerationSummary(version string, logs int) string {
	switch logs {
	case 0:
		return fmt.Sprintf("Generation for %s completed with no logs.", version)
	case 1:
		return fmt.Sprintf("Generation for %s completed with 1 log.", version)
	}
	return fmt.Sprintf("Generation for %s completed with %d logs.", version, logs)
}
