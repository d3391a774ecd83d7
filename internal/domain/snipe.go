package domain

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// SnipeType tells whether a snipe captured a deleted or an edited message.
type SnipeType string

const (
	SnipeDelete SnipeType = "delete"
	SnipeEdit   SnipeType = "edit"
)

// ParseSnipeType accepts a snipe type case-insensitively.
func ParseSnipeType(s string) (SnipeType, error) {
	switch SnipeType(strings.ToLower(strings.TrimSpace(s))) {
	case SnipeDelete:
		return SnipeDelete, nil
	case SnipeEdit:
		return SnipeEdit, nil
	}
	return "", errors.WithHint(
		errors.Newf("unknown snipe type %q", s),
		"Snipe type must be delete or edit.",
	)
}

type SnipeAuthor struct {
	ID        string `json:"id"`
	Tag       string `json:"tag"`
	AvatarURL string `json:"avatarURL"`
}

// Snipe is a message captured just before it was deleted or edited.
// OldContent is only set for edits.
type Snipe struct {
	ID         string      `json:"id"`
	Author     SnipeAuthor `json:"author"`
	Channel    string      `json:"channel"`
	Content    string      `json:"content"`
	OldContent *string     `json:"oldContent"`
	Timestamp  time.Time   `json:"timestamp"`
	Type       SnipeType   `json:"type"`
}
