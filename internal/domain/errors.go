package domain

import "github.com/cockroachdb/errors"

// ErrNotFound is returned by lookups and stores when nothing matches.
var ErrNotFound = errors.New("not found")
