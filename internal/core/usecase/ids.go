package usecase

import (
	"strings"

	"github.com/google/uuid"
)

// newID mints a prefixed opaque identifier. The prefixes are part of the
// public API surface: clients pattern-match on them.
func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
