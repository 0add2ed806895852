package service

import (
	"fmt"

	"github.com/google/uuid"
)

// newID issues a prefixed random identifier. UUIDs are used instead of
// timestamps so concurrent requests cannot collide.
func newID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
