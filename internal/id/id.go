// Package id generates the identifiers used for orders, positions and
// transfers. ULIDs sort lexicographically by creation time, so journal
// rows and snapshot tables stay in creation order without a separate
// sequence column.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu sync.Mutex

	// ulid.Monotonic keeps IDs generated within the same millisecond
	// strictly increasing.
	entropy io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// New returns a time-sortable ULID string.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
