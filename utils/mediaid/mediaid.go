package mediaid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyOnce sync.Once
	entropy     *ulid.LockedMonotonicReader
)

// newEntropy returns the shared entropy source. Uploads are served
// concurrently, so the monotonic reader must be the locked variant.
func newEntropy() *ulid.LockedMonotonicReader {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rand.New(source), 0),
		}
	})
	return entropy
}

// New returns a dm_* ULID string used as a media record identifier.
func New() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return "dm_" + strings.ToLower(id.String())
}

// IsValid reports whether the string is a dm_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, "dm_") {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the dm_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "dm_")
	value = strings.TrimPrefix(value, "DM_")
	return ulid.Parse(value)
}
