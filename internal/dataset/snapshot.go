package dataset

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Snapshot is one immutable generation of the dataset plus its
// indexes. Readers that hold a *Snapshot keep seeing that generation
// even while the store publishes a newer one.
type Snapshot struct {
	Data  *Dataset
	Index *Indexes
	Stats *ReloadStats

	// LastUpdated is when the reload finished; LastModified is the
	// mtime of the titles table, i.e. how fresh the mirror itself is.
	LastUpdated  time.Time
	LastModified time.Time
}

// Store publishes snapshots atomically. At most one reload runs at a
// time; queries never block on a reload.
type Store struct {
	cur      atomic.Pointer[Snapshot]
	reloadMu sync.Mutex
	updating atomic.Bool
	log      zerolog.Logger
}

func NewStore(log zerolog.Logger) *Store {
	return &Store{log: log}
}

// Current returns the live snapshot, or nil before the first
// successful reload.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// Updating reports whether a reload is in flight.
func (s *Store) Updating() bool {
	return s.updating.Load()
}
