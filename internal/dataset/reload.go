package dataset

import (
	"os"
	"path/filepath"
	"time"
)

// Reload parses the mirror under dir, builds a fresh snapshot, and
// publishes it. The previous snapshot stays live for the whole build
// and remains untouched if anything fails. A second concurrent call
// returns ErrReloadInProgress immediately instead of queueing.
func (s *Store) Reload(dir string) (*ReloadStats, error) {
	if !s.reloadMu.TryLock() {
		return nil, ErrReloadInProgress
	}
	defer s.reloadMu.Unlock()

	s.updating.Store(true)
	defer s.updating.Store(false)

	started := time.Now()
	s.log.Info().Str("dir", dir).Msg("reloading dataset")

	data, stats, err := load(dir, s.log)
	if err != nil {
		s.log.Error().Err(err).Str("dir", dir).Msg("reload failed, keeping current snapshot")
		return nil, err
	}

	snap := &Snapshot{
		Data:        data,
		Index:       buildIndexes(data),
		Stats:       stats,
		LastUpdated: time.Now(),
	}
	if fi, statErr := os.Stat(filepath.Join(dir, fileTitles)); statErr == nil {
		snap.LastModified = fi.ModTime()
	}
	stats.Duration = time.Since(started)

	s.cur.Store(snap)
	s.log.Info().
		Dur("took", stats.Duration).
		Int("rows", stats.TotalRows()).
		Int("skipped", stats.TotalSkipped()).
		Int("videos", snap.Index.KnownVideos()).
		Msg("snapshot published")

	return stats, nil
}
