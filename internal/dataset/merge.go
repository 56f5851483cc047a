package dataset

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/m-curtis/altmeta/internal/model"
	"github.com/m-curtis/altmeta/pkg/hash"
)

// Dataset is one fully-merged generation of the source tables. It is
// never mutated after load returns; snapshots share it freely across
// reader goroutines.
type Dataset struct {
	// Titles and Thumbnails are sorted by TimeSubmitted ascending
	// (ties by UUID) so listings can paginate stably in either
	// direction.
	Titles     []model.Title
	Thumbnails []model.Thumbnail
	Usernames  map[string]model.Username
	VIPs       map[string]struct{}
	Warnings   []model.Warning
	VideoInfos map[string]*model.VideoInfo
}

// IsVIP reports whether the user hash is on the VIP list.
func (d *Dataset) IsVIP(userID string) bool {
	_, ok := d.VIPs[userID]
	return ok
}

// UncutSegmentCount totals uncut segments across all video infos.
func (d *Dataset) UncutSegmentCount() int {
	var n int
	for _, v := range d.VideoInfos {
		n += len(v.UncutSegments)
	}
	return n
}

// load ingests every source table under dir and folds the rows into a
// Dataset. Pass 1 builds title/thumbnail shells and the user registry;
// pass 2 streams vote and timestamp rows into the shells by uuid.
// Vote folding is accumulative, so row order within a file does not
// affect the result.
func load(dir string, log zerolog.Logger) (*Dataset, *ReloadStats, error) {
	stats := newReloadStats()
	d := &Dataset{
		Usernames:  make(map[string]model.Username),
		VIPs:       make(map[string]struct{}),
		VideoInfos: make(map[string]*model.VideoInfo),
	}

	// Pass 1: shells and the user registry.
	titleID := make(map[string]int)
	if err := parseTable(filepath.Join(dir, fileTitles), true, stats, fileTitles, func(r row) error {
		uuid, videoID := r.str("UUID"), r.str("videoID")
		if uuid == "" || videoID == "" {
			return fmt.Errorf("title row missing UUID or videoID")
		}
		if _, dup := titleID[uuid]; dup {
			return fmt.Errorf("duplicate title uuid %s", uuid)
		}
		original, err := r.bool01("original")
		if err != nil {
			return err
		}
		submitted, err := r.int64("timeSubmitted")
		if err != nil {
			return err
		}
		flags := model.TitleMissingVotes
		if original {
			flags |= model.TitleOriginal
		}
		titleID[uuid] = len(d.Titles)
		d.Titles = append(d.Titles, model.Title{
			UUID:          uuid,
			VideoID:       videoID,
			Title:         r.str("title"),
			UserID:        r.str("userID"),
			TimeSubmitted: submitted,
			Flags:         flags,
			HashPrefix:    rowHashPrefix(r, videoID),
		})
		return nil
	}); err != nil {
		return nil, nil, err
	}

	thumbID := make(map[string]int)
	if err := parseTable(filepath.Join(dir, fileThumbnails), true, stats, fileThumbnails, func(r row) error {
		uuid, videoID := r.str("UUID"), r.str("videoID")
		if uuid == "" || videoID == "" {
			return fmt.Errorf("thumbnail row missing UUID or videoID")
		}
		if _, dup := thumbID[uuid]; dup {
			return fmt.Errorf("duplicate thumbnail uuid %s", uuid)
		}
		original, err := r.bool01("original")
		if err != nil {
			return err
		}
		submitted, err := r.int64("timeSubmitted")
		if err != nil {
			return err
		}
		flags := model.ThumbnailMissingVotes
		if original {
			flags |= model.ThumbnailOriginal
		}
		thumbID[uuid] = len(d.Thumbnails)
		d.Thumbnails = append(d.Thumbnails, model.Thumbnail{
			UUID:          uuid,
			VideoID:       videoID,
			UserID:        r.str("userID"),
			TimeSubmitted: submitted,
			Flags:         flags,
			HashPrefix:    rowHashPrefix(r, videoID),
		})
		return nil
	}); err != nil {
		return nil, nil, err
	}

	if err := parseTable(filepath.Join(dir, fileUsernames), true, stats, fileUsernames, func(r row) error {
		userID := r.str("userID")
		if userID == "" {
			return fmt.Errorf("username row missing userID")
		}
		locked, err := r.bool01("locked")
		if err != nil {
			return err
		}
		d.Usernames[userID] = model.Username{UserID: userID, Name: r.str("userName"), Locked: locked}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	if err := parseTable(filepath.Join(dir, fileVIPUsers), true, stats, fileVIPUsers, func(r row) error {
		userID := r.str("userID")
		if userID == "" {
			return fmt.Errorf("vip row missing userID")
		}
		d.VIPs[userID] = struct{}{}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	if err := parseTable(filepath.Join(dir, fileWarnings), false, stats, fileWarnings, func(r row) error {
		userID := r.str("userID")
		if userID == "" {
			return fmt.Errorf("warning row missing userID")
		}
		issued, err := r.int64("issueTime")
		if err != nil {
			return err
		}
		enabled, err := r.bool01("enabled")
		if err != nil {
			return err
		}
		var source model.WarningSource
		switch r.str("type") {
		case "0":
			source = model.SourceSponsorBlock
		case "1":
			source = model.SourceDeArrow
		default:
			return fmt.Errorf("warning row has invalid type %q", r.str("type"))
		}
		d.Warnings = append(d.Warnings, model.Warning{
			WarnedUserID: userID,
			IssuerUserID: r.str("issuerUserID"),
			TimeIssued:   issued,
			Source:       source,
			Message:      r.str("reason"),
			Active:       enabled,
		})
		return nil
	}); err != nil {
		return nil, nil, err
	}

	// Pass 2: fold votes and timestamps into the shells.
	if err := parseTable(filepath.Join(dir, fileTitleVotes), true, stats, fileTitleVotes, func(r row) error {
		i, ok := titleID[r.str("UUID")]
		if !ok {
			stats.DanglingVotes++
			stats.Diagnostics = append(stats.Diagnostics,
				fmt.Sprintf("%s: vote for unknown title uuid %s", fileTitleVotes, r.str("UUID")))
			return nil
		}
		votes, err := r.int32("votes")
		if err != nil {
			return err
		}
		downvotes, err := r.int32("downvotes")
		if err != nil {
			return err
		}
		locked, err := r.bool01("locked")
		if err != nil {
			return err
		}
		shadowHidden, err := r.bool01("shadowHidden")
		if err != nil {
			return err
		}
		removed, err := r.bool01("removed")
		if err != nil {
			return err
		}
		var unverified bool
		switch r.str("verification") {
		case "0":
			unverified = false
		case "-1":
			unverified = true
		default:
			return fmt.Errorf("column verification: invalid value %q", r.str("verification"))
		}
		t := &d.Titles[i]
		t.Votes += votes
		t.Downvotes += downvotes
		t.Flags &^= model.TitleMissingVotes
		if locked {
			t.Flags |= model.TitleLocked
		}
		if shadowHidden {
			t.Flags |= model.TitleShadowHidden
		}
		if removed {
			t.Flags |= model.TitleRemoved
		}
		if unverified {
			t.Flags |= model.TitleUnverified
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	if err := parseTable(filepath.Join(dir, fileThumbnailVotes), true, stats, fileThumbnailVotes, func(r row) error {
		i, ok := thumbID[r.str("UUID")]
		if !ok {
			stats.DanglingVotes++
			stats.Diagnostics = append(stats.Diagnostics,
				fmt.Sprintf("%s: vote for unknown thumbnail uuid %s", fileThumbnailVotes, r.str("UUID")))
			return nil
		}
		votes, err := r.int32("votes")
		if err != nil {
			return err
		}
		downvotes, err := r.int32("downvotes")
		if err != nil {
			return err
		}
		locked, err := r.bool01("locked")
		if err != nil {
			return err
		}
		shadowHidden, err := r.bool01("shadowHidden")
		if err != nil {
			return err
		}
		removed, err := r.bool01("removed")
		if err != nil {
			return err
		}
		t := &d.Thumbnails[i]
		t.Votes += votes
		t.Downvotes += downvotes
		t.Flags &^= model.ThumbnailMissingVotes
		if locked {
			t.Flags |= model.ThumbnailLocked
		}
		if shadowHidden {
			t.Flags |= model.ThumbnailShadowHidden
		}
		if removed {
			t.Flags |= model.ThumbnailRemoved
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	if err := parseTable(filepath.Join(dir, fileThumbnailTimestamps), true, stats, fileThumbnailTimestamps, func(r row) error {
		i, ok := thumbID[r.str("UUID")]
		if !ok {
			stats.DanglingVotes++
			stats.Diagnostics = append(stats.Diagnostics,
				fmt.Sprintf("%s: timestamp for unknown thumbnail uuid %s", fileThumbnailTimestamps, r.str("UUID")))
			return nil
		}
		ts, err := r.float64("timestamp")
		if err != nil {
			return err
		}
		t := &d.Thumbnails[i]
		if t.Timestamp != nil {
			return fmt.Errorf("duplicate timestamp for thumbnail uuid %s", t.UUID)
		}
		t.Timestamp = &ts
		return nil
	}); err != nil {
		return nil, nil, err
	}

	// A non-original thumbnail without a timestamp row cannot be
	// rendered; flag it but keep it for audit views.
	for i := range d.Thumbnails {
		t := &d.Thumbnails[i]
		if t.Timestamp == nil && !t.Flags.Has(model.ThumbnailOriginal) {
			t.Flags |= model.ThumbnailMissingTimestamp
			stats.Diagnostics = append(stats.Diagnostics,
				fmt.Sprintf("%s: thumbnail %s has no timestamp row", fileThumbnailTimestamps, t.UUID))
		}
	}

	if err := loadVideoInfos(filepath.Join(dir, fileSegments), d, stats); err != nil {
		return nil, nil, err
	}

	sort.SliceStable(d.Titles, func(a, b int) bool {
		if d.Titles[a].TimeSubmitted != d.Titles[b].TimeSubmitted {
			return d.Titles[a].TimeSubmitted < d.Titles[b].TimeSubmitted
		}
		return d.Titles[a].UUID < d.Titles[b].UUID
	})
	sort.SliceStable(d.Thumbnails, func(a, b int) bool {
		if d.Thumbnails[a].TimeSubmitted != d.Thumbnails[b].TimeSubmitted {
			return d.Thumbnails[a].TimeSubmitted < d.Thumbnails[b].TimeSubmitted
		}
		return d.Thumbnails[a].UUID < d.Thumbnails[b].UUID
	})

	log.Info().
		Int("titles", len(d.Titles)).
		Int("thumbnails", len(d.Thumbnails)).
		Int("usernames", len(d.Usernames)).
		Int("vips", len(d.VIPs)).
		Int("warnings", len(d.Warnings)).
		Int("video_infos", len(d.VideoInfos)).
		Int("skipped_rows", stats.TotalSkipped()).
		Int("dangling_votes", stats.DanglingVotes).
		Msg("dataset merged")

	return d, stats, nil
}

// rowHashPrefix takes the upstream-provided hashedVideoID prefix when
// present and well-formed, otherwise recomputes it from the video id.
func rowHashPrefix(r row, videoID string) uint16 {
	if h := r.str("hashedVideoID"); len(h) >= 4 {
		if p, err := hash.ParsePrefix16(h[:4]); err == nil {
			return p
		}
	}
	return hash.Prefix16(videoID)
}
