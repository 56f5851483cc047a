package model

// ThumbnailFlags is a bitmask of per-thumbnail states derived from the
// thumbnails, thumbnailVotes and thumbnailTimestamps tables.
type ThumbnailFlags uint8

const (
	ThumbnailOriginal ThumbnailFlags = 1 << iota
	ThumbnailLocked
	ThumbnailShadowHidden
	ThumbnailRemoved
	ThumbnailMissingVotes
	ThumbnailMissingTimestamp
)

// Has reports whether any flag in mask is set.
func (f ThumbnailFlags) Has(mask ThumbnailFlags) bool {
	return f&mask != 0
}

// Thumbnail is a single crowd-sourced replacement thumbnail for a
// video: either a timestamp within the video, or a marker electing the
// original thumbnail (Timestamp == nil, ThumbnailOriginal set).
type Thumbnail struct {
	UUID          string
	VideoID       string
	UserID        string
	TimeSubmitted int64
	Timestamp     *float64
	Votes         int32
	Downvotes     int32
	Flags         ThumbnailFlags
	HashPrefix    uint16
}

// Score is the derived ranking value: votes minus downvotes, with
// locked thumbnails pinned to LockedScore.
func (t *Thumbnail) Score() int32 {
	if t.Flags.Has(ThumbnailLocked) {
		return LockedScore
	}
	return t.Votes - t.Downvotes
}

// Visible reports whether the thumbnail appears in default listings.
func (t *Thumbnail) Visible() bool {
	return !t.Flags.Has(ThumbnailRemoved | ThumbnailShadowHidden)
}
