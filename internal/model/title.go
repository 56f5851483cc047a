package model

import "math"

// LockedScore is the score reported for locked submissions. A lock is
// a moderator decision that outranks any vote tally, so locked entries
// pin to the maximum representable score and sort ahead of everything
// else.
const LockedScore = int32(math.MaxInt32)

// TitleFlags is a bitmask of per-title states derived from the titles
// and titleVotes tables.
type TitleFlags uint8

const (
	TitleOriginal TitleFlags = 1 << iota
	TitleLocked
	TitleShadowHidden
	TitleUnverified
	TitleRemoved
	TitleMissingVotes
)

// Has reports whether any flag in mask is set.
func (f TitleFlags) Has(mask TitleFlags) bool {
	return f&mask != 0
}

// Title is a single crowd-sourced replacement title for a video.
type Title struct {
	UUID          string
	VideoID       string
	Title         string
	UserID        string
	TimeSubmitted int64
	Votes         int32
	Downvotes     int32
	Flags         TitleFlags
	HashPrefix    uint16
}

// Score is the derived ranking value: votes minus downvotes, minus one
// while the title is unverified. Locked titles pin to LockedScore.
func (t *Title) Score() int32 {
	if t.Flags.Has(TitleLocked) {
		return LockedScore
	}
	s := t.Votes - t.Downvotes
	if t.Flags.Has(TitleUnverified) {
		s--
	}
	return s
}

// Visible reports whether the title appears in default listings.
// Removed and shadow-hidden titles are retained for audit views only.
func (t *Title) Visible() bool {
	return !t.Flags.Has(TitleRemoved | TitleShadowHidden)
}
