package dataset

import (
	"sort"
	"strings"

	"github.com/m-curtis/altmeta/pkg/hash"
)

// Kind tags which slice a Handle points into.
type Kind uint8

const (
	KindTitle Kind = iota
	KindThumbnail
)

// Handle locates one submission inside a Dataset.
type Handle struct {
	Kind  Kind
	Index int
}

// UserAggregate collects everything indexed for one user hash.
// Submission indices follow dataset order (oldest first).
type UserAggregate struct {
	UserID            string
	Titles            []int
	Thumbnails        []int
	VisibleTitles     int
	VisibleThumbnails int
	Warnings          []int
}

type hashEntry struct {
	Hash    string
	VideoID string
}

// Indexes holds the lookup structures built over one Dataset. Like
// the Dataset itself they are immutable after construction.
type Indexes struct {
	ByUUID            map[string]Handle
	TitlesByVideo     map[string][]int
	ThumbnailsByVideo map[string][]int
	Users             map[string]*UserAggregate

	// hashTable maps every known video id through its full sha256
	// hex digest, sorted so any hex prefix resolves to a contiguous
	// range.
	hashTable []hashEntry
}

func buildIndexes(d *Dataset) *Indexes {
	ix := &Indexes{
		ByUUID:            make(map[string]Handle, len(d.Titles)+len(d.Thumbnails)),
		TitlesByVideo:     make(map[string][]int),
		ThumbnailsByVideo: make(map[string][]int),
		Users:             make(map[string]*UserAggregate),
	}

	user := func(userID string) *UserAggregate {
		if userID == "" {
			return nil
		}
		u := ix.Users[userID]
		if u == nil {
			u = &UserAggregate{UserID: userID}
			ix.Users[userID] = u
		}
		return u
	}

	videos := make(map[string]struct{}, len(d.VideoInfos))

	for i := range d.Titles {
		t := &d.Titles[i]
		ix.ByUUID[t.UUID] = Handle{Kind: KindTitle, Index: i}
		ix.TitlesByVideo[t.VideoID] = append(ix.TitlesByVideo[t.VideoID], i)
		videos[t.VideoID] = struct{}{}
		if u := user(t.UserID); u != nil {
			u.Titles = append(u.Titles, i)
			if t.Visible() {
				u.VisibleTitles++
			}
		}
	}
	for i := range d.Thumbnails {
		t := &d.Thumbnails[i]
		ix.ByUUID[t.UUID] = Handle{Kind: KindThumbnail, Index: i}
		ix.ThumbnailsByVideo[t.VideoID] = append(ix.ThumbnailsByVideo[t.VideoID], i)
		videos[t.VideoID] = struct{}{}
		if u := user(t.UserID); u != nil {
			u.Thumbnails = append(u.Thumbnails, i)
			if t.Visible() {
				u.VisibleThumbnails++
			}
		}
	}

	// Users with no submissions still get aggregates so profile
	// lookups can surface their name, VIP status, and warnings.
	for userID := range d.Usernames {
		user(userID)
	}
	for userID := range d.VIPs {
		user(userID)
	}
	for i, w := range d.Warnings {
		if u := user(w.WarnedUserID); u != nil {
			u.Warnings = append(u.Warnings, i)
		}
	}

	for videoID := range d.VideoInfos {
		videos[videoID] = struct{}{}
	}

	ix.hashTable = make([]hashEntry, 0, len(videos))
	for videoID := range videos {
		ix.hashTable = append(ix.hashTable, hashEntry{
			Hash:    hash.VideoHash(videoID),
			VideoID: videoID,
		})
	}
	sort.Slice(ix.hashTable, func(a, b int) bool {
		return ix.hashTable[a].Hash < ix.hashTable[b].Hash
	})

	return ix
}

// VideosByHashPrefix returns the video ids whose sha256 hex digest
// starts with prefix, in digest order. Prefix matching is
// case-insensitive; an empty result is not an error.
func (ix *Indexes) VideosByHashPrefix(prefix string) []string {
	prefix = strings.ToLower(prefix)
	start := sort.Search(len(ix.hashTable), func(i int) bool {
		return ix.hashTable[i].Hash >= prefix
	})
	var out []string
	for i := start; i < len(ix.hashTable) && strings.HasPrefix(ix.hashTable[i].Hash, prefix); i++ {
		out = append(out, ix.hashTable[i].VideoID)
	}
	return out
}

// KnownVideos reports how many distinct video ids the index covers.
func (ix *Indexes) KnownVideos() int {
	return len(ix.hashTable)
}
