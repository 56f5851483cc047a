package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// fixture collects per-table CSV bodies for one test mirror. Tables
// left unset get a header-only file so load sees every required table.
type fixture struct {
	titles              string
	titleVotes          string
	thumbnails          string
	thumbnailVotes      string
	thumbnailTimestamps string
	usernames           string
	vipUsers            string
	warnings            string
	segments            string
}

const (
	headerTitles              = "videoID,title,original,userID,timeSubmitted,UUID,hashedVideoID\n"
	headerTitleVotes          = "UUID,votes,locked,shadowHidden,verification,downvotes,removed\n"
	headerThumbnails          = "videoID,original,userID,timeSubmitted,UUID,hashedVideoID\n"
	headerThumbnailVotes      = "UUID,votes,locked,shadowHidden,downvotes,removed\n"
	headerThumbnailTimestamps = "UUID,timestamp\n"
	headerUsernames           = "userID,userName,locked\n"
	headerVIPUsers            = "userID\n"
	headerWarnings            = "userID,issueTime,issuerUserID,enabled,reason,type\n"
	headerSegments            = "videoID,startTime,endTime,votes,category,actionType,videoDuration,hidden,shadowHidden,timeSubmitted\n"
)

func (f fixture) write(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		fileTitles:              headerTitles + f.titles,
		fileTitleVotes:          headerTitleVotes + f.titleVotes,
		fileThumbnails:          headerThumbnails + f.thumbnails,
		fileThumbnailVotes:      headerThumbnailVotes + f.thumbnailVotes,
		fileThumbnailTimestamps: headerThumbnailTimestamps + f.thumbnailTimestamps,
		fileUsernames:           headerUsernames + f.usernames,
		fileVIPUsers:            headerVIPUsers + f.vipUsers,
	}
	if f.warnings != "" {
		files[fileWarnings] = headerWarnings + f.warnings
	}
	if f.segments != "" {
		files[fileSegments] = headerSegments + f.segments
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

func loadFixture(t *testing.T, f fixture) (*Dataset, *ReloadStats) {
	t.Helper()
	d, stats, err := load(f.write(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return d, stats
}
