package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/m-curtis/altmeta/internal/dataset"
)

// mirror collects per-table CSV rows for a test dataset. Unset tables
// get header-only files.
type mirror struct {
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

func (m mirror) store(t *testing.T) *dataset.Store {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"titles.csv":              "videoID,title,original,userID,timeSubmitted,UUID,hashedVideoID\n" + m.titles,
		"titleVotes.csv":          "UUID,votes,locked,shadowHidden,verification,downvotes,removed\n" + m.titleVotes,
		"thumbnails.csv":          "videoID,original,userID,timeSubmitted,UUID,hashedVideoID\n" + m.thumbnails,
		"thumbnailVotes.csv":      "UUID,votes,locked,shadowHidden,downvotes,removed\n" + m.thumbnailVotes,
		"thumbnailTimestamps.csv": "UUID,timestamp\n" + m.thumbnailTimestamps,
		"userNames.csv":           "userID,userName,locked\n" + m.usernames,
		"vipUsers.csv":            "userID\n" + m.vipUsers,
	}
	if m.warnings != "" {
		files["warnings.csv"] = "userID,issueTime,issuerUserID,enabled,reason,type\n" + m.warnings
	}
	if m.segments != "" {
		files["sponsorTimes.csv"] = "videoID,startTime,endTime,votes,category,actionType,videoDuration,hidden,shadowHidden,timeSubmitted\n" + m.segments
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	s := dataset.NewStore(zerolog.Nop())
	if _, err := s.Reload(dir); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return s
}

// fixedRandom returns the same fraction for every key.
type fixedRandom struct{ r float64 }

func (f fixedRandom) Fraction(string) float64 { return f.r }
