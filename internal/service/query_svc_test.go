package service

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/m-curtis/altmeta/internal/dataset"
	"github.com/m-curtis/altmeta/internal/model"
	"github.com/m-curtis/altmeta/pkg/hash"
)

func newQuery(t *testing.T, m mirror) *QueryService {
	t.Helper()
	return NewQueryService(m.store(t), fixedRandom{0.5}, 50, "test")
}

func TestQueryNoSnapshot(t *testing.T) {
	svc := NewQueryService(dataset.NewStore(zerolog.Nop()), fixedRandom{0.5}, 50, "test")

	if _, err := svc.Video("vid1"); !errors.Is(err, dataset.ErrNoSnapshot) {
		t.Errorf("Video error = %v, want ErrNoSnapshot", err)
	}
	if _, err := svc.TitleByUUID("t1"); !errors.Is(err, dataset.ErrNoSnapshot) {
		t.Errorf("TitleByUUID error = %v, want ErrNoSnapshot", err)
	}
	// Status still answers so startup probes have data.
	if st := svc.Status(); st.Titles != 0 || st.ServerVersion != "test" {
		t.Errorf("Status = %+v", st)
	}
}

func TestQueryTitleByUUID(t *testing.T) {
	svc := newQuery(t, mirror{
		titles:     "vid1,Better title,0,user1,100,t1,\n",
		titleVotes: "t1,3,0,0,0,1,0\n",
		usernames:  "user1,Alice,0\n",
		vipUsers:   "user1\n",
	})

	got, err := svc.TitleByUUID("t1")
	if err != nil {
		t.Fatalf("TitleByUUID: %v", err)
	}
	if got.Title != "Better title" || got.Score != 2 || !got.VIP {
		t.Errorf("response = %+v", got)
	}
	if got.Username == nil || *got.Username != "Alice" {
		t.Errorf("username = %v, want Alice", got.Username)
	}

	if _, err := svc.TitleByUUID("missing"); !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("unknown uuid error = %v, want ErrNotFound", err)
	}
}

func TestQueryVideoIncludesRemoved(t *testing.T) {
	svc := newQuery(t, mirror{
		titles: "vid1,Kept,0,user1,100,t1,\n" +
			"vid1,Removed,0,user1,200,t2,\n",
		titleVotes: "t1,1,0,0,0,0,0\nt2,1,0,0,0,0,1\n",
	})

	got, err := svc.Video("vid1")
	if err != nil {
		t.Fatalf("Video: %v", err)
	}
	if len(got.Titles) != 2 {
		t.Fatalf("got %d titles, want 2 (audit view keeps removed)", len(got.Titles))
	}
	// Newest first.
	if got.Titles[0].UUID != "t2" || !got.Titles[0].Removed {
		t.Errorf("first title = %+v, want the removed newest", got.Titles[0])
	}
	if got.FractionUnmarked != 1 || got.Duration != nil {
		t.Errorf("video without segments: fraction=%v duration=%v", got.FractionUnmarked, got.Duration)
	}

	if _, err := svc.Video("unknown"); !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("unknown video error = %v, want ErrNotFound", err)
	}
}

func TestQueryVideoWithPlaybackInfo(t *testing.T) {
	svc := newQuery(t, mirror{
		titles:     "vid1,Some title,0,user1,100,t1,\n",
		titleVotes: "t1,1,0,0,0,0,0\n",
		segments:   "vid1,0,20,5,sponsor,skip,100,0,0,1000\n",
	})

	got, err := svc.Video("vid1")
	if err != nil {
		t.Fatalf("Video: %v", err)
	}
	if got.Duration == nil || *got.Duration != 100 {
		t.Errorf("duration = %v, want 100", got.Duration)
	}
	if got.FractionUnmarked != 0.8 {
		t.Errorf("fraction unmarked = %v, want 0.8", got.FractionUnmarked)
	}
	// fixedRandom 0.5 * 0.8 = 0.4 into the single uncut stretch
	// starting at 0.2.
	if math.Abs(got.RandomThumbnail-0.6) > 1e-9 {
		t.Errorf("random thumbnail = %v, want 0.6", got.RandomThumbnail)
	}
}

func TestQueryUserProfile(t *testing.T) {
	svc := newQuery(t, mirror{
		titles: "vid1,A,0,user1,100,t1,\n" +
			"vid2,B,0,user1,200,t2,\n",
		titleVotes: "t1,0,0,0,0,0,0\n" +
			"t2,0,0,0,0,0,1\n",
		thumbnails: "vid1,0,user1,300,m1,\n",
		usernames:  "user1,Alice,1\n",
		warnings: "user1,500,mod1,1,first,0\n" +
			"user1,900,mod1,1,latest,1\n" +
			"user1,700,mod1,0,revoked,0\n",
	})

	got, err := svc.User("user1")
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if got.TitleCount != 2 || got.ThumbnailCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", got.TitleCount, got.ThumbnailCount)
	}
	// t2 is removed, so only t1 remains publicly visible.
	if got.VisibleTitleCount != 1 || got.VisibleThumbnailCount != 1 {
		t.Errorf("visible counts = %d/%d, want 1/1", got.VisibleTitleCount, got.VisibleThumbnailCount)
	}
	if !got.UsernameLocked || got.Username == nil || *got.Username != "Alice" {
		t.Errorf("username = %v locked=%v", got.Username, got.UsernameLocked)
	}
	if got.WarningCount != 2 {
		t.Errorf("warning count = %d, want 2 active", got.WarningCount)
	}
	if got.WarningReason == nil || *got.WarningReason != "latest" {
		t.Errorf("warning reason = %v, want latest", got.WarningReason)
	}

	t.Run("unknown user echoes with zeros", func(t *testing.T) {
		got, err := svc.User("nobody")
		if err != nil {
			t.Fatalf("User: %v", err)
		}
		if got.UserID != "nobody" || got.TitleCount != 0 || got.Username != nil {
			t.Errorf("response = %+v", got)
		}
	})
}

func TestQueryTitlesByUserPagination(t *testing.T) {
	svc := newQuery(t, mirror{
		titles: "vid1,A,0,user1,100,t1,\n" +
			"vid1,B,0,user1,200,t2,\n" +
			"vid1,C,0,user1,300,t3,\n",
	})

	page1, err := svc.TitlesByUser("user1", 1, 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if page1.Total != 3 || len(page1.Items) != 2 {
		t.Fatalf("page 1 = %+v", page1)
	}
	if page1.Items[0].UUID != "t3" || page1.Items[1].UUID != "t2" {
		t.Errorf("page 1 order = %s, %s; want newest first", page1.Items[0].UUID, page1.Items[1].UUID)
	}

	page2, err := svc.TitlesByUser("user1", 2, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2.Items) != 1 || page2.Items[0].UUID != "t1" {
		t.Errorf("page 2 = %+v", page2.Items)
	}

	beyond, err := svc.TitlesByUser("user1", 5, 2)
	if err != nil {
		t.Fatalf("page 5: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.Total != 3 {
		t.Errorf("past-the-end page = %+v", beyond)
	}

	for _, bad := range [][2]int{{0, 2}, {1, 0}, {1, 51}} {
		if _, err := svc.TitlesByUser("user1", bad[0], bad[1]); !errors.Is(err, dataset.ErrInvalidParameter) {
			t.Errorf("page=%d size=%d error = %v, want ErrInvalidParameter", bad[0], bad[1], err)
		}
	}
}

func TestQuerySearchByHashPrefix(t *testing.T) {
	svc := newQuery(t, mirror{
		titles: "vid1,A,0,user1,100,t1,\n",
	})

	full := hash.VideoHash("vid1")
	for _, prefix := range []string{full[:1], full[:4], full[:12], full} {
		got, err := svc.SearchByHashPrefix(prefix)
		if err != nil {
			t.Fatalf("prefix %q: %v", prefix, err)
		}
		if len(got) != 1 || got[0] != "vid1" {
			t.Errorf("prefix %q matched %v, want [vid1]", prefix, got)
		}
	}

	t.Run("invalid prefix", func(t *testing.T) {
		for _, bad := range []string{"", "xyz", "12g4"} {
			if _, err := svc.SearchByHashPrefix(bad); !errors.Is(err, dataset.ErrInvalidParameter) {
				t.Errorf("prefix %q error = %v, want ErrInvalidParameter", bad, err)
			}
		}
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		// Pick a prefix that cannot collide with vid1's hash.
		probe := "0"
		if full[0] == '0' {
			probe = "1"
		}
		got, err := svc.SearchByHashPrefix(probe)
		if err != nil {
			t.Fatalf("probe: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("probe matched %v, want none", got)
		}
	})
}

func TestQueryListTitlesSortScore(t *testing.T) {
	svc := newQuery(t, mirror{
		titles: "vid1,Three up,0,user1,100,t1,\n" +
			"vid1,Locked,0,user2,200,t2,\n" +
			"vid1,One up,0,user3,300,t3,\n",
		titleVotes: "t1,3,0,0,0,0,0\n" +
			"t2,1,1,0,0,5,0\n" +
			"t3,1,0,0,0,0,0\n",
	})

	minScore := int32(0)
	got, err := svc.ListTitles(Filter{VideoID: "vid1", MinScore: &minScore, Sort: SortScore}, 1, 10)
	if err != nil {
		t.Fatalf("ListTitles: %v", err)
	}
	want := []string{"t2", "t1", "t3"}
	if len(got.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(got.Items), len(want))
	}
	for i, w := range want {
		if got.Items[i].UUID != w {
			t.Errorf("position %d = %s, want %s", i, got.Items[i].UUID, w)
		}
	}
	if got.Items[0].Score != model.LockedScore {
		t.Errorf("locked title score = %d, want LockedScore", got.Items[0].Score)
	}
}

func TestQueryListTitlesFilters(t *testing.T) {
	svc := newQuery(t, mirror{
		titles: "vid1,Custom,0,user1,100,t1,\n" +
			"vid1,Original,1,user1,200,t2,\n" +
			"vid1,Shadowed,0,user1,300,t3,\n",
		titleVotes: "t3,5,0,1,0,0,0\n",
	})

	t.Run("visible only", func(t *testing.T) {
		got, err := svc.ListTitles(Filter{VideoID: "vid1", VisibleOnly: true}, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		for _, it := range got.Items {
			if it.UUID == "t3" {
				t.Error("shadow-hidden title in visible-only listing")
			}
		}
		if got.Total != 2 {
			t.Errorf("total = %d, want 2", got.Total)
		}
	})

	t.Run("original only", func(t *testing.T) {
		orig := true
		got, err := svc.ListTitles(Filter{VideoID: "vid1", Original: &orig}, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if got.Total != 1 || got.Items[0].UUID != "t2" {
			t.Errorf("items = %+v", got.Items)
		}
	})

	t.Run("default order newest first", func(t *testing.T) {
		got, err := svc.ListTitles(Filter{VideoID: "vid1"}, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if got.Items[0].UUID != "t3" || got.Items[2].UUID != "t1" {
			t.Errorf("order = %v", []string{got.Items[0].UUID, got.Items[1].UUID, got.Items[2].UUID})
		}
	})
}

func TestQueryRandomSample(t *testing.T) {
	svc := newQuery(t, mirror{
		titles: "vid1,Visible,0,user1,100,t1,\n" +
			"vid1,Hidden,0,user1,200,t2,\n",
		titleVotes:          "t1,1,0,0,0,0,0\nt2,1,0,1,0,0,0\n",
		thumbnails:          "vid1,0,user2,300,m1,\n",
		thumbnailVotes:      "m1,1,0,0,0,0\n",
		thumbnailTimestamps: "m1,5.0\n",
	})

	// fixedRandom 0.5 over 2 visible entries picks index 1, the
	// thumbnail (titles sort before thumbnails in the pool).
	got, err := svc.RandomSampleForVideo("vid1")
	if err != nil {
		t.Fatalf("RandomSampleForVideo: %v", err)
	}
	if got.Kind != "thumbnail" || got.Thumbnail == nil || got.Thumbnail.UUID != "m1" {
		t.Errorf("sample = %+v, want thumbnail m1", got)
	}
	if got.Title != nil {
		t.Error("title set alongside a thumbnail sample")
	}

	t.Run("hidden entries never sampled", func(t *testing.T) {
		// Run across the whole fraction range; t2 must never appear.
		for _, r := range []float64{0, 0.25, 0.5, 0.75, 0.999} {
			s := NewQueryService(svc.store, fixedRandom{r}, 50, "test")
			got, err := s.RandomSampleForVideo("vid1")
			if err != nil {
				t.Fatal(err)
			}
			if got.Title != nil && got.Title.UUID == "t2" {
				t.Fatalf("fraction %v sampled the shadow-hidden title", r)
			}
		}
	})

	t.Run("unknown video", func(t *testing.T) {
		if _, err := svc.RandomSampleForVideo("nope"); !errors.Is(err, dataset.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestQueryStatusCounts(t *testing.T) {
	svc := newQuery(t, mirror{
		titles:     "vid1,A,0,user1,100,t1,\n",
		thumbnails: "vid1,1,user1,200,m1,\n",
		usernames:  "user1,Alice,0\n",
		vipUsers:   "user1\n",
		warnings:   "user1,500,mod1,1,conduct,0\n",
		segments:   "vid1,0,10,5,sponsor,skip,100,0,0,1000\n",
	})

	st := svc.Status()
	if st.Titles != 1 || st.Thumbnails != 1 || st.Usernames != 1 || st.VIPUsers != 1 || st.Warnings != 1 {
		t.Errorf("counts = %+v", st)
	}
	if st.VideoInfos != 1 || st.UncutSegments != 1 {
		t.Errorf("segment counts = %d/%d, want 1/1", st.VideoInfos, st.UncutSegments)
	}
	if st.LastUpdated == 0 || st.UpdatingNow {
		t.Errorf("vitals = %+v", st)
	}
}
