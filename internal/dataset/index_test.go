package dataset

import (
	"strings"
	"testing"

	"github.com/m-curtis/altmeta/pkg/hash"
)

func TestIndexByUUID(t *testing.T) {
	d, _ := loadFixture(t, fixture{
		titles:     "vid1,Some title,0,user1,100,t1,\n",
		thumbnails: "vid1,1,user2,200,m1,\n",
	})
	ix := buildIndexes(d)

	h, ok := ix.ByUUID["t1"]
	if !ok || h.Kind != KindTitle || d.Titles[h.Index].UUID != "t1" {
		t.Errorf("title handle = %+v ok=%v", h, ok)
	}
	h, ok = ix.ByUUID["m1"]
	if !ok || h.Kind != KindThumbnail || d.Thumbnails[h.Index].UUID != "m1" {
		t.Errorf("thumbnail handle = %+v ok=%v", h, ok)
	}
	if _, ok = ix.ByUUID["nope"]; ok {
		t.Error("unknown uuid resolved to a handle")
	}
}

func TestIndexByVideo(t *testing.T) {
	d, _ := loadFixture(t, fixture{
		titles: "vid1,A,0,user1,100,t1,\n" +
			"vid1,B,0,user1,200,t2,\n" +
			"vid2,C,0,user1,300,t3,\n",
	})
	ix := buildIndexes(d)

	if got := ix.TitlesByVideo["vid1"]; len(got) != 2 {
		t.Errorf("vid1 has %d titles indexed, want 2", len(got))
	}
	if got := ix.TitlesByVideo["vid2"]; len(got) != 1 {
		t.Errorf("vid2 has %d titles indexed, want 1", len(got))
	}
	if got := ix.TitlesByVideo["vid3"]; got != nil {
		t.Errorf("vid3 should have no index entry, got %v", got)
	}
}

func TestIndexUserAggregates(t *testing.T) {
	d, _ := loadFixture(t, fixture{
		titles: "vid1,Visible,0,user1,100,t1,\n" +
			"vid1,Hidden,0,user1,200,t2,\n",
		titleVotes: "t2,0,0,1,0,0,0\n",
		thumbnails: "vid1,0,user1,300,m1,\n",
		usernames:  "user2,Bob,0\n",
		warnings:   "user3,500,mod1,1,conduct,0\n",
	})
	ix := buildIndexes(d)

	u1 := ix.Users["user1"]
	if u1 == nil {
		t.Fatal("user1 has no aggregate")
	}
	if len(u1.Titles) != 2 || u1.VisibleTitles != 1 {
		t.Errorf("user1 titles = %d visible = %d, want 2 and 1", len(u1.Titles), u1.VisibleTitles)
	}
	if len(u1.Thumbnails) != 1 {
		t.Errorf("user1 thumbnails = %d, want 1", len(u1.Thumbnails))
	}

	// Users known only from usernames or warnings still get aggregates.
	if ix.Users["user2"] == nil {
		t.Error("named user without submissions has no aggregate")
	}
	u3 := ix.Users["user3"]
	if u3 == nil || len(u3.Warnings) != 1 {
		t.Errorf("warned user aggregate = %+v, want 1 warning", u3)
	}
}

func TestVideosByHashPrefix(t *testing.T) {
	d, _ := loadFixture(t, fixture{
		titles: "vid1,A,0,user1,100,t1,\n" +
			"vid2,B,0,user1,200,t2,\n",
	})
	ix := buildIndexes(d)

	full := hash.VideoHash("vid1")
	for _, n := range []int{1, 4, 16, 64} {
		got := ix.VideosByHashPrefix(full[:n])
		found := false
		for _, v := range got {
			if v == "vid1" {
				found = true
			}
		}
		if !found {
			t.Errorf("prefix of length %d did not match vid1", n)
		}
	}

	t.Run("case insensitive", func(t *testing.T) {
		upper := ix.VideosByHashPrefix(full[:8])
		if len(ix.VideosByHashPrefix(strings.ToUpper(full[:8]))) != len(upper) {
			t.Error("uppercase prefix returned different results")
		}
	})

	t.Run("no match", func(t *testing.T) {
		// A 65-char prefix is longer than any digest, so nothing matches.
		if got := ix.VideosByHashPrefix(full + "0"); got != nil {
			t.Errorf("expected no match, got %v", got)
		}
	})
}
