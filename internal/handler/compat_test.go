package handler

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/m-curtis/altmeta/internal/dataset"
	"github.com/m-curtis/altmeta/internal/service"
)

// brandingApp loads a one-title mirror for vid1 and mounts the
// branding endpoint on a fresh app.
func brandingApp(t *testing.T) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"titles.csv": "videoID,title,original,userID,timeSubmitted,UUID,hashedVideoID\n" +
			"vid1,Some title,0,user1,100,t1,\n",
		"titleVotes.csv":          "UUID,votes,locked,shadowHidden,verification,downvotes,removed\nt1,1,0,0,0,0,0\n",
		"thumbnails.csv":          "videoID,original,userID,timeSubmitted,UUID,hashedVideoID\n",
		"thumbnailVotes.csv":      "UUID,votes,locked,shadowHidden,downvotes,removed\n",
		"thumbnailTimestamps.csv": "UUID,timestamp\n",
		"userNames.csv":           "userID,userName,locked\n",
		"vipUsers.csv":            "userID\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	store := dataset.NewStore(zerolog.Nop())
	if _, err := store.Reload(dir); err != nil {
		t.Fatalf("reload: %v", err)
	}

	app := fiber.New()
	h := NewCompatHandler(service.NewBrandingService(store, service.NewHashedRandom()))
	app.Get("/sbserver/api/branding", h.GetBranding)
	return app
}

func TestGetBrandingStatus(t *testing.T) {
	app := brandingApp(t)

	t.Run("known video", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/sbserver/api/branding?videoID=vid1", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("unknown video is 404 with payload", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/sbserver/api/branding?videoID=ghost", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "randomTime") {
			t.Errorf("body = %s, want branding payload", body)
		}
	})

	t.Run("other service is 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/sbserver/api/branding?videoID=vid1&service=PeerTube", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}
