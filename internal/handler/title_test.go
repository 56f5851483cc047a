package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/m-curtis/altmeta/internal/dataset"
	"github.com/m-curtis/altmeta/internal/service"
)

func titleListApp() *fiber.App {
	app := fiber.New()
	svc := service.NewQueryService(dataset.NewStore(zerolog.Nop()), service.NewHashedRandom(), 100, "test")
	h := NewTitleHandler(svc)
	app.Get("/api/titles", h.List)
	return app
}

func TestListFilterValidation(t *testing.T) {
	app := titleListApp()

	// Malformed filter values must be rejected, never coerced to the
	// zero value.
	bad := []string{
		"/api/titles?minScore=abc",
		"/api/titles?minScore=1.5",
		"/api/titles?original=maybe",
		"/api/titles?locked=2",
		"/api/titles?visible=nah",
		"/api/titles?sort=oldest",
	}
	for _, target := range bad {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, resp.StatusCode)
		}
	}

	// Well-formed values pass validation and reach the service, which
	// has no snapshot yet.
	good := []string{
		"/api/titles?minScore=-2",
		"/api/titles?original=true&locked=0&visible=1",
		"/api/titles?sort=score",
	}
	for _, target := range good {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", target, resp.StatusCode)
		}
	}
}
