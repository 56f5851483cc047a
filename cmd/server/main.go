package main

import (
	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/config"
	"github.com/m-curtis/altmeta/internal/dataset"
	"github.com/m-curtis/altmeta/internal/handler"
	"github.com/m-curtis/altmeta/internal/middleware"
	"github.com/m-curtis/altmeta/internal/router"
	"github.com/m-curtis/altmeta/internal/service"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "altmeta")
	log := middleware.Logger

	store := dataset.NewStore(log)
	handler.InitMetrics(store)

	if cfg.ReloadOnStart {
		if _, err := store.Reload(cfg.MirrorDir); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.MirrorDir).Msg("initial dataset load failed")
		}
	} else {
		log.Warn().Msg("starting without a dataset; trigger /api/reload to load one")
	}

	rand := service.NewHashedRandom()
	querySvc := service.NewQueryService(store, rand, cfg.MaxPageSize, handler.Version)
	brandingSvc := service.NewBrandingService(store, rand)

	app := fiber.New(fiber.Config{
		AppName:      "altmeta API",
		ServerHeader: "altmeta",
		JSONEncoder:  gojson.Marshal,
		JSONDecoder:  gojson.Unmarshal,
	})

	router.Setup(app, &router.Handlers{
		Title:     handler.NewTitleHandler(querySvc),
		Thumbnail: handler.NewThumbnailHandler(querySvc),
		Video:     handler.NewVideoHandler(querySvc),
		User:      handler.NewUserHandler(querySvc),
		Status:    handler.NewStatusHandler(querySvc),
		Reload:    handler.NewReloadHandler(store, cfg.MirrorDir, cfg.AuthSecret),
		Health:    handler.NewHealthHandler(store),
		Compat:    handler.NewCompatHandler(brandingSvc),
	}, router.Options{
		CORSOrigins:   cfg.CORSOrigins,
		CompatEnabled: cfg.CompatEnabled,
	})

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Bool("compat", cfg.CompatEnabled).
		Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
