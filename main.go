// main.go
//
// Entry point for the capsule puzzle HTTP server.
// Startup order:
//   - .env (optional) and LOG_LEVEL
//   - preset levels (embedded, or LEVELS_DIR)
//   - sqlite at DB_PATH plus embedded migrations
//   - chi server on PORT

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/drmario/assets"
	"github.com/robalobadob/drmario/internal/database"
	"github.com/robalobadob/drmario/internal/httpserver"
	"github.com/robalobadob/drmario/internal/levels"
	"github.com/robalobadob/drmario/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := levels.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load levels")
	}
	log.Info().Strs("levels", levels.Names()).Msg("levels loaded")

	db, err := database.Open(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting drmario server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
