// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/dkoya/spade3/internal/cache"
	"github.com/dkoya/spade3/internal/database"
	"github.com/dkoya/spade3/internal/handlers"
	"github.com/dkoya/spade3/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Postgres and Redis are optional for local play: results are simply
	// not recorded when the backends are absent.
	if os.Getenv("PG_HOST") != "" {
		database.ConnectDB()
	}
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, results will not be queued: %v", err)
	}

	mux := http.NewServeMux()
	srv := handlers.NewGameServer(logger)

	mux.Handle("/game/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateGameHandler(srv),
	)))
	mux.Handle("/game/state/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameStateHandler(srv),
	)))
	mux.Handle("/game/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
