// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dkoya/spade3/internal/models"
)

// Rdb is the global Redis client. Connect it once at application startup;
// the shared game store and the result queue both ride on it.
var Rdb *redis.Client

// DefaultQueueName is the Redis list (queue) name for finished-game
// records consumed by downstream tooling.
var DefaultQueueName = "spade3_results"

// GameResultRecord is the audit entry pushed when a game ends.
type GameResultRecord struct {
	GameID      uuid.UUID                     `json:"game_id"`
	PlayerCount int                           `json:"player_count"`
	Winner      models.TeamID                 `json:"winner"`
	Scores      map[models.TeamID]int         `json:"scores"`
	Rounds      map[int]models.RoundSummary   `json:"rounds"`
	Timestamp   int64                         `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client with environment
// variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishGameResult serializes the record to JSON and pushes it onto the
// result queue. A quick network send; nothing else blocks on it.
func PublishGameResult(ctx context.Context, record GameResultRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis client is not connected")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameResultRecord: %w", err)
	}

	queueName := getEnv("RESULT_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
