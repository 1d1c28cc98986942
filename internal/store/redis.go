package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dkoya/spade3/internal/models"
)

// maxTxRetries bounds the optimistic retry loop. Contention on a single
// game is at most one actor per seat, so collisions resolve fast.
const maxTxRetries = 16

// RedisStore keeps each game record as one JSON value and serializes
// writers with WATCH-based compare-and-retry transactions, the store's
// native optimistic primitive. There is no engine-managed lock. Every commit is
// published on a per-game channel that feeds Subscribe.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func gameKey(id uuid.UUID) string {
	return "spade3:game:" + id.String()
}

func gameChannel(id uuid.UUID) string {
	return "spade3:game:" + id.String() + ":changes"
}

func (s *RedisStore) CreateGame(ctx context.Context, gs *models.GameState) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", gs.ID, err)
	}
	ok, err := s.client.SetNX(ctx, gameKey(gs.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("create game %s: %w", gs.ID, err)
	}
	if !ok {
		return fmt.Errorf("game %s already exists", gs.ID)
	}
	return nil
}

func (s *RedisStore) ReadGame(ctx context.Context, id uuid.UUID) (*models.GameState, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read game %s: %w", id, err)
	}
	var gs models.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &gs, nil
}

// Transact runs fn against the freshest record under WATCH. When a
// concurrent commit invalidates the watched key the whole callback is
// re-evaluated against the post-commit state, so stale intent is never
// replayed: fn either finds its precondition still valid or aborts with
// ErrNoChange.
func (s *RedisStore) Transact(ctx context.Context, id uuid.UUID, fn TxnFunc) error {
	key := gameKey(id)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var gs models.GameState
		if err := json.Unmarshal(data, &gs); err != nil {
			return fmt.Errorf("decode game %s: %w", id, err)
		}

		if err := fn(&gs); err != nil {
			return err
		}

		out, err := json.Marshal(&gs)
		if err != nil {
			return fmt.Errorf("marshal game %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			pipe.Publish(ctx, gameChannel(id), out)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == redis.TxFailedErr {
			continue // lost the race, re-read and re-evaluate
		}
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	return fmt.Errorf("transaction on game %s: too much contention after %d attempts", id, maxTxRetries)
}

func (s *RedisStore) Subscribe(ctx context.Context, id uuid.UUID, onChange func(gs models.GameState)) (func(), error) {
	if _, err := s.ReadGame(ctx, id); err != nil {
		return nil, err
	}
	sub := s.client.Subscribe(ctx, gameChannel(id))

	go func() {
		for msg := range sub.Channel() {
			var gs models.GameState
			if err := json.Unmarshal([]byte(msg.Payload), &gs); err != nil {
				continue
			}
			onChange(gs)
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return cancel, nil
}
