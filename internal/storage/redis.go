package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix = "scrapper:save:"
	redisIndexKey  = "scrapper:saves"
)

// RedisStore keeps each save under scrapper:save:<slot> and indexes slots in a sorted set scored
// by update time.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func OpenRedis(ctx context.Context, addr string) (*RedisStore, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("storage: redis mode needs an address")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, now: time.Now}, nil
}

func (s *RedisStore) Load(ctx context.Context, slot string) ([]byte, error) {
	slot, err := CleanSlot(slot)
	if err != nil {
		return nil, err
	}
	doc, err := s.client.Get(ctx, redisKeyPrefix+slot).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load save %s: %w", slot, err)
	}
	return doc, nil
}

func (s *RedisStore) Save(ctx context.Context, slot string, doc []byte) error {
	slot, err := CleanSlot(slot)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKeyPrefix+slot, doc, 0)
		pipe.ZAdd(ctx, redisIndexKey, &redis.Z{Score: float64(s.now().Unix()), Member: slot})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]SlotInfo, error) {
	entries, err := s.client.ZRangeWithScores(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	out := make([]SlotInfo, 0, len(entries))
	for _, z := range entries {
		slot, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, SlotInfo{Slot: slot, UpdatedAt: time.Unix(int64(z.Score), 0).UTC()})
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
