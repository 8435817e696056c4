package book

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding position key -> compact move string.
const DefaultRedisKey = "maia:book"

// RedisSource loads a book from a Redis hash in the compact format.
type RedisSource struct {
	Client redis.UniversalClient
	Key    string
}

func NewRedisSource(addr, key string) *RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSource{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Key:    key,
	}
}

func (s *RedisSource) Load(ctx context.Context) (*Book, error) {
	raw, err := s.Client.HGetAll(ctx, s.Key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis book %q: %w", s.Key, err)
	}
	return fromCompact(raw)
}

// Store writes every entry of b to the hash, replacing existing fields.
func (s *RedisSource) Store(ctx context.Context, b *Book) error {
	if b.Len() == 0 {
		return nil
	}
	fields := make(map[string]any, b.Len())
	for key := range b.entries {
		fields[key] = b.FormatCompact(key)
	}
	if err := s.Client.HSet(ctx, s.Key, fields).Err(); err != nil {
		return fmt.Errorf("redis book %q: %w", s.Key, err)
	}
	return nil
}

func (s *RedisSource) Close() error {
	return s.Client.Close()
}
