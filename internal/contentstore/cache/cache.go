// Package cache adds a Redis read-through layer in front of a content store.
// Content addressing makes entries immutable, so they are written without a
// TTL unless one is configured to bound memory.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ApolloMedTech/shdms/internal/contentstore"
)

const keyPrefix = "shdms:content:"

// Store decorates a contentstore.Store with a Redis cache.
type Store struct {
	next   contentstore.Store
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

// New wraps next. A zero ttl keeps entries until evicted by Redis.
func New(next contentstore.Store, client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "content_cache").Logger(),
	}
}

var _ contentstore.Store = (*Store)(nil)

func key(id string) string { return keyPrefix + id }

// Publish forwards to the backing store and primes the cache.
func (s *Store) Publish(ctx context.Context, data []byte) (string, error) {
	id, err := s.next.Publish(ctx, data)
	if err != nil {
		return "", err
	}
	s.put(ctx, id, data)
	return id, nil
}

// Fetch serves from Redis when possible. Cache failures fall through to the
// backing store; they never fail the read.
func (s *Store) Fetch(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		if verr := contentstore.Verify(id, data); verr == nil {
			return data, nil
		}
		s.log.Warn().Str("cid", id).Msg("cached content failed verification, refetching")
	case errors.Is(err, redis.Nil):
	default:
		s.log.Warn().Err(err).Str("cid", id).Msg("content cache read failed")
	}

	data, err = s.next.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(ctx, id, data)
	return data, nil
}

func (s *Store) put(ctx context.Context, id string, data []byte) {
	if err := s.client.Set(ctx, key(id), data, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("cid", id).Msg("content cache write failed")
	}
}

// Health pings Redis.
func (s *Store) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
