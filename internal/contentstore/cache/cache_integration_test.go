//go:build integration

package cache_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/mock/gomock"

	"github.com/ApolloMedTech/shdms/internal/contentstore"
	"github.com/ApolloMedTech/shdms/internal/contentstore/cache"
	"github.com/ApolloMedTech/shdms/internal/contentstore/mocks"
	"github.com/ApolloMedTech/shdms/internal/domain"
)

type RedisCacheSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
	s.Require().NoError(s.client.Ping(ctx).Err())
}

func (s *RedisCacheSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *RedisCacheSuite) TestPublishPrimesCache() {
	ctx := context.Background()
	backing := contentstore.NewMemory()
	store := cache.New(backing, s.client, 0, zerolog.Nop())

	id, err := store.Publish(ctx, []byte("report"))
	s.Require().NoError(err)

	got, err := store.Fetch(ctx, id)
	s.Require().NoError(err)
	s.Equal([]byte("report"), got)
	s.Require().NoError(store.Health(ctx))
}

func (s *RedisCacheSuite) TestFetchServedFromCache() {
	ctx := context.Background()
	ctrl := gomock.NewController(s.T())
	backing := mocks.NewMockStore(ctrl)
	store := cache.New(backing, s.client, 0, zerolog.Nop())

	payload := []byte("cached report")
	id, err := contentstore.Identify(payload)
	s.Require().NoError(err)

	backing.EXPECT().Fetch(gomock.Any(), id).Return(payload, nil).Times(1)

	for i := 0; i < 3; i++ {
		got, err := store.Fetch(ctx, id)
		s.Require().NoError(err)
		s.Equal(payload, got)
	}
}

func (s *RedisCacheSuite) TestFetchMissPropagatesNotFound() {
	ctx := context.Background()
	store := cache.New(contentstore.NewMemory(), s.client, 0, zerolog.Nop())
	id, err := contentstore.Identify([]byte("absent"))
	s.Require().NoError(err)

	_, err = store.Fetch(ctx, id)
	s.ErrorIs(err, domain.ErrNotFound)
}
