package contentstore

import (
	"bytes"
	"context"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

func TestMemory_PublishIsIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	first, err := store.Publish(ctx, []byte("report"))
	require.NoError(t, err)
	second, err := store.Publish(ctx, []byte("report"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Len())
	assert.True(t, strings.HasPrefix(first, "bafkrei"), "expected raw CIDv1, got %s", first)
}

func TestMemory_DistinctContentDistinctID(t *testing.T) {
	store := NewMemory()
	a, err := store.Publish(context.Background(), []byte("a"))
	require.NoError(t, err)
	b, err := store.Publish(context.Background(), []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestMemory_RoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	for _, size := range []int{0, 1, 1024, 512 * 1024} {
		payload := make([]byte, size)
		_, err := rand.Read(payload)
		require.NoError(t, err)

		id, err := store.Publish(ctx, payload)
		require.NoError(t, err)
		got, err := store.Fetch(ctx, id)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(payload, got), "size %d", size)
		require.NoError(t, Verify(id, got))
	}
}

func TestMemory_FetchMissing(t *testing.T) {
	id, err := Identify([]byte("never published"))
	require.NoError(t, err)

	_, err = NewMemory().Fetch(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().Publish(ctx, []byte("x"))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestVerify(t *testing.T) {
	id, err := Identify([]byte("original"))
	require.NoError(t, err)

	require.NoError(t, Verify(id, []byte("original")))
	assert.ErrorIs(t, Verify(id, []byte("tampered")), domain.ErrStoreRejected)
	assert.Error(t, Verify("not-a-cid", nil))
	assert.True(t, Valid(id))
	assert.False(t, Valid("not-a-cid"))
}
