// Package contentstore publishes and fetches documents by content identifier.
package contentstore

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

// Store is a content-addressed object store.
//
// Publish is idempotent: identical bytes always yield the identical
// identifier. Implementations do not retry; failures are reported as
// domain.ErrStoreUnavailable, domain.ErrStoreRejected or domain.ErrNotFound.
type Store interface {
	Publish(ctx context.Context, data []byte) (string, error)
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// rawPrefix addresses a single-block payload as CIDv1, raw codec, sha2-256.
// Kubo returns the same identifier for single-chunk files added with
// cid-version=1 and raw-leaves=true.
var rawPrefix = cid.Prefix{
	Version:  1,
	Codec:    cid.Raw,
	MhType:   multihash.SHA2_256,
	MhLength: -1,
}

// Identify computes the raw CIDv1 of data.
func Identify(data []byte) (string, error) {
	c, err := rawPrefix.Sum(data)
	if err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return c.String(), nil
}

// Verify checks data against id when id is a raw-codec identifier.
// Identifiers of chunked DAGs cannot be checked from the bytes alone and are
// accepted as is.
func Verify(id string, data []byte) error {
	c, err := cid.Decode(id)
	if err != nil {
		return fmt.Errorf("decode content identifier %q: %w", id, err)
	}
	if c.Type() != cid.Raw {
		return nil
	}
	sum, err := c.Prefix().Sum(data)
	if err != nil {
		return fmt.Errorf("hash content: %w", err)
	}
	if !sum.Equals(c) {
		return fmt.Errorf("content does not match %s: %w", id, domain.ErrStoreRejected)
	}
	return nil
}

// Valid reports whether id parses as a content identifier.
func Valid(id string) bool {
	_, err := cid.Decode(id)
	return err == nil
}
