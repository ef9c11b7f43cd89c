package keeper

import (
	"context"
	"encoding/binary"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/jito-foundation/steward/steward"
)

// RawHistoryFetcher is the minimal RPC-shaped collaborator CachedHistorySource
// wraps: fetch one validator's history and the cluster-wide history,
// however the caller chooses to represent them over the wire.
type RawHistoryFetcher interface {
	FetchValidatorHistory(ctx context.Context, index int) (steward.ValidatorHistory, []byte, error)
	FetchAutoAddCandidates(ctx context.Context) (map[steward.PubKey]steward.ValidatorHistory, error)
}

// CachedHistorySource wraps a RawHistoryFetcher with a fixed-size
// in-memory cache that records, per validator index, the most recent
// fetcher-supplied freshness tag (typically the account's last-write
// slot). Entries are keyed by validator index alone. The cache does not
// avoid refetches: every HistoryFor call goes to the fetcher.
type CachedHistorySource struct {
	fetcher RawHistoryFetcher
	cache   *fastcache.Cache
}

// NewCachedHistorySource returns a CachedHistorySource backed by an
// maxBytes-sized fastcache instance.
func NewCachedHistorySource(fetcher RawHistoryFetcher, maxBytes int) *CachedHistorySource {
	return &CachedHistorySource{
		fetcher: fetcher,
		cache:   fastcache.New(maxBytes),
	}
}

func cacheKey(index int) []byte {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, uint64(index))
	return key
}

// HistoryFor implements ValidatorHistorySource. It always calls the
// fetcher, then stores the returned freshness tag under index (readable
// via LastTag). The decoded ValidatorHistory itself is not cached (it is
// an interface and not a cheap flat byte encoding).
func (c *CachedHistorySource) HistoryFor(ctx context.Context, index int) (steward.ValidatorHistory, error) {
	vh, tag, err := c.fetcher.FetchValidatorHistory(ctx, index)
	if err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey(index), tag)
	return vh, nil
}

// AutoAddCandidates implements ValidatorHistorySource by delegating
// directly; candidate discovery scans the whole cluster vote-account set
// and isn't a good fit for per-index caching.
func (c *CachedHistorySource) AutoAddCandidates(ctx context.Context) (map[steward.PubKey]steward.ValidatorHistory, error) {
	return c.fetcher.FetchAutoAddCandidates(ctx)
}

// LastTag returns the freshness tag most recently observed for index, or
// nil if none has been cached yet. Exposed for tests and operator
// diagnostics.
func (c *CachedHistorySource) LastTag(index int) []byte {
	return c.cache.Get(nil, cacheKey(index))
}
