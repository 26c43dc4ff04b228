package content

import (
	"context"

	"github.com/rs/zerolog"
)

// PageCache persists fetched pages.
type PageCache interface {
	// GetPage returns the cached ayahs and true on a hit.
	GetPage(ctx context.Context, page int) ([]Ayah, bool, error)
	PutPage(ctx context.Context, page int, ayahs []Ayah) error
}

// CachedSource serves pages from a cache and falls back to an upstream
// source on a miss. Cache failures are logged and never fail a fetch.
type CachedSource struct {
	upstream Source
	cache    PageCache
	log      zerolog.Logger
}

// NewCachedSource wraps upstream with cache.
func NewCachedSource(upstream Source, cache PageCache, log zerolog.Logger) *CachedSource {
	return &CachedSource{upstream: upstream, cache: cache, log: log}
}

func (c *CachedSource) FetchPage(ctx context.Context, page int) ([]Ayah, error) {
	ayahs, ok, err := c.cache.GetPage(ctx, page)
	if err != nil {
		c.log.Warn().Err(err).Int("page", page).Msg("page cache read failed")
	}
	if ok && len(ayahs) > 0 {
		return ayahs, nil
	}

	ayahs, err = c.upstream.FetchPage(ctx, page)
	if err != nil {
		return nil, err
	}

	if err := c.cache.PutPage(ctx, page, ayahs); err != nil {
		c.log.Warn().Err(err).Int("page", page).Msg("page cache write failed")
	}
	return ayahs, nil
}
