package translate

import (
	"context"
	"fmt"
	"os"

	"mojwgsl/internal/cache"
)

// Cached wraps a Translator with the on-disk cache. Only successful
// translations are stored; failures always reach the compiler again.
type Cached struct {
	Next  Translator
	Cache *cache.DiskCache
	// ID distinguishes translators sharing one cache directory.
	ID string
}

func (c *Cached) Translate(ctx context.Context, src string, stage Stage) (string, error) {
	if c.Cache == nil {
		return c.Next.Translate(ctx, src, stage)
	}
	key := cache.KeyFor(c.ID, stage.Short(), src)

	var hit cache.Payload
	ok, err := c.Cache.Get(key, &hit)
	if err != nil {
		// битая запись - просто пересобираем
		fmt.Fprintf(os.Stderr, "cache: %v\n", err)
	}
	if ok {
		return hit.Output, nil
	}

	out, err := c.Next.Translate(ctx, src, stage)
	if err != nil {
		return "", err
	}
	if putErr := c.Cache.Put(key, &cache.Payload{
		Translator: c.ID,
		Stage:      stage.Short(),
		Output:     out,
	}); putErr != nil {
		fmt.Fprintf(os.Stderr, "cache: %v\n", putErr)
	}
	return out, nil
}
