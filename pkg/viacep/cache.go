package viacep

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// cachedClient memoizes lookups per CEP. Successful answers and not-found
// answers are cached; transport failures are not.
type cachedClient struct {
	next  Client
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	addr     *Address
	notFound bool
}

// NewCachedClient wraps next with an in-memory per-CEP cache. Concurrent
// lookups of the same CEP share a single upstream call.
func NewCachedClient(next Client) Client {
	return &cachedClient{
		next:    next,
		entries: make(map[string]cacheEntry),
	}
}

func (c *cachedClient) Lookup(ctx context.Context, cep string) (*Address, error) {
	if e, ok := c.get(cep); ok {
		zap.L().Debug("viacep cache hit", zap.String("cep", cep), zap.Bool("not_found", e.notFound))
		return e.result()
	}

	v, err, _ := c.group.Do(cep, func() (any, error) {
		if e, ok := c.get(cep); ok {
			return e, nil
		}
		addr, err := c.next.Lookup(ctx, cep)
		switch {
		case err == nil:
			e := cacheEntry{addr: addr}
			c.put(cep, e)
			return e, nil
		case errors.Is(err, ErrNotFound):
			e := cacheEntry{notFound: true}
			c.put(cep, e)
			return e, nil
		default:
			return nil, err
		}
	})
	if err != nil {
		return nil, err
	}
	return v.(cacheEntry).result()
}

func (c *cachedClient) get(cep string) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cep]
	return e, ok
}

func (c *cachedClient) put(cep string, e cacheEntry) {
	c.mu.Lock()
	c.entries[cep] = e
	c.mu.Unlock()
}

func (e cacheEntry) result() (*Address, error) {
	if e.notFound {
		return nil, ErrNotFound
	}
	if e.addr == nil {
		return &Address{}, nil
	}
	addr := *e.addr
	return &addr, nil
}
