package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"bulkdozer/core/cache"
	"bulkdozer/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultChunkSize is the largest id batch sent in one list call.
	DefaultChunkSize = 500
	// DefaultMaxEntrySize is the largest encoded entity written to the cache.
	DefaultMaxEntrySize = 100000
	// DefaultTTL is how long cached entities stay valid.
	DefaultTTL = 21600 * time.Second
)

// Client wraps a Service with pagination, id chunking, a swappable
// entity cache and retries. One Client serves one operation; its list
// memo and cache generation are scoped to that operation.
type Client struct {
	service      Service
	cache        cache.Cache
	generation   int64
	ttl          time.Duration
	maxEntrySize int
	chunkSize    int
	retry        RetryPolicy
	logger       *zap.Logger

	mu     sync.Mutex
	epoch  int
	lists  map[string]listMemo
	flight singleflight.Group
}

// listMemo holds the encoded items of one List call and the cache epoch
// they were written through to.
type listMemo struct {
	epoch int
	items [][]byte
}

// Option configures a Client.
type Option func(*Client)

// WithGeneration sets the session generation embedded in cache keys.
func WithGeneration(g int64) Option { return func(c *Client) { c.generation = g } }

// WithCache sets the initial cache.
func WithCache(cc cache.Cache) Option { return func(c *Client) { c.cache = cc } }

// WithTTL sets the cache entry lifetime.
func WithTTL(d time.Duration) Option { return func(c *Client) { c.ttl = d } }

// WithMaxEntrySize sets the size ceiling for cached entities.
func WithMaxEntrySize(n int) Option { return func(c *Client) { c.maxEntrySize = n } }

// WithChunkSize sets the id batch size used by ChunkFetch.
func WithChunkSize(n int) Option { return func(c *Client) { c.chunkSize = n } }

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(p RetryPolicy) Option { return func(c *Client) { c.retry = p } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// NewClient creates a client over svc.
func NewClient(svc Service, opts ...Option) *Client {
	c := &Client{
		service:      svc,
		cache:        cache.NewMemory(),
		ttl:          DefaultTTL,
		maxEntrySize: DefaultMaxEntrySize,
		chunkSize:    DefaultChunkSize,
		retry:        DefaultRetryPolicy(),
		logger:       zap.NewNop(),
		lists:        make(map[string]listMemo),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.chunkSize <= 0 {
		c.chunkSize = DefaultChunkSize
	}
	if c.maxEntrySize <= 0 {
		c.maxEntrySize = DefaultMaxEntrySize
	}
	return c
}

// SetCache swaps the cache used by subsequent calls.
func (c *Client) SetCache(cc cache.Cache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = cc
	c.epoch++
}

// Generation returns the session generation.
func (c *Client) Generation() int64 { return c.generation }

// List fetches every page of typ matching opts. When opts carries an "ids"
// filter, continuation requests send only the page token; otherwise the
// filters are repeated on every page. Results are memoized per options and
// every call returns fresh copies, so callers may mutate them.
func (c *Client) List(ctx context.Context, typ, listField string, opts Options) ([]Entity, error) {
	memoKey := typ + opts.key()

	c.mu.Lock()
	memo, ok := c.lists[memoKey]
	epoch := c.epoch
	c.mu.Unlock()
	if ok {
		return c.replay(ctx, typ, memoKey, memo, epoch)
	}

	_, byIDs := opts["ids"]
	params := opts.clone()

	var items []Entity
	for {
		page, err := withRetry(ctx, c.retry, c.logger, "list "+typ, func() (Page, error) {
			return c.service.List(ctx, typ, listField, params)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", typ, err)
		}
		if len(page.Items) == 0 {
			break
		}
		items = append(items, page.Items...)
		if page.NextPageToken == "" {
			break
		}

		if byIDs {
			params = Options{"pageToken": page.NextPageToken}
		} else {
			params = opts.clone()
			params["pageToken"] = page.NextPageToken
		}
	}

	encoded := make([][]byte, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", typ, err)
		}
		encoded[i] = b
		if id := ID(item); id != "" {
			c.put(ctx, c.key(typ, id), b)
		}
	}

	c.mu.Lock()
	c.lists[memoKey] = listMemo{epoch: epoch, items: encoded}
	c.mu.Unlock()

	return items, nil
}

// replay decodes a memoized listing. When the cache was swapped since the
// listing was stored, the items are written through to the new cache.
func (c *Client) replay(ctx context.Context, typ, memoKey string, memo listMemo, epoch int) ([]Entity, error) {
	items := make([]Entity, len(memo.items))
	for i, b := range memo.items {
		item, err := decode(b)
		if err != nil {
			return nil, err
		}
		items[i] = item
		if memo.epoch != epoch {
			if id := ID(item); id != "" {
				c.put(ctx, c.key(typ, id), b)
			}
		}
	}
	if memo.epoch != epoch {
		memo.epoch = epoch
		c.mu.Lock()
		c.lists[memoKey] = memo
		c.mu.Unlock()
	}
	return items, nil
}

// Get returns the entity typ/id, or nil for an empty id. Every call returns
// a fresh copy, so callers may mutate the result.
func (c *Client) Get(ctx context.Context, typ string, id any) (Entity, error) {
	idStr := utils.ToString(id)
	if idStr == "" {
		return nil, nil
	}
	key := c.key(typ, idStr)

	if b, ok := c.lookup(ctx, key); ok {
		return decode(b)
	}

	res, err, _ := c.flight.Do(key, func() (any, error) {
		if b, ok := c.lookup(ctx, key); ok {
			return b, nil
		}
		obj, err := withRetry(ctx, c.retry, c.logger, "get "+typ, func() (Entity, error) {
			return c.service.Get(ctx, typ, idStr)
		})
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, typ, idStr)
		}
		b, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to encode entity: %w", err)
		}
		c.put(ctx, key, b)
		return b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", typ, idStr, err)
	}
	return decode(res.([]byte))
}

// Update inserts obj when it has no id and updates it otherwise.
// The stored result is written through to the cache.
func (c *Client) Update(ctx context.Context, typ string, obj Entity) (Entity, error) {
	op, call := "update", c.service.Update
	if !utils.IsTruthy(obj["id"]) {
		op, call = "insert", c.service.Insert
	}

	res, err := withRetry(ctx, c.retry, c.logger, op+" "+typ, func() (Entity, error) {
		return call(ctx, typ, obj)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", op, typ, err)
	}

	if id := ID(res); id != "" {
		if b, err := json.Marshal(res); err == nil {
			c.put(ctx, c.key(typ, id), b)
		}
	}
	return res, nil
}

// ChunkFetch lists typ by id in batches of the configured chunk size.
func (c *Client) ChunkFetch(ctx context.Context, typ, listField string, ids []string) ([]Entity, error) {
	var out []Entity
	for start := 0; start < len(ids); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := append([]string(nil), ids[start:end]...)
		items, err := c.List(ctx, typ, listField, Options{"ids": chunk})
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// AssociateCreativeToCampaign links a creative to a campaign.
func (c *Client) AssociateCreativeToCampaign(ctx context.Context, campaignID, creativeID string) error {
	typ := "Campaigns/" + campaignID + "/CampaignCreativeAssociations"
	_, err := withRetry(ctx, c.retry, c.logger, "insert "+typ, func() (Entity, error) {
		return c.service.Insert(ctx, typ, Entity{"creativeId": creativeID})
	})
	if err != nil {
		return fmt.Errorf("failed to associate creative %s to campaign %s: %w", creativeID, campaignID, err)
	}
	return nil
}

// GetSize lists the sizes matching width and height.
func (c *Client) GetSize(ctx context.Context, width, height int) ([]Entity, error) {
	return c.List(ctx, "Sizes", "sizes", Options{"height": height, "width": width})
}

func (c *Client) key(typ, id string) string {
	return cache.Key(typ, id, strconv.FormatInt(c.generation, 10))
}

func (c *Client) currentCache() cache.Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache
}

func (c *Client) lookup(ctx context.Context, key string) ([]byte, bool) {
	b, ok, err := c.currentCache().Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return b, ok
}

func (c *Client) put(ctx context.Context, key string, b []byte) {
	if len(b) >= c.maxEntrySize {
		return
	}
	if err := c.currentCache().Put(ctx, key, b, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
