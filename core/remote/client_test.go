package remote_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"bulkdozer/core/cache"
	"bulkdozer/core/remote"
	"bulkdozer/core/remote/mocks"
	"bulkdozer/core/remote/remotetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordSleep captures backoff durations instead of sleeping.
func recordSleep(slept *[]time.Duration) remote.RetryPolicy {
	return remote.RetryPolicy{
		Retries:   4,
		BaseDelay: 8 * time.Second,
		Sleep: func(_ context.Context, d time.Duration) error {
			*slept = append(*slept, d)
			return nil
		},
	}
}

func seedCampaigns(svc *remotetest.Service, n int) {
	for i := 1; i <= n; i++ {
		svc.Seed("Campaigns", remote.Entity{"id": strconv.Itoa(i), "name": fmt.Sprintf("c%d", i), "advertiserId": "7"})
	}
}

func TestClient_ListPagination(t *testing.T) {
	svc := remotetest.New()
	svc.PageSize = 3
	seedCampaigns(svc, 8)
	c := remote.NewClient(svc)

	items, err := c.List(context.Background(), "Campaigns", "campaigns", remote.Options{"advertiserId": "7"})
	require.NoError(t, err)
	require.Len(t, items, 8)
	for i, item := range items {
		assert.Equal(t, strconv.Itoa(i+1), remote.ID(item))
	}
	assert.Equal(t, 3, svc.Count("list", "Campaigns"))

	// Non-id filters are repeated on every page.
	for _, call := range svc.Calls[1:] {
		assert.Equal(t, "7", call.Params["advertiserId"])
		assert.NotEmpty(t, call.Params["pageToken"])
	}
}

func TestClient_ListByIDsSendsOnlyPageToken(t *testing.T) {
	svc := remotetest.New()
	svc.PageSize = 2
	seedCampaigns(svc, 5)
	c := remote.NewClient(svc)

	items, err := c.List(context.Background(), "Campaigns", "campaigns", remote.Options{"ids": []string{"1", "2", "3", "4"}})
	require.NoError(t, err)
	assert.Len(t, items, 4)

	require.Len(t, svc.Calls, 2)
	assert.Equal(t, remote.Options{"pageToken": "page-2"}, svc.Calls[1].Params)
}

func TestClient_ListStopsOnEmptyPage(t *testing.T) {
	m := new(mocks.Service)
	m.On("List", mock.Anything, "Ads", "ads", remote.Options{"campaignId": "1"}).
		Return(remote.Page{Items: []remote.Entity{{"id": "1"}}, NextPageToken: "t1"}, nil).Once()
	m.On("List", mock.Anything, "Ads", "ads", remote.Options{"campaignId": "1", "pageToken": "t1"}).
		Return(remote.Page{NextPageToken: "t2"}, nil).Once()

	items, err := remote.NewClient(m).List(context.Background(), "Ads", "ads", remote.Options{"campaignId": "1"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	m.AssertExpectations(t)
}

func TestClient_ListIsMemoized(t *testing.T) {
	svc := remotetest.New()
	seedCampaigns(svc, 2)
	c := remote.NewClient(svc)

	for i := 0; i < 3; i++ {
		_, err := c.List(context.Background(), "Campaigns", "campaigns", remote.Options{"advertiserId": "7"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, svc.Count("list", "Campaigns"))
}

func TestClient_ListMemoReturnsCopies(t *testing.T) {
	svc := remotetest.New()
	seedCampaigns(svc, 1)
	c := remote.NewClient(svc)
	opts := remote.Options{"advertiserId": "7"}

	first, err := c.List(context.Background(), "Campaigns", "campaigns", opts)
	require.NoError(t, err)
	first[0]["name"] = "mutated"

	for i := 0; i < 2; i++ {
		again, err := c.List(context.Background(), "Campaigns", "campaigns", opts)
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.Equal(t, "c1", again[0]["name"])
		again[0]["name"] = "mutated"
	}
	assert.Equal(t, 1, svc.Count("list", "Campaigns"))
}

func TestClient_ListMemoWarmsSwappedCache(t *testing.T) {
	svc := remotetest.New()
	seedCampaigns(svc, 1)
	c := remote.NewClient(svc)
	opts := remote.Options{"ids": []string{"1"}}

	_, err := c.List(context.Background(), "Campaigns", "campaigns", opts)
	require.NoError(t, err)
	c.SetCache(cache.NewMemory())
	_, err = c.List(context.Background(), "Campaigns", "campaigns", opts)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "Campaigns", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Count("list", "Campaigns"))
	assert.Equal(t, 0, svc.Count("get", "Campaigns"))
}

func TestClient_ChunkFetch(t *testing.T) {
	svc := remotetest.New()
	seedCampaigns(svc, 1200)
	c := remote.NewClient(svc)

	ids := make([]string, 1200)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}

	items, err := c.ChunkFetch(context.Background(), "Campaigns", "campaigns", ids)
	require.NoError(t, err)
	assert.Len(t, items, 1200)
	require.Equal(t, 3, svc.Count("list", "Campaigns"))
	assert.Len(t, svc.Calls[0].Params["ids"], 500)
	assert.Len(t, svc.Calls[2].Params["ids"], 200)
}

func TestClient_Get(t *testing.T) {
	t.Run("EmptyID", func(t *testing.T) {
		svc := remotetest.New()
		obj, err := remote.NewClient(svc).Get(context.Background(), "Campaigns", "")
		require.NoError(t, err)
		assert.Nil(t, obj)
		assert.Empty(t, svc.Calls)
	})

	t.Run("WriteThroughCache", func(t *testing.T) {
		svc := remotetest.New()
		seedCampaigns(svc, 1)
		c := remote.NewClient(svc)

		first, err := c.Get(context.Background(), "Campaigns", "1")
		require.NoError(t, err)
		first["name"] = "mutated"

		second, err := c.Get(context.Background(), "Campaigns", float64(1))
		require.NoError(t, err)
		assert.Equal(t, "c1", second["name"])
		assert.Equal(t, 1, svc.Count("get", "Campaigns"))
	})

	t.Run("ListWarmsCache", func(t *testing.T) {
		svc := remotetest.New()
		seedCampaigns(svc, 2)
		c := remote.NewClient(svc)

		_, err := c.List(context.Background(), "Campaigns", "campaigns", remote.Options{"ids": []string{"1", "2"}})
		require.NoError(t, err)
		_, err = c.Get(context.Background(), "Campaigns", "2")
		require.NoError(t, err)
		assert.Equal(t, 0, svc.Count("get", "Campaigns"))
	})

	t.Run("OversizedNotCached", func(t *testing.T) {
		svc := remotetest.New()
		svc.Seed("Creatives", remote.Entity{"id": "1", "blob": strings.Repeat("x", 100000)})
		c := remote.NewClient(svc)

		for i := 0; i < 2; i++ {
			obj, err := c.Get(context.Background(), "Creatives", "1")
			require.NoError(t, err)
			assert.Equal(t, "1", remote.ID(obj))
		}
		assert.Equal(t, 2, svc.Count("get", "Creatives"))
	})

	t.Run("GenerationIsolatesCache", func(t *testing.T) {
		svc := remotetest.New()
		seedCampaigns(svc, 1)
		shared := cache.NewShared()

		_, err := remote.NewClient(svc, remote.WithCache(shared), remote.WithGeneration(1)).Get(context.Background(), "Campaigns", "1")
		require.NoError(t, err)
		_, err = remote.NewClient(svc, remote.WithCache(shared), remote.WithGeneration(2)).Get(context.Background(), "Campaigns", "1")
		require.NoError(t, err)
		assert.Equal(t, 2, svc.Count("get", "Campaigns"))
	})

	t.Run("SetCacheSwitches", func(t *testing.T) {
		svc := remotetest.New()
		seedCampaigns(svc, 1)
		c := remote.NewClient(svc)

		_, err := c.Get(context.Background(), "Campaigns", "1")
		require.NoError(t, err)
		c.SetCache(cache.NewMemory())
		_, err = c.Get(context.Background(), "Campaigns", "1")
		require.NoError(t, err)
		assert.Equal(t, 2, svc.Count("get", "Campaigns"))
	})
}

func TestClient_Update(t *testing.T) {
	svc := remotetest.New()
	seedCampaigns(svc, 1)
	c := remote.NewClient(svc)
	ctx := context.Background()

	inserted, err := c.Update(ctx, "Campaigns", remote.Entity{"name": "new"})
	require.NoError(t, err)
	assert.NotEmpty(t, remote.ID(inserted))
	assert.Equal(t, 1, svc.Count("insert", "Campaigns"))

	updated, err := c.Update(ctx, "Campaigns", remote.Entity{"id": "1", "name": "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated["name"])
	assert.Equal(t, 1, svc.Count("update", "Campaigns"))

	// The update result is served from cache afterwards.
	got, err := c.Get(ctx, "Campaigns", "1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got["name"])
	assert.Equal(t, 0, svc.Count("get", "Campaigns"))
}

func TestClient_Retry(t *testing.T) {
	t.Run("TransientThenSuccess", func(t *testing.T) {
		svc := remotetest.New()
		seedCampaigns(svc, 1)
		svc.Fail("get", errors.New("Rate Limit Exceeded"), errors.New("remote: get Campaigns: status 503: unavailable"))

		var slept []time.Duration
		c := remote.NewClient(svc, remote.WithRetryPolicy(recordSleep(&slept)))

		obj, err := c.Get(context.Background(), "Campaigns", "1")
		require.NoError(t, err)
		assert.Equal(t, "1", remote.ID(obj))
		require.Len(t, slept, 2)
		assert.GreaterOrEqual(t, slept[1], 2*slept[0])
	})

	t.Run("FatalPropagatesImmediately", func(t *testing.T) {
		svc := remotetest.New()
		svc.Fail("insert", errors.New("invalid field: name"))

		var slept []time.Duration
		c := remote.NewClient(svc, remote.WithRetryPolicy(recordSleep(&slept)))

		_, err := c.Update(context.Background(), "Campaigns", remote.Entity{"name": "x"})
		require.Error(t, err)
		assert.Empty(t, slept)
		assert.False(t, errors.Is(err, remote.ErrRetriesExhausted))
	})

	t.Run("Exhausted", func(t *testing.T) {
		svc := remotetest.New()
		for i := 0; i < 5; i++ {
			svc.Fail("list", errors.New("quota exceeded"))
		}

		var slept []time.Duration
		c := remote.NewClient(svc, remote.WithRetryPolicy(recordSleep(&slept)))

		_, err := c.List(context.Background(), "Campaigns", "campaigns", remote.Options{"ids": []string{"1"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, remote.ErrRetriesExhausted)
		assert.Equal(t, []time.Duration{8 * time.Second, 16 * time.Second, 32 * time.Second, 64 * time.Second}, slept)

		var exhausted *remote.RetriesExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, 5, exhausted.Attempts)
	})

	t.Run("ContextCancelledDuringBackoff", func(t *testing.T) {
		svc := remotetest.New()
		svc.Fail("get", errors.New("try again later"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := remote.NewClient(svc, remote.WithRetryPolicy(remote.RetryPolicy{Retries: 4, BaseDelay: time.Hour}))

		_, err := c.Get(ctx, "Campaigns", "1")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_AssociateAndSizes(t *testing.T) {
	m := new(mocks.Service)
	m.On("Insert", mock.Anything, "Campaigns/5/CampaignCreativeAssociations", remote.Entity{"creativeId": "9"}).
		Return(remote.Entity{"creativeId": "9"}, nil).Once()
	m.On("List", mock.Anything, "Sizes", "sizes", remote.Options{"height": 250, "width": 300}).
		Return(remote.Page{Items: []remote.Entity{{"id": "11", "width": float64(300), "height": float64(250)}}}, nil).Once()

	c := remote.NewClient(m)
	require.NoError(t, c.AssociateCreativeToCampaign(context.Background(), "5", "9"))

	sizes, err := c.GetSize(context.Background(), 300, 250)
	require.NoError(t, err)
	require.Len(t, sizes, 1)
	assert.Equal(t, "11", remote.ID(sizes[0]))
	m.AssertExpectations(t)
}
