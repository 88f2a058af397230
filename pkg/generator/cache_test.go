package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	t.Run("期限内は値を返すのだ", func(t *testing.T) {
		c.Set("a", []byte("x"), time.Minute)
		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, []byte("x"), v)
	})

	t.Run("期限切れは取得できない", func(t *testing.T) {
		c.Set("b", 1, time.Minute)
		now = now.Add(time.Minute)
		_, ok := c.Get("b")
		assert.False(t, ok)
	})

	t.Run("期限0は期限切れにならない", func(t *testing.T) {
		c.Set("c", 2, 0)
		now = now.Add(24 * time.Hour)
		v, ok := c.Get("c")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})
}

func TestAssetFetcher_WithMemoryCache(t *testing.T) {
	httpClient := &mockHTTPClient{data: []byte("png")}
	f, err := NewAssetFetcher(httpClient, nil, NewMemoryCache(), time.Minute)
	require.NoError(t, err)

	url := "https://93.184.216.34/seed.png"
	for i := 0; i < 3; i++ {
		_, err := f.FetchBytes(context.Background(), url)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, httpClient.calls, "repeated fetches are served from the cache")
}
