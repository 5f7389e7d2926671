
//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"hanrei-feeds/internal/cache"
	"hanrei-feeds/internal/classifier"
	"hanrei-feeds/internal/crawler"
	"hanrei-feeds/internal/models"
	"hanrei-feeds/internal/parser"
	"hanrei-feeds/pkg/logger"
)

func TestLivePortalFirstPages(t *testing.T) {
	// the portal's markup is subject to change
	client := crawler.NewHTTPClient(25*time.Second, 5*time.Second, 5*1024*1024)
	defer client.CloseIdleConnections()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	c := crawler.New(client, parser.New(), classifier.New(), logger.NewNop(), crawler.Options{MaxPages: 2})
	q := crawler.NewSearchQuery("https://www.courts.go.jp/app/hanrei_jp/list1", crawler.BacktrackRange(time.Now(), 1))

	store := cache.NewStore()
	st, err := c.Crawl(ctx, q, store)
	if err != nil && st.Pages == 0 {
		t.Skipf("skipping: portal unreachable: %v", err)
		return
	}
	if st.Items == 0 {
		t.Skip("skipping: no decisions listed for the window")
	}
	total := 0
	for _, cat := range models.Categories {
		total += store.Len(cat)
	}
	if total == 0 {
		t.Errorf("expected records in at least one category")
	}
}
