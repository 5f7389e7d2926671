// Package app wires one feed refresh: load the previous feeds, crawl, and
// write the feeds back.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"hanrei-feeds/internal/cache"
	"hanrei-feeds/internal/classifier"
	"hanrei-feeds/internal/config"
	"hanrei-feeds/internal/crawler"
	"hanrei-feeds/internal/feed"
	"hanrei-feeds/internal/ioformats"
	"hanrei-feeds/internal/models"
	"hanrei-feeds/internal/parser"
	"hanrei-feeds/pkg/logger"
)

type App struct {
	cfg     *config.Config
	log     *logger.Logger
	client  *crawler.HTTPClient
	crawler *crawler.Crawler
	emitter *feed.Emitter
	now     func() time.Time
}

func New(cfg *config.Config, log *logger.Logger) *App {
	client := crawler.NewHTTPClient(cfg.HTTP.Timeout, cfg.HTTP.DialTimeout, cfg.HTTP.SizeCap)
	return &App{
		cfg:    cfg,
		log:    log,
		client: client,
		crawler: crawler.New(client, parser.New(), classifier.New(), log, crawler.Options{
			MaxPages:    cfg.Crawl.MaxPages,
			ItemWorkers: cfg.Crawl.ItemWorkers,
		}),
		emitter: feed.NewEmitter(cfg.Feed.Dir, cfg.Feed.MaxItems, cfg.Feed.SelfBaseURL, log),
		now:     time.Now,
	}
}

type Result struct {
	Store *cache.Store
	Stats crawler.Stats
}

// Run refreshes every feed with decisions from the backtrack window. Feeds
// are written only once the whole listing has been crawled; on error the
// previous files are left as they were.
func (a *App) Run(ctx context.Context, months int) (*Result, error) {
	rng := crawler.BacktrackRange(a.now(), months)
	a.log.Info("backtracking",
		zap.Int("months", months),
		zap.Time("from", rng.From),
		zap.Time("to", rng.To))

	return a.refresh(func(store *cache.Store) (crawler.Stats, error) {
		q := crawler.NewSearchQuery(a.cfg.Site.SearchEndpoint(), rng)
		return a.crawler.Crawl(ctx, q, store)
	})
}

// RunItems refreshes the feeds with the given case pages only.
func (a *App) RunItems(ctx context.Context, urls []string) (*Result, error) {
	return a.refresh(func(store *cache.Store) (crawler.Stats, error) {
		return a.crawler.CrawlItems(ctx, urls, store)
	})
}

func (a *App) refresh(crawl func(*cache.Store) (crawler.Stats, error)) (*Result, error) {
	defer a.client.CloseIdleConnections()

	store := cache.NewStore()
	if err := store.LoadDir(a.cfg.Feed.Dir, a.log); err != nil {
		return nil, err
	}
	st, err := crawl(store)
	if err != nil {
		return nil, fmt.Errorf("crawl: %w", err)
	}
	a.log.Info("crawl finished",
		zap.Int("pages", st.Pages),
		zap.Int("items", st.Items),
		zap.Int("added", st.Added),
		zap.Int("unclassified", st.Fallbacks))

	if err := a.emitter.Emit(store); err != nil {
		return nil, fmt.Errorf("write feeds: %w", err)
	}
	return &Result{Store: store, Stats: st}, nil
}

// ExportRecords lists what each feed holds, category by category.
func (a *App) ExportRecords(store *cache.Store) []models.ExportRecord {
	var out []models.ExportRecord
	for _, cat := range models.Categories {
		for _, r := range store.TopN(cat, a.cfg.Feed.MaxItems) {
			out = append(out, models.ExportRecord{Category: cat, Record: r})
		}
	}
	return out
}

// Export writes ExportRecords to path as NDJSON.
func (a *App) Export(path string, store *cache.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer f.Close()
	if err := ioformats.WriteRecords(f, a.ExportRecords(store)); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return f.Close()
}
