
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hanrei-feeds/internal/cache"
	"hanrei-feeds/internal/classifier"
	"hanrei-feeds/internal/models"
	"hanrei-feeds/internal/normalize"
	"hanrei-feeds/internal/parser"
	"hanrei-feeds/pkg/logger"
)

// ErrPageLimit is returned when a listing still links to a next page after
// MaxPages pages.
var ErrPageLimit = errors.New("search listing exceeded page limit")

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

type Options struct {
	// MaxPages caps listing traversal; 0 disables the cap.
	MaxPages int
	// ItemWorkers bounds concurrent item fetches within a page. 1 keeps the
	// crawl strictly sequential.
	ItemWorkers int
}

type Stats struct {
	Pages     int
	Items     int
	Added     int
	Fallbacks int
}

type Crawler struct {
	fetcher Fetcher
	parser  *parser.Parser
	cl      *classifier.Classifier
	log     *logger.Logger
	opts    Options
}

func New(f Fetcher, p *parser.Parser, cl *classifier.Classifier, log *logger.Logger, opts Options) *Crawler {
	if opts.ItemWorkers < 1 {
		opts.ItemWorkers = 1
	}
	return &Crawler{fetcher: f, parser: p, cl: cl, log: log, opts: opts}
}

// scraped is one item page reduced to its record and routing inputs.
type scraped struct {
	record models.CaseRecord
	docket string
	hint   models.Category
}

// Crawl walks the listing for q page by page until a page has no next link,
// merging every item into store.
func (c *Crawler) Crawl(ctx context.Context, q SearchQuery, store *cache.Store) (Stats, error) {
	var st Stats
	for page := 1; ; page++ {
		if c.opts.MaxPages > 0 && page > c.opts.MaxPages {
			return st, fmt.Errorf("%w (%d)", ErrPageLimit, c.opts.MaxPages)
		}
		c.log.Infof("parsing page %d of search return", page)

		doc, base, err := c.fetchDocument(ctx, q.URL(page))
		if err != nil {
			return st, fmt.Errorf("listing page %d: %w", page, err)
		}
		st.Pages++

		items, err := c.listingItems(doc, base)
		if err != nil {
			return st, fmt.Errorf("listing page %d: %w", page, err)
		}
		results, err := c.scrapeAll(ctx, items)
		if err != nil {
			return st, err
		}
		c.mergeAll(results, store, &st)

		if !doc.HasNextPage() {
			return st, nil
		}
	}
}

// CrawlItems scrapes the given case pages directly, without a listing.
func (c *Crawler) CrawlItems(ctx context.Context, urls []string, store *cache.Store) (Stats, error) {
	var st Stats
	items := make([]models.ListingItem, len(urls))
	for i, u := range urls {
		items[i] = models.ListingItem{URL: u}
	}
	results, err := c.scrapeAll(ctx, items)
	if err != nil {
		return st, err
	}
	c.mergeAll(results, store, &st)
	return st, nil
}

func (c *Crawler) fetchDocument(ctx context.Context, rawURL string) (*parser.Document, *url.URL, error) {
	resp, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	doc, err := c.parser.Parse(resp.Body, resp.ContentType)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	final := resp.FinalURL
	if final == "" {
		final = rawURL
	}
	base, err := url.Parse(final)
	if err != nil {
		return nil, nil, err
	}
	return doc, base, nil
}

func (c *Crawler) listingItems(doc *parser.Document, base *url.URL) ([]models.ListingItem, error) {
	rows := doc.ListingRows()
	items := make([]models.ListingItem, 0, len(rows))
	for _, row := range rows {
		ref, err := url.Parse(row.Href)
		if err != nil {
			return nil, fmt.Errorf("item link %q: %w", row.Href, err)
		}
		item := models.ListingItem{URL: base.ResolveReference(ref).String()}
		for _, text := range row.AnchorTexts {
			if cat, ok := c.cl.Hint(text); ok {
				item.Hint = cat
				break
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// scrapeAll fetches the item pages with at most ItemWorkers in flight and
// returns them in listing order.
func (c *Crawler) scrapeAll(ctx context.Context, items []models.ListingItem) ([]scraped, error) {
	results := make([]scraped, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.ItemWorkers)
	for i, item := range items {
		g.Go(func() error {
			s, err := c.scrapeItem(gctx, item)
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Crawler) scrapeItem(ctx context.Context, item models.ListingItem) (scraped, error) {
	doc, _, err := c.fetchDocument(ctx, item.URL)
	if err != nil {
		return scraped{}, fmt.Errorf("item %s: %w", item.URL, err)
	}
	f := doc.CaseFields()
	rec := models.CaseRecord{
		ID:          item.URL,
		Title:       f.Title,
		Description: f.Description,
		Link:        item.URL,
	}
	if d, ok := normalize.ParseDate(normalize.ConvertEraDate(f.DecisionDate)); ok {
		rec.DecisionDate = d
	} else {
		c.log.Warn("unsupported decision date", zap.String("id", rec.ID), zap.String("date", f.DecisionDate))
	}
	return scraped{record: rec, docket: f.DocketNumber, hint: item.Hint}, nil
}

func (c *Crawler) mergeAll(results []scraped, store *cache.Store, st *Stats) {
	for _, s := range results {
		cats, fallback := c.cl.Resolve(s.hint, s.docket)
		if fallback {
			st.Fallbacks++
			c.log.Warn("no category for docket number, adding to every feed",
				zap.String("id", s.record.ID),
				zap.String("title", s.record.Title),
				zap.String("docket", s.docket))
		}
		for _, cat := range cats {
			if store.Add(cat, s.record) {
				st.Added++
			}
		}
		st.Items++
	}
}
