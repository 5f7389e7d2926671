// Package feed writes one Atom feed per category from the record store.
package feed

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"hanrei-feeds/internal/cache"
	"hanrei-feeds/internal/models"
	"hanrei-feeds/internal/normalize"
	"hanrei-feeds/pkg/logger"
)

const searchPage = "https://www.courts.go.jp/app/hanrei_jp/search1"

var baseTerms = []string{"Japan", "Law", "Courts"}

type atomCategory struct {
	XMLName xml.Name `xml:"category"`
	Term    string   `xml:"term,attr"`
}

// CourtsFeed is the Atom document written for one category. gorilla's
// AtomFeed carries a single link and a bare category string, so the
// feed-level elements are laid out here and the entries are reused.
type CourtsFeed struct {
	XMLName    xml.Name `xml:"feed"`
	Xmlns      string   `xml:"xmlns,attr"`
	Title      string   `xml:"title"`
	Id         string   `xml:"id"`
	Updated    string   `xml:"updated"`
	Subtitle   string   `xml:"subtitle,omitempty"`
	Categories []atomCategory
	Links      []feeds.AtomLink
	Entries    []*feeds.AtomEntry `xml:"entry"`
}

func (f *CourtsFeed) FeedXml() interface{} { return f }

type Emitter struct {
	dir         string
	maxItems    int
	selfBaseURL string
	log         *logger.Logger
	now         func() time.Time
}

func NewEmitter(dir string, maxItems int, selfBaseURL string, log *logger.Logger) *Emitter {
	if maxItems <= 0 {
		maxItems = cache.DefaultTopN
	}
	if selfBaseURL != "" && !strings.HasSuffix(selfBaseURL, "/") {
		selfBaseURL += "/"
	}
	return &Emitter{dir: dir, maxItems: maxItems, selfBaseURL: selfBaseURL, log: log, now: time.Now}
}

// Build assembles the Atom document for cat from records, in the order
// given.
func (e *Emitter) Build(cat models.Category, records []models.CaseRecord) *CourtsFeed {
	key := strings.ToLower(string(cat))
	f := &feeds.Feed{
		Title:       "日本の判例：" + cat.Japanese() + "事件",
		Description: "courts.go.jpを基としたフェード：" + cat.Japanese() + "編",
		Link:        &feeds.Link{Href: searchPage},
		Updated:     e.now().UTC(),
	}
	for _, r := range records {
		f.Items = append(f.Items, &feeds.Item{
			Title:       r.Title,
			Link:        &feeds.Link{Href: r.Link},
			Id:          r.ID,
			Updated:     r.DecisionDate,
			Description: normalize.MarkNumberedLines(r.Description),
		})
	}
	af := (&feeds.Atom{Feed: f}).AtomFeed()

	cf := &CourtsFeed{
		Xmlns:    af.Xmlns,
		Title:    af.Title,
		Id:       searchPage + "#" + key,
		Updated:  af.Updated,
		Subtitle: af.Subtitle,
		Links: []feeds.AtomLink{
			{Href: searchPage, Rel: "alternate"},
			{Href: e.selfBaseURL + cat.FeedFileName(), Rel: "self", Type: "application/atom+xml"},
		},
		Entries: af.Entries,
	}
	for _, term := range append(baseTerms, string(cat)) {
		cf.Categories = append(cf.Categories, atomCategory{Term: term})
	}
	return cf
}

// Render returns the serialized feed of cat's most recent records.
func (e *Emitter) Render(store *cache.Store, cat models.Category) (string, error) {
	return feeds.ToXML(e.Build(cat, store.TopN(cat, e.maxItems)))
}

// Emit overwrites every category's feed file. Each file is replaced
// atomically.
func (e *Emitter) Emit(store *cache.Store) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create feed dir: %w", err)
	}
	for _, cat := range models.Categories {
		body, err := e.Render(store, cat)
		if err != nil {
			return fmt.Errorf("render %s feed: %w", cat, err)
		}
		path := filepath.Join(e.dir, cat.FeedFileName())
		if err := writeFileAtomic(path, []byte(body)); err != nil {
			return err
		}
		e.log.Info("wrote feed", zap.String("file", path), zap.Int("entries", min(store.Len(cat), e.maxItems)))
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".feed-*")
	if err != nil {
		return fmt.Errorf("create temp feed: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
