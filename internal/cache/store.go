// Package cache holds the per-category record sets for one run: seeded from
// the feeds written by the previous run, extended by the crawl, and cut to
// the most recent decisions for output.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"hanrei-feeds/internal/models"
	"hanrei-feeds/pkg/logger"
)

// DefaultTopN is the number of records kept in each feed.
const DefaultTopN = 50

type Store struct {
	entries map[models.Category]map[string]models.CaseRecord
}

func NewStore() *Store {
	s := &Store{entries: make(map[models.Category]map[string]models.CaseRecord, len(models.Categories))}
	for _, c := range models.Categories {
		s.entries[c] = map[string]models.CaseRecord{}
	}
	return s
}

// Add inserts rec under cat unless its id is already present. The first
// record seen for an id is never replaced.
func (s *Store) Add(cat models.Category, rec models.CaseRecord) bool {
	m, ok := s.entries[cat]
	if !ok {
		return false
	}
	if _, dup := m[rec.ID]; dup {
		return false
	}
	m[rec.ID] = rec
	return true
}

// Merge adds each record in order and reports how many were new.
func (s *Store) Merge(cat models.Category, recs ...models.CaseRecord) int {
	n := 0
	for _, r := range recs {
		if s.Add(cat, r) {
			n++
		}
	}
	return n
}

func (s *Store) Get(cat models.Category, id string) (models.CaseRecord, bool) {
	r, ok := s.entries[cat][id]
	return r, ok
}

func (s *Store) Len(cat models.Category) int { return len(s.entries[cat]) }

// TopN returns the n most recent records of cat, newest first. Records
// decided on the same day are ordered by id so output does not depend on
// insertion order. n <= 0 means DefaultTopN.
func (s *Store) TopN(cat models.Category, n int) []models.CaseRecord {
	if n <= 0 {
		n = DefaultTopN
	}
	m := s.entries[cat]
	out := make([]models.CaseRecord, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DecisionDate.Equal(out[j].DecisionDate) {
			return out[i].DecisionDate.After(out[j].DecisionDate)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// LoadDir seeds every category from its feed file in dir. Missing files are
// not an error: the category simply starts empty.
func (s *Store) LoadDir(dir string, log *logger.Logger) error {
	for _, cat := range models.Categories {
		path := filepath.Join(dir, cat.FeedFileName())
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("no existing feed file", zap.String("file", path))
			continue
		}
		if err != nil {
			return fmt.Errorf("open feed %s: %w", path, err)
		}
		recs, err := ParseFeed(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load feed %s: %w", path, err)
		}
		for _, r := range recs {
			s.Add(cat, r)
		}
		log.Info("loaded feed from existing file", zap.String("file", path), zap.Int("entries", len(recs)))
	}
	return nil
}
