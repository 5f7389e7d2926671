
package cache

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"

	"hanrei-feeds/internal/models"
	"hanrei-feeds/internal/normalize"
)

// ParseFeed rebuilds the records of a previously written Atom feed, keyed by
// entry id. Paragraph markers added to summaries at write time are removed.
func ParseFeed(r io.Reader) (map[string]models.CaseRecord, error) {
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	out := make(map[string]models.CaseRecord, len(parsed.Items))
	for _, item := range parsed.Items {
		id := item.GUID
		if id == "" {
			id = item.Link
		}
		if id == "" {
			continue
		}
		rec := models.CaseRecord{
			ID:          id,
			Title:       item.Title,
			Link:        item.Link,
			Description: normalize.UnmarkNumberedLines(strings.TrimSpace(item.Description)),
		}
		if item.UpdatedParsed != nil {
			rec.DecisionDate = item.UpdatedParsed.UTC()
		}
		out[id] = rec
	}
	return out, nil
}
