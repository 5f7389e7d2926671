
package crawler

import (
	"net/url"
	"strconv"
	"time"

	"hanrei-feeds/internal/models"
	"hanrei-feeds/internal/normalize"
)

// JST is the portal's calendar time zone.
var JST = time.FixedZone("JST", 9*60*60)

// BacktrackRange is the search window for a run: the 30-day block that
// ends (months-1)*30 days before now.
func BacktrackRange(now time.Time, months int) models.DateRange {
	now = now.In(JST)
	return models.DateRange{
		From: now.AddDate(0, 0, -30*months),
		To:   now.AddDate(0, 0, -30*(months-1)),
	}
}

// SearchQuery builds the paginated listing URLs for a decision date range.
type SearchQuery struct {
	endpoint string
	rng      models.DateRange
}

func NewSearchQuery(endpoint string, rng models.DateRange) SearchQuery {
	return SearchQuery{endpoint: endpoint, rng: rng}
}

func (q SearchQuery) Range() models.DateRange { return q.rng }

// URL returns the listing URL for page (1-based).
func (q SearchQuery) URL(page int) string {
	v := url.Values{}
	v.Set("action_search", "検索")
	v.Set("page", strconv.Itoa(page))
	v.Set("sort", "1")
	for _, k := range []string{
		"branchName", "courtName", "courtType", "jikenCode", "jikenGengo",
		"jikenNumber", "jikenYear",
		"text1", "text2", "text3", "text4", "text5", "text6", "text7", "text8", "text9",
	} {
		v.Set("filter["+k+"]", "")
	}
	v.Set("filter[judgeDateMode]", "2")
	setDate(v, "From", q.rng.From)
	setDate(v, "To", q.rng.To)
	return q.endpoint + "?" + v.Encode()
}

func setDate(v url.Values, suffix string, t time.Time) {
	era, year := normalize.EraOf(t)
	v.Set("filter[judgeGengo"+suffix+"]", era)
	v.Set("filter[judgeYear"+suffix+"]", strconv.Itoa(year))
	v.Set("filter[judgeMonth"+suffix+"]", strconv.Itoa(int(t.Month())))
	v.Set("filter[judgeDay"+suffix+"]", strconv.Itoa(t.Day()))
}
