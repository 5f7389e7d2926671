
package models

import (
	"strings"
	"time"
)

type Category string

const (
	Civil          Category = "Civil"
	Criminal       Category = "Criminal"
	IP             Category = "IP"
	Labor          Category = "Labor"
	Administrative Category = "Administrative"
)

// Categories is the closed set of feed categories, in output order.
var Categories = []Category{Civil, Criminal, IP, Labor, Administrative}

var japaneseNames = map[Category]string{
	Civil:          "民事",
	Criminal:       "刑事",
	IP:             "知的財産",
	Labor:          "労働",
	Administrative: "行政",
}

// Japanese returns the category name used in feed titles.
func (c Category) Japanese() string { return japaneseNames[c] }

func (c Category) Valid() bool {
	_, ok := japaneseNames[c]
	return ok
}

type CaseRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Link         string    `json:"link"`
	DecisionDate time.Time `json:"decisionDate"`
}

// ListingItem is one result row of a search listing page.
type ListingItem struct {
	URL  string   `json:"url"`
	Hint Category `json:"hint,omitempty"`
}

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type ExportRecord struct {
	Category Category   `json:"category"`
	Record   CaseRecord `json:"record"`
}

// FeedFileName is the persisted Atom file for the category.
func (c Category) FeedFileName() string {
	return "japan-courts-" + strings.ToLower(string(c)) + ".atom"
}
