
package parser

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"hanrei-feeds/internal/normalize"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

// Document is a parsed portal page. Listing navigation is read with CSS
// selectors, labeled case fields with XPath; both share one node tree.
type Document struct {
	root *html.Node
	doc  *goquery.Document
}

func (p *Parser) Parse(r io.Reader, contentType string) (*Document, error) {
	// Decode to UTF-8 if needed
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	root, err := htmlquery.Parse(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	return &Document{root: root, doc: doc}, nil
}

// labelQueries locate the value cell next to a label cell. The first form
// is the portal's detail layout; the others cover table and definition-list
// variants.
var labelQueries = []string{
	`//div[contains(@class,'list4')][contains(., %s)]/following-sibling::div[1]`,
	`//dt[contains(., %s)]/following-sibling::dd[1]`,
	`//th[contains(., %s)]/following-sibling::td[1]`,
}

// Labeled returns the trimmed text of the value cell labeled with label, or
// "" when there is none. Line breaks inside the value are kept.
func (d *Document) Labeled(label string) string {
	lit := xpathLiteral(label)
	for _, q := range labelQueries {
		nodes, err := htmlquery.QueryAll(d.root, strings.ReplaceAll(q, "%s", lit))
		if err != nil || len(nodes) == 0 {
			continue
		}
		return cleanText(nodeText(nodes[0]))
	}
	return ""
}

func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}

// nodeText is textContent with <br> rendered as a newline.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

var entityCleaner = strings.NewReplacer(
	"\u2009", "", // &thinsp;
	"\u00a0", " ", // &nbsp;
	"\r\n", "\n",
)

// cleanText strips markup indentation from each line and drops the blank
// lines it leaves behind.
func cleanText(s string) string {
	lines := strings.Split(entityCleaner.Replace(s), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Trim(l, " \t\r"); l != "" {
			out = append(out, l)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Labels on case detail pages.
const (
	LabelDecisionDate = "裁判年月日"
	LabelDocket       = "事件番号"
	LabelSubject      = "事件名"
	LabelSummary      = "判示事項"
)

// courtLabels are tried in order; pages fill only one of them.
var courtLabels = []string{"裁判所名・部", "法廷名", "裁判所名"}

type CaseFields struct {
	Title        string
	DocketNumber string
	DecisionDate string
	Description  string
}

// Court returns the first non-empty court name among the label variants.
func (d *Document) Court() string {
	for _, l := range courtLabels {
		if v := d.Labeled(l); v != "" {
			return v
		}
	}
	return ""
}

// Title joins court name, docket number and case subject with " / ",
// skipping empty parts.
func (d *Document) Title() string {
	parts := []string{
		normalize.CollapseSpace(d.Court()),
		d.Labeled(LabelDocket),
		normalize.CollapseSpace(d.Labeled(LabelSubject)),
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " / ")
}

func (d *Document) CaseFields() CaseFields {
	return CaseFields{
		Title:        d.Title(),
		DocketNumber: d.Labeled(LabelDocket),
		DecisionDate: d.Labeled(LabelDecisionDate),
		Description:  d.Labeled(LabelSummary),
	}
}

// ListingRow is the first cell of one search result row.
type ListingRow struct {
	Href        string
	AnchorTexts []string
}

// ListingRows returns the result rows of a search listing page in page
// order. Rows without a link are skipped.
func (d *Document) ListingRows() []ListingRow {
	var rows []ListingRow
	d.doc.Find(`table[class*="waku"] td:first-of-type`).Each(func(i int, td *goquery.Selection) {
		anchors := td.Find("a")
		if anchors.Length() == 0 {
			return
		}
		row := ListingRow{Href: strings.TrimSpace(anchors.First().AttrOr("href", ""))}
		anchors.Each(func(i int, a *goquery.Selection) {
			row.AnchorTexts = append(row.AnchorTexts, a.Text())
		})
		rows = append(rows, row)
	})
	return rows
}

// HasNextPage reports whether the listing links to a following page.
func (d *Document) HasNextPage() bool {
	return d.doc.Find(`a[class*="header_link"]`).FilterFunction(func(i int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), "次へ")
	}).Length() > 0
}
