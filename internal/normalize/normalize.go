// Package normalize converts the portal's Japanese notation into forms the
// rest of the pipeline can sort and compare.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

type era struct {
	name   string
	offset int
	start  time.Time
}

// eras is ordered oldest first. Only the first four are understood by
// ConvertEraDate; 令和 is used when encoding search queries.
var eras = []era{
	{"明治", 1867, time.Date(1868, time.January, 25, 0, 0, 0, 0, time.UTC)},
	{"大正", 1911, time.Date(1912, time.July, 30, 0, 0, 0, 0, time.UTC)},
	{"昭和", 1925, time.Date(1926, time.December, 25, 0, 0, 0, 0, time.UTC)},
	{"平成", 1988, time.Date(1989, time.January, 8, 0, 0, 0, 0, time.UTC)},
	{"令和", 2018, time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC)},
}

var eraDateRe = regexp.MustCompile(`(明治|大正|昭和|平成)([0-9]+)年(?:([0-9]+)月(?:([0-9]+)日)?)?`)

func isFullWidthDigit(r rune) bool { return r >= '０' && r <= '９' }

// NormalizeFullWidthDigits replaces U+FF10..U+FF19 with ASCII digits and
// leaves every other rune alone.
func NormalizeFullWidthDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if isFullWidthDigit(r) {
			return width.LookupRune(r).Narrow()
		}
		return r
	}, s)
}

// ConvertEraDate rewrites the first 明治/大正/昭和/平成 date in s as
// YYYY-MM-DD, YYYY-MM or YYYY depending on which parts are present.
// Other eras, including 令和, are returned unchanged.
func ConvertEraDate(s string) string {
	s = strings.Replace(s, "元年", "1年", 1)
	s = NormalizeFullWidthDigits(s)

	m := eraDateRe.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	name := s[m[2]:m[3]]
	n, err := strconv.Atoi(s[m[4]:m[5]])
	if err != nil {
		return s
	}
	var offset int
	for _, e := range eras {
		if e.name == name {
			offset = e.offset
			break
		}
	}

	parts := []string{fmt.Sprintf("%04d", n+offset)}
	for _, g := range [][2]int{{m[6], m[7]}, {m[8], m[9]}} {
		if g[0] < 0 {
			continue
		}
		v, err := strconv.Atoi(s[g[0]:g[1]])
		if err != nil {
			return s
		}
		parts = append(parts, fmt.Sprintf("%02d", v))
	}
	return s[:m[0]] + strings.Join(parts, "-") + s[m[1]:]
}

var isoDateRe = regexp.MustCompile(`(?:^|[^0-9])([0-9]{4}(?:-[0-9]{2}(?:-[0-9]{2})?)?)(?:[^0-9-]|$)`)

// ParseDate reads the first YYYY, YYYY-MM or YYYY-MM-DD token in the output
// of ConvertEraDate; text around the date is ignored. ok is false when no
// supported era was found.
func ParseDate(converted string) (t time.Time, ok bool) {
	m := isoDateRe.FindStringSubmatch(converted)
	if m == nil {
		return time.Time{}, false
	}
	layout := "2006-01-02"[:len(m[1])]
	t, err := time.Parse(layout, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EraOf returns the era name and era year for t, as used by the portal's
// search form. Dates before 明治 return an empty name.
func EraOf(t time.Time) (string, int) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	for i := len(eras) - 1; i >= 0; i-- {
		if !day.Before(eras[i].start) {
			return eras[i].name, t.Year() - eras[i].offset
		}
	}
	return "", t.Year()
}

var spaceRe = regexp.MustCompile(`\s+`)

// CollapseSpace folds ideographic spaces and line breaks into single ASCII
// spaces.
func CollapseSpace(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

var (
	numberedLineRe = regexp.MustCompile(`^([０-９]|[0-9]{1,2})\x{3000}`)
	markedLineRe   = regexp.MustCompile(`^《([０-９]|[0-9]{1,2})》\x{3000}`)
	// markerLikeRe matches lines that would read back as marked.
	markerLikeRe = regexp.MustCompile(`^《+([０-９]|[0-9]{1,2})》\x{3000}`)
	escapedRe    = regexp.MustCompile(`^《《+([０-９]|[0-9]{1,2})》\x{3000}`)
)

// MarkNumberedLines prefixes every line that opens with a paragraph number
// and an ideographic space with a 《N》 marker. A line that already opens
// with a marker gets an extra 《 so UnmarkNumberedLines restores it as is.
func MarkNumberedLines(s string) string {
	return mapLines(s, func(line string) string {
		if markerLikeRe.MatchString(line) {
			return "《" + line
		}
		return numberedLineRe.ReplaceAllString(line, "《${1}》　")
	})
}

// UnmarkNumberedLines reverses MarkNumberedLines.
func UnmarkNumberedLines(s string) string {
	return mapLines(s, func(line string) string {
		if escapedRe.MatchString(line) {
			return strings.TrimPrefix(line, "《")
		}
		return markedLineRe.ReplaceAllString(line, "${1}　")
	})
}

func mapLines(s string, fn func(string) string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = fn(l)
	}
	return strings.Join(lines, "\n")
}
