
package classifier

import (
	"regexp"
	"strings"

	"hanrei-feeds/internal/models"
)

// All is the fan-out outcome: the record belongs in every category's feed.
const All models.Category = "All"

type Classifier struct{}

func New() *Classifier { return &Classifier{} }

// docketCodes maps the case-type code of a docket number to its subject
// category. The codes follow the courts' own case numbering taxonomy.
var docketCodes = map[string]models.Category{
	"オ": models.Civil,
	"受": models.Civil,
	"許": models.Civil,
	"行ツ": models.Administrative,
	"行ヒ": models.Administrative,
	"行フ": models.Administrative,
	"あ": models.Criminal,
	"し": models.Criminal,
	"医へ": models.Civil,
	"き": models.Criminal,
	"行チ": models.Administrative,
	"行テ": models.Administrative,
	"行ト": models.Administrative,
	"行ナ": models.Administrative,
	"行ニ": models.Administrative,
	"ク": models.Civil,
	"さ": models.Criminal,
	"収と": models.Criminal,
	"収へ": models.Criminal,
	"す": models.Criminal,
	"せ": models.Criminal,
	"秩ち": All,
	"秩と": All,
	"テ": models.Civil,
	"ひ": models.Criminal,
	"分": All,
	"分ク": All,
	"マ": models.Civil,
	"み": models.Criminal,
	"め": models.Criminal,
	"も": models.Criminal,
	"ヤ": models.Civil,
	"ゆ": models.Criminal,
	"れ": models.Criminal,
	"ネ": models.Civil,
	"ラ": models.Civil,
	"行ケ": models.Administrative,
	"行コ": models.Administrative,
	"行ス": models.Administrative,
	"う": models.Criminal,
	"く": models.Criminal,
	"医ほ": models.Civil,
	"ウ": models.Civil,
	"お": models.Criminal,
	"行ウ": models.Administrative,
	"行サ": models.Administrative,
	"行シ": models.Administrative,
	"行セ": models.Administrative,
	"行ソ": models.Administrative,
	"行タ": models.Administrative,
	"行ノ": models.Administrative,
	"行ハ": models.Administrative,
	"け": models.Criminal,
	"収に": models.Criminal,
	"収ほ": models.Criminal,
	"人ウ": models.Civil,
	"人ナ": models.Civil,
	"秩に": All,
	"秩へ": All,
	"秩ほ": All,
	"ツ": models.Civil,
	"ツテ": models.Civil,
	"て": models.Criminal,
	"ネオ": models.Civil,
	"ネ受": models.Civil,
	"の": models.Criminal,
	"ふ": models.Criminal,
	"ま": models.Criminal,
	"ム": models.Civil,
	"や": models.Criminal,
	"ら": models.Criminal,
	"ラ許": models.Civil,
	"ラク": models.Civil,
	"ワ": models.Civil,
	"わ": models.Criminal,
	"を": models.Criminal,
	"レ": models.Civil,
	"家ホ": models.Civil,
	"カ": models.Civil,
	"行": models.Administrative,
	"行オ": models.Administrative,
	"行ク": models.Administrative,
	"刑わ": models.Criminal,
	"合わ": models.Criminal,
	"サ": models.Civil,
	"人": models.Civil,
	"少イ": models.Criminal,
	"少エ": models.Civil,
	"少コ": models.Civil,
	"ソ": models.Civil,
	"た": models.Criminal,
	"タ": models.Civil,
	"手ワ": models.Civil,
	"特わ": models.Criminal,
	"ハ": models.Civil,
	"ほ": models.Criminal,
	"ホ": models.Civil,
	"モ": models.Civil,
	"ヨ": models.Civil,
	"ろ": models.Criminal,
	"え": models.Criminal,
	"か": models.Criminal,
	"そ": models.Criminal,
	"つ": models.Criminal,
	"と": models.Criminal,
	"な": models.Criminal,
	"ぬ": models.Criminal,
	"ね": models.Criminal,
	"は": models.Criminal,
	"へ": models.Criminal,
	"む": models.Criminal,
	"よ": models.Criminal,
	"る": models.Criminal,
	"ア": All,
	"ナ": models.Administrative,
	"ニ": models.Civil,
	"ヒ": models.Civil,
	"フ": models.Civil,
	"ヘ": models.Civil,
	"ミ": models.Civil,
	"モ甲": models.Civil,
	"ヲ": models.Civil,
	"家ヘ": models.Civil,
	"医に": models.Civil,
	"医は": models.Civil,
	"医ろ": models.Civil,
	"抗": All,
	"控": All,
	"控訴": All,
	"収ろ": models.Criminal,
	"少テ": models.Criminal,
	"上": models.Criminal,
	"上告": models.Criminal,
	"新": models.Criminal,
	"選": models.Administrative,
	"損": models.Civil,
	"秩ろ": All,
	"日": models.Criminal,
	"配チ": models.Criminal,
	"労": models.Civil,
}

var docketRe = regexp.MustCompile(`^[^(]+\(([^)]+)\)`)

// DocketCode returns the parenthesized case-type code of a docket number
// such as "平成30(オ)1234".
func DocketCode(docketNumber string) (string, bool) {
	m := docketRe.FindStringSubmatch(strings.TrimSpace(docketNumber))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Classify returns the categories implied by a docket number. It returns
// nil when the number has no code or the code is unknown.
func (c *Classifier) Classify(docketNumber string) []models.Category {
	code, ok := DocketCode(docketNumber)
	if !ok {
		return nil
	}
	cat, ok := docketCodes[code]
	if !ok {
		return nil
	}
	switch cat {
	case All:
		out := make([]models.Category, len(models.Categories))
		copy(out, models.Categories)
		return out
	case models.Civil, models.Criminal, models.IP, models.Labor, models.Administrative:
		return []models.Category{cat}
	default:
		return nil
	}
}

var hintKeywords = []struct {
	keyword  string
	category models.Category
}{
	{"知的財産", models.IP},
	{"労働事件", models.Labor},
	{"行政事件", models.Administrative},
}

// Hint sniffs a category keyword from listing anchor text.
func (c *Classifier) Hint(anchorText string) (models.Category, bool) {
	for _, h := range hintKeywords {
		if strings.Contains(anchorText, h.keyword) {
			return h.category, true
		}
	}
	return "", false
}

// Resolve picks the categories for an item. A listing hint wins outright;
// otherwise the docket code decides. fallback is true when neither gave an
// answer and the item was assigned to every category.
func (c *Classifier) Resolve(hint models.Category, docketNumber string) (cats []models.Category, fallback bool) {
	if hint.Valid() {
		return []models.Category{hint}, false
	}
	if cats = c.Classify(docketNumber); len(cats) > 0 {
		return cats, false
	}
	out := make([]models.Category, len(models.Categories))
	copy(out, models.Categories)
	return out, true
}
