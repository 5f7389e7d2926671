
package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailHTML = `<!DOCTYPE html>
<html lang="ja"><head><title>裁判例結果詳細</title>
<script>var x = "<div class='list4'>事件番号</div>";</script>
</head><body>
<div class="dlist">
  <div class="list4">事件番号</div>
  <div class="list5">平成30(オ)1234</div>
</div>
<div class="dlist">
  <div class="list4">事件名</div>
  <div class="list5">損害賠償　請求
    事件</div>
</div>
<div class="dlist">
  <div class="list4">裁判年月日</div>
  <div class="list5">平成31年4月1日</div>
</div>
<div class="dlist">
  <div class="list4">法廷名</div>
  <div class="list5">最高裁判所第二小法廷</div>
</div>
<div class="dlist">
  <div class="list4">&nbsp;判示事項&thinsp;</div>
  <div class="list5">
    １　第一の論点<br>
    ２　第二の論点&thinsp;
  </div>
</div>
</body></html>`

const listingHTML = `<html><body>
<a class="header_link" href="?page=1">前へ</a>
<a class="header_link" href="?page=3">次へ</a>
<table class="waku">
 <tr><th>事件</th><th>概要</th></tr>
 <tr><td><a href="/app/hanrei_jp/detail2?id=1">平成30(オ)1234</a></td><td><a href="/x">別</a></td></tr>
 <tr><td><a href="/app/hanrei_jp/detail7?id=2">平成30(ワ)5</a><br><a href="/app/hanrei_jp/list7">知的財産裁判例集</a></td><td></td></tr>
 <tr><td>リンクなし</td><td></td></tr>
</table>
</body></html>`

func parse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := New().Parse(strings.NewReader(src), "text/html; charset=utf-8")
	require.NoError(t, err)
	return doc
}

func TestLabeled(t *testing.T) {
	doc := parse(t, detailHTML)
	assert.Equal(t, "平成30(オ)1234", doc.Labeled(LabelDocket))
	assert.Equal(t, "平成31年4月1日", doc.Labeled(LabelDecisionDate))
	assert.Equal(t, "１　第一の論点\n２　第二の論点", doc.Labeled(LabelSummary))
	assert.Equal(t, "", doc.Labeled("参照法条"))
}

func TestTitleFallsBackAcrossCourtLabels(t *testing.T) {
	doc := parse(t, detailHTML)
	assert.Equal(t, "最高裁判所第二小法廷", doc.Court())
	assert.Equal(t, "最高裁判所第二小法廷 / 平成30(オ)1234 / 損害賠償 請求 事件", doc.Title())
}

func TestTitleOmitsEmptyParts(t *testing.T) {
	doc := parse(t, `<html><body><table>
<tr><th>事件名</th><td>所有権確認</td></tr>
</table></body></html>`)
	assert.Equal(t, "所有権確認", doc.Title())
}

func TestCaseFields(t *testing.T) {
	f := parse(t, detailHTML).CaseFields()
	assert.Equal(t, "平成30(オ)1234", f.DocketNumber)
	assert.Equal(t, "平成31年4月1日", f.DecisionDate)
	assert.Contains(t, f.Description, "第二の論点")
}

func TestListingRows(t *testing.T) {
	doc := parse(t, listingHTML)
	rows := doc.ListingRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "/app/hanrei_jp/detail2?id=1", rows[0].Href)
	assert.Equal(t, []string{"平成30(オ)1234"}, rows[0].AnchorTexts)
	assert.Equal(t, "/app/hanrei_jp/detail7?id=2", rows[1].Href)
	assert.Equal(t, "知的財産裁判例集", rows[1].AnchorTexts[1])
	assert.True(t, doc.HasNextPage())
}

func TestListingLastPage(t *testing.T) {
	doc := parse(t, `<html><body><a class="header_link" href="?page=1">前へ</a><table class="waku"></table></body></html>`)
	assert.Empty(t, doc.ListingRows())
	assert.False(t, doc.HasNextPage())
}

func TestParseShiftJIS(t *testing.T) {
	// 裁判 in Shift_JIS
	src := "<html><body><div class=\"list4\">x</div><div>\x8d\xd9\x94\xbb</div></body></html>"
	doc, err := New().Parse(strings.NewReader(src), "text/html; charset=Shift_JIS")
	require.NoError(t, err)
	assert.Equal(t, "裁判", doc.Labeled("x"))
}
