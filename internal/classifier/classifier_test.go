
package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hanrei-feeds/internal/models"
)

func TestClassify(t *testing.T) {
	cl := New()
	assert.Equal(t, []models.Category{models.Civil}, cl.Classify("平成30(オ)1234"))
	assert.Equal(t, []models.Category{models.Administrative}, cl.Classify("平成29(行ヒ)56"))
	assert.Equal(t, []models.Category{models.Criminal}, cl.Classify("令和元(あ)789"))
}

func TestClassifyFanOut(t *testing.T) {
	cl := New()
	got := cl.Classify("平成31(抗)12")
	assert.ElementsMatch(t, models.Categories, got)
	assert.Len(t, got, len(models.Categories))

	// callers may mutate the result without touching the package list
	got[0] = "x"
	assert.Equal(t, models.Civil, models.Categories[0])
}

func TestClassifyUnknown(t *testing.T) {
	cl := New()
	assert.Empty(t, cl.Classify("平成30年1234号"))
	assert.Empty(t, cl.Classify("平成30(ゐ)1"))
	assert.Empty(t, cl.Classify(""))
}

func TestHint(t *testing.T) {
	cl := New()
	c, ok := cl.Hint("知的財産裁判例集")
	assert.True(t, ok)
	assert.Equal(t, models.IP, c)
	c, ok = cl.Hint("労働事件裁判例集")
	assert.True(t, ok)
	assert.Equal(t, models.Labor, c)
	_, ok = cl.Hint("最高裁判所判例集")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	cl := New()

	cats, fallback := cl.Resolve(models.Labor, "平成31(抗)12")
	assert.Equal(t, []models.Category{models.Labor}, cats, "hint overrides fan-out")
	assert.False(t, fallback)

	cats, fallback = cl.Resolve("", "平成30(ネ)1")
	assert.Equal(t, []models.Category{models.Civil}, cats)
	assert.False(t, fallback)

	cats, fallback = cl.Resolve("", "不明")
	assert.ElementsMatch(t, models.Categories, cats)
	assert.True(t, fallback)
}
