
package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hanrei-feeds/internal/models"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadURLsCSV(t *testing.T) {
	path := write(t, "in.csv", "note,Link\nfirst,https://a.jp/1\n,\nthird,https://a.jp/2\nagain,https://a.jp/1\n")
	urls, err := ReadURLs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.jp/1", "https://a.jp/2"}, urls)
}

func TestReadURLsCSVMissingColumn(t *testing.T) {
	_, err := ReadURLs(write(t, "in.csv", "name\nx\n"))
	assert.Error(t, err)
}

func TestRecordsRoundTripThroughReadURLs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, []models.ExportRecord{
		{Category: models.Civil, Record: models.CaseRecord{ID: "https://a.jp/1", Link: "https://a.jp/1", DecisionDate: time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC)}},
		{Category: models.IP, Record: models.CaseRecord{ID: "https://a.jp/1", Link: "https://a.jp/1"}},
	}))
	buf.WriteString(`{"url":"https://a.jp/2"}` + "\n")
	buf.WriteString("https://a.jp/3\n")

	urls, err := ReadURLs(write(t, "in.ndjson", buf.String()))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.jp/1", "https://a.jp/2", "https://a.jp/3"}, urls)
}

func TestReadURLsEmptyNDJSON(t *testing.T) {
	_, err := ReadURLs(write(t, "in.jsonl", "\n\n"))
	assert.Error(t, err)
}
