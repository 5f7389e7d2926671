
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://www.courts.go.jp/app/hanrei_jp/list1", cfg.Site.SearchEndpoint())
	assert.Equal(t, 50, cfg.Feed.MaxItems)
	assert.Equal(t, 1, cfg.Crawl.ItemWorkers)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
feed:
  dir: /var/feeds
  max_items: 20
http:
  timeout: 30s
crawl:
  max_pages: 10
`), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("max-pages", 0, "")
	fs.String("out", "", "")
	require.NoError(t, fs.Parse([]string{"--max-pages", "3"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "/var/feeds", cfg.Feed.Dir, "unset flag must not shadow the file")
	assert.Equal(t, 20, cfg.Feed.MaxItems)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.Crawl.MaxPages)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawl:\n  item_workers: 0\n"), 0o644))
	_, err := Load(path, nil)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestParseBacktrack(t *testing.T) {
	n, err := ParseBacktrack(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ParseBacktrack([]string{"6"})
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = ParseBacktrack([]string{"six"})
	assert.True(t, errors.Is(err, ErrInvalidBacktrack))
	_, err = ParseBacktrack([]string{"-1"})
	assert.True(t, errors.Is(err, ErrInvalidBacktrack))
}
