// Package config loads run settings from defaults, an optional YAML file and
// command-line flags. Environment variables are not consulted.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hanrei-feeds/pkg/logger"
)

// ErrInvalidBacktrack reports a backtrack argument that is not a
// non-negative integer.
var ErrInvalidBacktrack = errors.New("first argument must be empty or a number")

type Config struct {
	Site   SiteConfig    `mapstructure:"site"`
	Feed   FeedConfig    `mapstructure:"feed"`
	Crawl  CrawlConfig   `mapstructure:"crawl"`
	HTTP   HTTPConfig    `mapstructure:"http"`
	Log    logger.Config `mapstructure:"log"`
	Server ServerConfig  `mapstructure:"server"`
}

type SiteConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	SearchPath string `mapstructure:"search_path"`
}

// SearchEndpoint is the listing URL without query parameters.
func (s SiteConfig) SearchEndpoint() string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + strings.TrimPrefix(s.SearchPath, "/")
}

type FeedConfig struct {
	Dir         string `mapstructure:"dir"`
	MaxItems    int    `mapstructure:"max_items"`
	SelfBaseURL string `mapstructure:"self_base_url"`
}

type CrawlConfig struct {
	MaxPages    int `mapstructure:"max_pages"`
	ItemWorkers int `mapstructure:"item_workers"`
}

type HTTPConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	SizeCap     int64         `mapstructure:"size_cap"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "https://www.courts.go.jp")
	v.SetDefault("site.search_path", "/app/hanrei_jp/list1")
	v.SetDefault("feed.dir", ".")
	v.SetDefault("feed.max_items", 50)
	v.SetDefault("feed.self_base_url", "https://our.law.nagoya-u.ac.jp/feeds/")
	v.SetDefault("crawl.max_pages", 500)
	v.SetDefault("crawl.item_workers", 1)
	v.SetDefault("http.timeout", 15*time.Second)
	v.SetDefault("http.dial_timeout", 5*time.Second)
	v.SetDefault("http.size_cap", 5*1024*1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("server.addr", ":8080")
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"out":       "feed.dir",
	"max-items": "feed.max_items",
	"max-pages": "crawl.max_pages",
	"workers":   "crawl.item_workers",
	"log-level": "log.level",
	"addr":      "server.addr",
}

// Load reads path (if non-empty) over the defaults and applies any of flags
// that were set explicitly.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Site.BaseURL == "":
		return errors.New("site.base_url is required")
	case c.Feed.MaxItems <= 0:
		return fmt.Errorf("feed.max_items must be positive, got %d", c.Feed.MaxItems)
	case c.Crawl.MaxPages < 0:
		return fmt.Errorf("crawl.max_pages must not be negative, got %d", c.Crawl.MaxPages)
	case c.Crawl.ItemWorkers < 1:
		return fmt.Errorf("crawl.item_workers must be at least 1, got %d", c.Crawl.ItemWorkers)
	case c.HTTP.SizeCap <= 0:
		return fmt.Errorf("http.size_cap must be positive, got %d", c.HTTP.SizeCap)
	}
	return nil
}

// ParseBacktrack reads the optional months-to-backtrack argument.
func ParseBacktrack(args []string) (int, error) {
	if len(args) == 0 || args[0] == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBacktrack, args[0])
	}
	return n, nil
}
