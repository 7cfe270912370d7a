package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/scrape"
	"github.com/KhuatDuy04/crawl/internal/scrape/extract"
)

type AppConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug | info | warn | error
	Format string `yaml:"format" json:"format"` // json | console
}

type CrawlConfig struct {
	BaseURL         string   `yaml:"base_url" json:"base_url"`
	ListSelector    string   `yaml:"list_selector" json:"list_selector"`
	DefaultJobTypes []string `yaml:"default_job_types" json:"default_job_types"`
	ListTimeoutMS   int      `yaml:"list_timeout_ms" json:"list_timeout_ms"`
	DetailTimeoutMS int      `yaml:"detail_timeout_ms" json:"detail_timeout_ms"`
	MaxPages        int      `yaml:"max_pages" json:"max_pages"`
	Workers         int      `yaml:"workers" json:"workers"`
	RatePerSec      float64  `yaml:"rate_per_sec" json:"rate_per_sec"`
	Burst           int      `yaml:"burst" json:"burst"`
	// Schedule is a cron spec ("@every 6h", "0 3 * * *"); empty disables it.
	Schedule string `yaml:"schedule" json:"schedule"`
}

func (c CrawlConfig) ListTimeout() time.Duration {
	return time.Duration(c.ListTimeoutMS) * time.Millisecond
}

func (c CrawlConfig) DetailTimeout() time.Duration {
	return time.Duration(c.DetailTimeoutMS) * time.Millisecond
}

type BrowserConfig struct {
	Bin        string `yaml:"bin" json:"bin"`
	Headless   bool   `yaml:"headless" json:"headless"`
	NoSandbox  bool   `yaml:"no_sandbox" json:"no_sandbox"`
	ControlURL string `yaml:"control_url" json:"control_url"`
}

type Config struct {
	App     AppConfig     `yaml:"app" json:"app"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Crawl   CrawlConfig   `yaml:"crawl" json:"crawl"`
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Extraction overrides the built-in rule table when set.
	Extraction *extract.Table `yaml:"extraction,omitempty" json:"extraction,omitempty"`
}

// Default is the configuration used for keys a file leaves out.
func Default() Config {
	return Config{
		App: AppConfig{Host: "127.0.0.1", Port: 3000},
		Log: LogConfig{Level: "info", Format: "json"},
		Crawl: CrawlConfig{
			BaseURL:         scrape.DefaultBaseURL,
			ListSelector:    scrape.DefaultListSelector,
			DefaultJobTypes: append([]string(nil), domain.DefaultJobTypes...),
			ListTimeoutMS:   int(scrape.DefaultListTimeout / time.Millisecond),
			DetailTimeoutMS: int(scrape.DefaultDetailTimeout / time.Millisecond),
			MaxPages:        scrape.DefaultMaxPages,
			Workers:         4,
			RatePerSec:      2,
			Burst:           1,
		},
		Browser: BrowserConfig{Headless: true, NoSandbox: true},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Rules compiles the extraction table in effect.
func (c Config) Rules() (*extract.RuleSet, error) {
	if c.Extraction != nil {
		return extract.Compile(*c.Extraction)
	}
	t, err := extract.DefaultTable()
	if err != nil {
		return nil, err
	}
	return extract.Compile(t)
}
