package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhuatDuy04/crawl/internal/config"
	"github.com/KhuatDuy04/crawl/internal/scrape/extract"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yml", `
app:
  port: 8080
crawl:
  workers: 2
  schedule: "@every 6h"
`)
	cfg, err := config.Load(p)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "127.0.0.1", cfg.App.Host)
	assert.Equal(t, 2, cfg.Crawl.Workers)
	assert.Equal(t, 200, cfg.Crawl.MaxPages)
	assert.Equal(t, []string{"1", "2"}, cfg.Crawl.DefaultJobTypes)
	assert.Equal(t, 8*time.Second, cfg.Crawl.ListTimeout())
	assert.Equal(t, 10*time.Second, cfg.Crawl.DetailTimeout())
	assert.True(t, cfg.Browser.Headless)
	assert.Nil(t, cfg.Extraction)

	_, res := config.NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), res.Errors)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "config", "config.yml"))
	require.NoError(t, err)
	_, res := config.NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), res.Errors)
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := config.Default()
	cfg.App.Port = 0
	cfg.Log.Level = "loud"
	cfg.Crawl.BaseURL = "/tuyen-dung"
	cfg.Crawl.Workers = 0
	cfg.Crawl.Schedule = "every now and then"
	cfg.Crawl.DefaultJobTypes = []string{" 3 ", "", "3", "4"}

	out, res := config.NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
	assert.Equal(t, []string{"3", "4"}, out.Crawl.DefaultJobTypes)

	joined := ""
	for _, e := range res.Errors {
		joined += e + "\n"
	}
	assert.Contains(t, joined, "app.port")
	assert.Contains(t, joined, "log.level")
	assert.Contains(t, joined, "crawl.base_url")
	assert.Contains(t, joined, "crawl.workers")
	assert.Contains(t, joined, "crawl.schedule")
}

func TestNormalizeFallsBackToDefaultJobTypes(t *testing.T) {
	cfg := config.Default()
	cfg.Crawl.DefaultJobTypes = []string{"  "}
	out, res := config.NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"1", "2"}, out.Crawl.DefaultJobTypes)
}

func TestExtractionOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Extraction = &extract.Table{
		Fields: map[string]extract.Rule{
			"title": {Kind: extract.KindText, Selector: "h1"},
		},
	}
	_, res := config.NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "extraction covers 1 of")

	cfg.Extraction.Fields["title"] = extract.Rule{Kind: extract.KindText, Selector: "h1[["}
	_, res = config.NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yml")
	writeFile(t, dir, "config.yml", "app:\n  port: 3000\n")

	cfg := config.Default()
	cfg.Crawl.Workers = 6
	tbl, err := extract.DefaultTable()
	require.NoError(t, err)
	cfg.Extraction = &tbl

	require.NoError(t, config.SaveAtomic(p, cfg))

	got, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Crawl.Workers)
	require.NotNil(t, got.Extraction)
	assert.Equal(t, tbl, *got.Extraction)

	_, err = os.Stat(p + ".bak")
	assert.NoError(t, err)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	cfg := config.Default()
	cfg.Crawl.MaxPages = 0

	err := config.SaveAtomic(p, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crawl.max_pages")
	_, statErr := os.Stat(p)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEnsureUserConfig(t *testing.T) {
	dataDir := t.TempDir()
	def := writeFile(t, t.TempDir(), "default.yml", "app:\n  port: 4000\n")

	p, err := config.EnsureUserConfig(dataDir, def)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), p)
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.App.Port)

	// existing file wins
	writeFile(t, dataDir, "config.yml", "app:\n  port: 5000\n")
	p, err = config.EnsureUserConfig(dataDir, def)
	require.NoError(t, err)
	cfg, err = config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.App.Port)
}

func TestEnsureUserConfigWithoutDefaultFile(t *testing.T) {
	dataDir := t.TempDir()
	p, err := config.EnsureUserConfig(dataDir, filepath.Join(dataDir, "missing.yml"))
	require.NoError(t, err)

	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Crawl, cfg.Crawl)
}

func TestMaxPagesAboveCapIsRejected(t *testing.T) {
	cfg := config.Default()
	cfg.Crawl.MaxPages = 500

	_, vr := config.NormalizeAndValidate(cfg)
	assert.False(t, vr.OK())
	assert.Contains(t, strings.Join(vr.Errors, "\n"), "crawl.max_pages")

	cfg.Crawl.MaxPages = 200
	_, vr = config.NormalizeAndValidate(cfg)
	assert.True(t, vr.OK(), vr.Errors)
}
