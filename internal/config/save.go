package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validate reports the errors of NormalizeAndValidate as one error.
func Validate(cfg Config) error {
	_, res := NormalizeAndValidate(cfg)
	if res.OK() {
		return nil
	}
	return errors.New("config validation failed:\n- " + strings.Join(res.Errors, "\n- "))
}

// SaveAtomic writes cfg next to path and swaps it in, keeping the previous
// file as path.bak.
func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
