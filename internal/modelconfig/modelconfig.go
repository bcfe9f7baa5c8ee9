// Package modelconfig persists the choice of remote model in a small JSON file.
package modelconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	DefaultModel = "llama-3.1-8b-instant"

	maxModelLength = 128
)

var modelRe = regexp.MustCompile(`^[A-Za-z0-9._:/-]+$`)

// Config is the persisted record. Only the model identifier is stored.
type Config struct {
	Model string `json:"model"`
}

func Default(fallback string) Config {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		fallback = DefaultModel
	}

	return Config{Model: fallback}
}

func (c Config) Validate() error {
	return ValidateModel(c.Model)
}

func ValidateModel(model string) error {
	switch {
	case model == "":
		return errors.New("model is empty")
	case len(model) > maxModelLength:
		return fmt.Errorf("model is longer than %d characters", maxModelLength)
	case !modelRe.MatchString(model):
		return fmt.Errorf("model %q contains unsupported characters", model)
	}

	return nil
}

// Load reads the record at path.
// A missing file is created with the default; an empty file yields the default.
// A file that exists but cannot be decoded or validated returns the default
// together with an error so callers can log it.
func Load(path string, fallback string) (Config, error) {
	def := Default(fallback)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if saveErr := Save(path, def); saveErr != nil {
				return def, fmt.Errorf("save default: %w", saveErr)
			}

			return def, nil
		}

		return def, fmt.Errorf("open model config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return def, fmt.Errorf("read model config: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return def, nil
	}

	var cfg Config
	if err = json.Unmarshal(data, &cfg); err != nil {
		return def, fmt.Errorf("decode model config: %w", err)
	}

	cfg.Model = strings.TrimSpace(cfg.Model)
	if err = cfg.Validate(); err != nil {
		return def, fmt.Errorf("validate model config: %w", err)
	}

	return cfg, nil
}

// Save writes the record to path atomically.
func Save(path string, cfg Config) error {
	cfg.Model = strings.TrimSpace(cfg.Model)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate model config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err = enc.Encode(&cfg); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode model config: %w", err)
	}

	if err = f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}

	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}
