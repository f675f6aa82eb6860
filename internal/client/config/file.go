package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ecosync/ecosync/internal/flagx"
)

// Duration accepts either a string like "3s" or integer nanoseconds in both
// JSON and YAML.
type Duration time.Duration

func (d *Duration) set(v any) error {
	switch x := v.(type) {
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(int64(x))
	case int:
		*d = Duration(int64(x))
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

// FileConfig is a DTO used exclusively for decoding config files. Absent
// keys leave the corresponding Config field untouched.
type FileConfig struct {
	APIBaseURL          *string   `json:"api_base_url" yaml:"api_base_url"`
	Host                *string   `json:"host" yaml:"host"`
	StorePath           *string   `json:"store_path" yaml:"store_path"`
	OnlineCheckInterval *Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RequestTimeout      *Duration `json:"request_timeout" yaml:"request_timeout"`
	LogBackend          *string   `json:"log_backend" yaml:"log_backend"`
	LogLevel            *string   `json:"log_level" yaml:"log_level"`
}

var errUnknownFormat = errors.New("unknown config file format")

// decodeFile picks the decoder by extension: .yaml/.yml use YAML, everything
// else JSON.
func decodeFile(path string, data []byte, fc *FileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, fc)
	case ".json", "":
		return json.Unmarshal(data, fc)
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, path)
	}
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.Host != nil {
		cfg.Host = *fc.Host
	}
	if fc.StorePath != nil {
		cfg.StorePath = *fc.StorePath
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = time.Duration(*fc.OnlineCheckInterval)
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*fc.RequestTimeout)
	}
	if fc.LogBackend != nil {
		cfg.LogBackend = *fc.LogBackend
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}

// parseFile overlays cfg with the file named by -c or -config. Without
// either flag it does nothing.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	if err := decodeFile(path, data, &fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	fc.apply(cfg)
	return nil
}
