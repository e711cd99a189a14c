package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed default.toml
var defaultConfig []byte

const envPrefix = "SERIALMON_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load merges the configuration layers: embedded defaults first, then the
// TOML file at path (or the default XDG location when path is empty), then
// SERIALMON_ environment variables, so SERIALMON_PORT_BAUD_RATE=115200 maps
// to port.baud_rate. A missing file at the default location is fine; a
// missing explicit path is an error.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	return unmarshal(k)
}

// Default returns the embedded default configuration.
func Default() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	return unmarshal(k)
}

// envToKey maps SERIALMON_PORT_BAUD_RATE to port.baud_rate. Only the first
// underscore splits section from key, since key names contain underscores
// themselves.
func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if section, key, ok := strings.Cut(s, "_"); ok {
		return section + "." + key
	}
	return s
}

func unmarshal(k *koanf.Koanf) (Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
