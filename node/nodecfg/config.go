// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package nodecfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/erigontech/evmutils/rlp"
)

const (
	DefaultHTTPHost       = "localhost"
	DefaultHTTPPort       = 8545
	DefaultMaxRequestSize = 32 * datasize.MB
	DefaultRateLimit      = 0 // unlimited
	DefaultRateBurst      = 100
	DefaultJWTSecretFile  = "jwt.hex"
)

// HTTPConfig configures the HTTP endpoint of the service.
type HTTPConfig struct {
	Addr           string            `toml:"addr" yaml:"addr"`
	Port           int               `toml:"port" yaml:"port"`
	MaxRequestSize datasize.ByteSize `toml:"maxrequestsize" yaml:"maxrequestsize"`
	CorsDomains    []string          `toml:"corsdomain" yaml:"corsdomain"`
	// RateLimit is the number of requests per second served before answering 429.
	// Zero disables limiting.
	RateLimit float64 `toml:"ratelimit" yaml:"ratelimit"`
	RateBurst int     `toml:"rateburst" yaml:"rateburst"`
	// JWTSecretPath enables bearer token authentication when non-empty.
	JWTSecretPath string `toml:"jwtsecret" yaml:"jwtsecret"`
}

// Endpoint returns the host:port the server listens on.
func (c HTTPConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

type RLPConfig struct {
	MaxDepth     int               `toml:"maxdepth" yaml:"maxdepth"`
	MaxInputSize datasize.ByteSize `toml:"maxinputsize" yaml:"maxinputsize"`
}

type Config struct {
	HTTP    HTTPConfig `toml:"http" yaml:"http"`
	RLP     RLPConfig  `toml:"rlp" yaml:"rlp"`
	Metrics bool       `toml:"metrics" yaml:"metrics"`
}

// DefaultConfig contains reasonable default settings.
var DefaultConfig = Config{
	HTTP: HTTPConfig{
		Addr:           DefaultHTTPHost,
		Port:           DefaultHTTPPort,
		MaxRequestSize: DefaultMaxRequestSize,
		RateLimit:      DefaultRateLimit,
		RateBurst:      DefaultRateBurst,
	},
	RLP: RLPConfig{
		MaxDepth:     rlp.DefaultMaxDepth,
		MaxInputSize: rlp.DefaultMaxInputSize,
	},
	Metrics: true,
}

// Limits returns the decoder bounds configured for RLP input.
func (c *Config) Limits() rlp.Limits {
	return rlp.Limits{MaxDepth: c.RLP.MaxDepth, MaxInputSize: c.RLP.MaxInputSize}
}

func (c *Config) Validate() error {
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	if c.HTTP.MaxRequestSize == 0 {
		return errors.New("http.maxrequestsize must be positive")
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return errors.New("rate limit and burst must not be negative")
	}
	if c.RLP.MaxDepth <= 0 {
		return errors.New("rlp.maxdepth must be positive")
	}
	if c.RLP.MaxInputSize == 0 {
		return errors.New("rlp.maxinputsize must be positive")
	}
	return nil
}

// Load reads a .toml or .yaml config file on top of DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config files only accepted are .yaml and .toml, got %q", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg as TOML.
func Save(path string, cfg Config) error {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
