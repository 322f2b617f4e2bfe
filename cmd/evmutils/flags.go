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

package main

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/evmutils/node/nodecfg"
	"github.com/erigontech/evmutils/rlp"
)

var (
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Sets config values from a .toml or .yaml file; flags given on the command line take precedence",
	}
	HTTPListenAddressFlag = cli.StringFlag{
		Name:  "http.addr",
		Usage: "HTTP server listening interface",
		Value: nodecfg.DefaultHTTPHost,
	}
	HTTPPortFlag = cli.IntFlag{
		Name:  "http.port",
		Usage: "HTTP server listening port",
		Value: nodecfg.DefaultHTTPPort,
	}
	HTTPCORSDomainFlag = cli.StringFlag{
		Name:  "http.corsdomain",
		Usage: "Comma separated list of domains from which to accept cross origin requests (browser enforced)",
	}
	HTTPMaxRequestSizeFlag = cli.StringFlag{
		Name:  "http.maxrequestsize",
		Usage: "Maximum size of a request body",
		Value: nodecfg.DefaultMaxRequestSize.String(),
	}
	HTTPRateLimitFlag = cli.Float64Flag{
		Name:  "http.ratelimit",
		Usage: "Requests per second served before answering 429, 0 disables the limit",
		Value: nodecfg.DefaultRateLimit,
	}
	HTTPRateBurstFlag = cli.IntFlag{
		Name:  "http.rateburst",
		Usage: "Burst size of the request rate limiter",
		Value: nodecfg.DefaultRateBurst,
	}
	JWTSecretFlag = cli.StringFlag{
		Name:  "http.jwtsecret",
		Usage: "Path to the token that authenticates API callers; generated when missing. Empty disables authentication",
	}
	RLPMaxDepthFlag = cli.IntFlag{
		Name:  "rlp.maxdepth",
		Usage: "Maximum nesting depth of decoded RLP lists",
		Value: rlp.DefaultMaxDepth,
	}
	RLPMaxInputSizeFlag = cli.StringFlag{
		Name:  "rlp.maxinputsize",
		Usage: "Maximum size of RLP input accepted by decoders",
		Value: rlp.DefaultMaxInputSize.String(),
	}
	MetricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "Expose Prometheus metrics on /metrics",
		Value: true,
	}
)

var serveFlags = []cli.Flag{
	&ConfigFlag,
	&HTTPListenAddressFlag,
	&HTTPPortFlag,
	&HTTPCORSDomainFlag,
	&HTTPMaxRequestSizeFlag,
	&HTTPRateLimitFlag,
	&HTTPRateBurstFlag,
	&JWTSecretFlag,
	&RLPMaxDepthFlag,
	&RLPMaxInputSizeFlag,
	&MetricsFlag,
}

func parseSize(flag, s string) (datasize.ByteSize, error) {
	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", flag, s, err)
	}
	return size, nil
}

func splitAndTrim(input string) []string {
	var ret []string
	for _, r := range strings.Split(input, ",") {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// configFromFlags loads the config file, if any, and overrides it with the
// flags set on the command line. Without a file, flag defaults apply.
func configFromFlags(ctx *cli.Context) (nodecfg.Config, error) {
	cfg := nodecfg.DefaultConfig
	fromFile := false
	if path := ctx.String(ConfigFlag.Name); path != "" {
		var err error
		if cfg, err = nodecfg.Load(path); err != nil {
			return cfg, err
		}
		fromFile = true
	}
	use := func(name string) bool { return !fromFile || ctx.IsSet(name) }

	if use(HTTPListenAddressFlag.Name) {
		cfg.HTTP.Addr = ctx.String(HTTPListenAddressFlag.Name)
	}
	if use(HTTPPortFlag.Name) {
		cfg.HTTP.Port = ctx.Int(HTTPPortFlag.Name)
	}
	if ctx.IsSet(HTTPCORSDomainFlag.Name) {
		cfg.HTTP.CorsDomains = splitAndTrim(ctx.String(HTTPCORSDomainFlag.Name))
	}
	if use(HTTPMaxRequestSizeFlag.Name) {
		size, err := parseSize(HTTPMaxRequestSizeFlag.Name, ctx.String(HTTPMaxRequestSizeFlag.Name))
		if err != nil {
			return cfg, err
		}
		cfg.HTTP.MaxRequestSize = size
	}
	if use(HTTPRateLimitFlag.Name) {
		cfg.HTTP.RateLimit = ctx.Float64(HTTPRateLimitFlag.Name)
	}
	if use(HTTPRateBurstFlag.Name) {
		cfg.HTTP.RateBurst = ctx.Int(HTTPRateBurstFlag.Name)
	}
	if ctx.IsSet(JWTSecretFlag.Name) {
		cfg.HTTP.JWTSecretPath = ctx.String(JWTSecretFlag.Name)
	}
	if use(RLPMaxDepthFlag.Name) {
		cfg.RLP.MaxDepth = ctx.Int(RLPMaxDepthFlag.Name)
	}
	if use(RLPMaxInputSizeFlag.Name) {
		size, err := parseSize(RLPMaxInputSizeFlag.Name, ctx.String(RLPMaxInputSizeFlag.Name))
		if err != nil {
			return cfg, err
		}
		cfg.RLP.MaxInputSize = size
	}
	if use(MetricsFlag.Name) {
		cfg.Metrics = ctx.Bool(MetricsFlag.Name)
	}
	return cfg, cfg.Validate()
}
