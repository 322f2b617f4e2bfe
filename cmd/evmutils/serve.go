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
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/erigontech/evmutils/metrics"
	"github.com/erigontech/evmutils/rpc/evmapi"
	"github.com/erigontech/evmutils/turbo/logging"
)

var serveCommand = cli.Command{
	Action: runServe,
	Name:   "serve",
	Usage:  "Serve the API over HTTP",
	Flags:  serveFlags,
}

func runServe(cliCtx *cli.Context) error {
	logger := logging.SetupLoggerCtx("evmutils", cliCtx)
	cfg, err := configFromFlags(cliCtx)
	if err != nil {
		return err
	}

	var m *metrics.Set
	if cfg.Metrics {
		m = metrics.NewSet(true)
	}
	api := evmapi.NewAPI(cfg.Limits(), m, logger)

	var jwtSecret []byte
	if cfg.HTTP.JWTSecretPath != "" {
		if jwtSecret, err = evmapi.ObtainJWTSecret(cfg.HTTP.JWTSecretPath, logger); err != nil {
			return err
		}
	}
	handler := evmapi.NewHandler(api, cfg.HTTP, jwtSecret)

	ctx, stop := signal.NotifyContext(cliCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return evmapi.Serve(ctx, cfg.HTTP, handler, evmapi.DefaultHTTPTimeouts, logger)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Stopping", "reason", context.Cause(ctx))
		return nil
	})
	return g.Wait()
}
