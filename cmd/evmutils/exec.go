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
	"errors"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/evmutils/rlp"
	"github.com/erigontech/evmutils/rpc/evmapi"
	"github.com/erigontech/evmutils/turbo/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errCallFailed = errors.New("call failed")

var limitFlags = []cli.Flag{
	&RLPMaxDepthFlag,
	&RLPMaxInputSizeFlag,
}

var execCommand = cli.Command{
	Action:    runExec,
	Name:      "exec",
	Usage:     "Run one API method and print its JSON response",
	ArgsUsage: "<method> [params-json | -]",
	Description: "params is the JSON array of positional parameters, read from stdin when '-'. " +
		"Methods: " + strings.Join(evmapi.Methods(), ", "),
	Flags: limitFlags,
}

var keccakCommand = cli.Command{
	Action:    shortcut("keccak256"),
	Name:      "keccak",
	Usage:     "Keccak-256 of hex input",
	ArgsUsage: "<hex>",
}

var rlpCommand = cli.Command{
	Name:  "rlp",
	Usage: "RLP utilities",
	Subcommands: []*cli.Command{
		{
			Action:    shortcut("rlp_decode"),
			Name:      "decode",
			Usage:     "Decode hex input into an item tree",
			ArgsUsage: "<hex>",
			Flags:     limitFlags,
		},
	},
}

var txCommand = cli.Command{
	Name:  "tx",
	Usage: "Transaction utilities",
	Subcommands: []*cli.Command{
		{
			Action:    shortcut("parse_transaction"),
			Name:      "parse",
			Usage:     "Parse a raw transaction, recovering its sender",
			ArgsUsage: "<hex>",
			Flags:     limitFlags,
		},
	},
}

func newAPI(ctx *cli.Context, logger log.Logger) (*evmapi.API, error) {
	limits := rlp.DefaultLimits
	if depth := ctx.Int(RLPMaxDepthFlag.Name); depth > 0 {
		limits.MaxDepth = depth
	}
	if s := ctx.String(RLPMaxInputSizeFlag.Name); s != "" {
		size, err := parseSize(RLPMaxInputSizeFlag.Name, s)
		if err != nil {
			return nil, err
		}
		limits.MaxInputSize = size
	}
	return evmapi.NewAPI(limits, nil, logger), nil
}

// run executes req and prints the indented response. A failed call returns
// errCallFailed after printing.
func run(ctx *cli.Context, req evmapi.Request) error {
	logger := logging.SetupLoggerCtx("evmutils", ctx)
	api, err := newAPI(ctx, logger)
	if err != nil {
		return err
	}
	resp := api.Execute(ctx.Context, req)
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(ctx.App.Writer, string(out)); err != nil {
		return err
	}
	if resp.Err != "" {
		return errCallFailed
	}
	return nil
}

func runExec(ctx *cli.Context) error {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return errors.New("expected <method> [params-json | -]")
	}
	req := evmapi.Request{Method: ctx.Args().Get(0)}
	switch params := ctx.Args().Get(1); params {
	case "":
	case "-":
		b, err := io.ReadAll(ctx.App.Reader)
		if err != nil {
			return err
		}
		req.Params = b
	default:
		req.Params = jsoniter.RawMessage(params)
	}
	return run(ctx, req)
}

// shortcut runs method with the single hex argument of the command.
func shortcut(method string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return errors.New("expected one hex argument")
		}
		arg := ctx.Args().First()
		if !strings.HasPrefix(arg, "0x") && !strings.HasPrefix(arg, "0X") {
			arg = "0x" + arg
		}
		params, err := json.Marshal([]string{arg})
		if err != nil {
			return err
		}
		return run(ctx, evmapi.Request{Method: method, Params: params})
	}
}
