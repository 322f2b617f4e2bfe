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
	"os"

	"github.com/urfave/cli/v2"

	"github.com/erigontech/evmutils/turbo/logging"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	version   = "0.1.0"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "evmutils"
	app.Usage = "Ethereum RLP, transaction, signature and trie proof utilities"
	app.Version = version
	if gitCommit != "" {
		app.Version += "-" + gitCommit
	}
	app.UsageText = app.Name + ` [command] [flags]`
	app.Flags = logging.Flags
	app.Commands = []*cli.Command{
		&serveCommand,
		&execCommand,
		&keccakCommand,
		&rlpCommand,
		&txCommand,
	}
	app.Action = func(ctx *cli.Context) error {
		if ctx.Args().Present() {
			var goodNames []string
			for _, c := range app.VisibleCommands() {
				goodNames = append(goodNames, c.Name)
			}
			return fmt.Errorf("command '%s' not found, available commands: %s", ctx.Args().First(), goodNames)
		}
		return cli.ShowAppHelp(ctx)
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
