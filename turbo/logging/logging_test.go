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

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ledgerwatch/log/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func restoreRoot(t *testing.T) {
	h := log.Root().GetHandler()
	t.Cleanup(func() { log.Root().SetHandler(h) })
}

func TestTryGetLogLevel(t *testing.T) {
	for in, want := range map[string]log.Lvl{
		"info":  log.LvlInfo,
		"debug": log.LvlDebug,
		"eror":  log.LvlError,
		"5":     log.LvlTrace,
		"0":     log.LvlCrit,
	} {
		got, err := tryGetLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := tryGetLogLevel("loud")
	require.Error(t, err)
}

func TestSeparatedLogging(t *testing.T) {
	restoreRoot(t)
	dir := t.TempDir()
	console, err := os.Create(filepath.Join(dir, "console.out"))
	require.NoError(t, err)
	defer console.Close()

	logDir := filepath.Join(dir, "logs")
	logger := initSeparatedLogging(console, "evmutils", logDir, log.LvlWarn, log.LvlDebug, true, false)
	logger.Debug("to file only", "method", "keccak256")
	logger.Warn("to both", "kind", "MalformedRlpError")

	file, err := os.ReadFile(filepath.Join(logDir, "evmutils.log"))
	require.NoError(t, err)
	assert.Contains(t, string(file), "to file only")
	assert.Contains(t, string(file), "to both")

	out, err := os.ReadFile(console.Name())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "to file only")
	assert.Contains(t, string(out), `"msg":"to both"`)
}

func TestSetupLoggerCtx(t *testing.T) {
	restoreRoot(t)
	logDir := t.TempDir()
	app := &cli.App{
		Flags: Flags,
		Action: func(ctx *cli.Context) error {
			logger := SetupLoggerCtx("default", ctx)
			logger.Info("hello")
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"evmutils", "--verbosity", "crit", "--log.dir.path", logDir, "--log.dir.prefix", "custom", "--log.dir.json"}))

	file, err := os.ReadFile(filepath.Join(logDir, "custom.log"))
	require.NoError(t, err)
	assert.Contains(t, string(file), `"msg":"hello"`)
}

func TestConsoleHandlerPlainFile(t *testing.T) {
	out, err := os.Create(filepath.Join(t.TempDir(), "console.out"))
	require.NoError(t, err)
	defer out.Close()

	logger := log.New()
	logger.SetHandler(consoleHandler(out, false))
	logger.Warn("call failed", "method", "rlp_decode")

	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "call failed")
	assert.Contains(t, string(data), "method=rlp_decode")
	// not a terminal, so no colour escapes
	assert.NotContains(t, string(data), "\x1b[")
}
