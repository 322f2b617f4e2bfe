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
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ledgerwatch/log/v3"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLoggerCtx configures the root logger from the logging flags and returns it.
// Console output goes to stderr. When a log dir is set, records at or above the
// dir verbosity are also written to a rotated file named <prefix>.log.
func SetupLoggerCtx(filePrefix string, ctx *cli.Context) log.Logger {
	consoleJson := ctx.Bool(LogJsonFlag.Name) || ctx.Bool(LogConsoleJsonFlag.Name)
	dirJson := ctx.Bool(LogDirJsonFlag.Name)

	consoleLevel, lErr := tryGetLogLevel(ctx.String(LogConsoleVerbosityFlag.Name))
	if lErr != nil {
		// try verbosity flag
		consoleLevel, lErr = tryGetLogLevel(ctx.String(LogVerbosityFlag.Name))
		if lErr != nil {
			consoleLevel = log.LvlInfo
		}
	}

	dirLevel, dErr := tryGetLogLevel(ctx.String(LogDirVerbosityFlag.Name))
	if dErr != nil {
		dirLevel = log.LvlInfo
	}

	if prefix := ctx.String(LogDirPrefixFlag.Name); prefix != "" {
		filePrefix = prefix
	}
	return initSeparatedLogging(os.Stderr, filePrefix, ctx.String(LogDirPathFlag.Name), consoleLevel, dirLevel, consoleJson, dirJson)
}

func consoleHandler(out *os.File, json bool) log.Handler {
	if json {
		return log.StreamHandler(out, log.JsonFormat())
	}
	usecolor := (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) && os.Getenv("TERM") != "dumb"
	output := io.Writer(out)
	if usecolor {
		output = colorable.NewColorable(out)
	}
	return log.StreamHandler(output, terminalFormat(usecolor))
}

func terminalFormat(usecolor bool) log.Format {
	if usecolor {
		return log.TerminalFormat()
	}
	return log.TerminalFormatNoColor()
}

func initSeparatedLogging(
	console *os.File,
	filePrefix string,
	dirPath string,
	consoleLevel log.Lvl,
	dirLevel log.Lvl,
	consoleJson bool,
	dirJson bool) log.Logger {

	logger := log.Root()
	logger.SetHandler(log.LvlFilterHandler(consoleLevel, consoleHandler(console, consoleJson)))

	if len(dirPath) == 0 {
		logger.Debug("no log dir set, console logging only")
		return logger
	}

	err := os.MkdirAll(dirPath, 0764)
	if err != nil {
		logger.Warn("failed to create log dir, console logging only", "err", err)
		return logger
	}

	dirFormat := log.TerminalFormatNoColor()
	if dirJson {
		dirFormat = log.JsonFormat()
	}

	lumberjack := &lumberjack.Logger{
		Filename:   filepath.Join(dirPath, filePrefix+".log"),
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, //days
	}
	userLog := log.StreamHandler(lumberjack, dirFormat)

	mux := log.MultiHandler(logger.GetHandler(), log.LvlFilterHandler(dirLevel, userLog))
	logger.SetHandler(mux)
	logger.Info("logging to file system", "log dir", dirPath, "file prefix", filePrefix, "log level", dirLevel, "json", dirJson)
	return logger
}

func tryGetLogLevel(s string) (log.Lvl, error) {
	lvl, err := log.LvlFromString(s)
	if err != nil {
		l, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		return log.Lvl(l), nil
	}
	return lvl, nil
}
