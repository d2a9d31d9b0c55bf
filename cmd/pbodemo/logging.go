package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/gogpu/readback"
)

// setupLogging installs a text handler on stderr. -v and -vv take
// precedence over the configured level.
func setupLogging(ctx *cli.Context, level slog.Level) {
	if ctx.GlobalBool("v") {
		level = slog.LevelInfo
	}
	if ctx.GlobalBool("vv") {
		level = slog.LevelDebug
	}
	readback.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
