package main

import (
	"log/slog"
	"os"

	"github.com/AndrewDonelson/persist/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		os.Exit(1)
	}
}
