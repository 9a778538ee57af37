// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// root.go — the persistctl command tree: configuration loading through
// viper, logger initialisation, and the Store shared by every subcommand.

// Package cli implements the persistctl commands.
package cli

import (
	"errors"
	"log/slog"

	"github.com/AndrewDonelson/persist"
	"github.com/AndrewDonelson/persist/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "persistctl"

type app struct {
	v      *viper.Viper
	values Config
	store  *persist.Store
}

// NewRootCmd builds the persistctl command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Inspect and export files written by persist",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return nil
			}
			return a.store.Close()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a persistctl.yaml file")
	a.declareString(root, "log-level", "log-level", defaultConfig.LogLevel, "Log level: debug, info, warn or error")
	a.declareString(root, "lock", "lock", defaultConfig.Lock, "Lock mode: local, file or redis")
	a.declareString(root, "markup-ext", "markup-ext", defaultConfig.MarkupExt, "Extension selecting the XML codec")
	a.declareString(root, "codec", "codec", defaultConfig.Codec, "Binary codec: msgpack, json or gob")
	a.declareString(root, "key", "key", "", "Hex encoded 32 byte key for sealed binary files")
	a.declareString(root, "redis-addr", "redis.addr", "", "Redis address for the redis lock mode")
	a.declareString(root, "postgres-dsn", "postgres-dsn", "", "PostgreSQL DSN for export")

	root.AddCommand(
		newStatCmd(a),
		newTableCmd(a),
		newDumpCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) declareString(cmd *cobra.Command, name, key, defaultValue, description string) {
	cmd.PersistentFlags().String(name, defaultValue, description)
	if err := a.v.BindPFlag(key, cmd.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

func (a *app) load(cmd *cobra.Command) error {
	a.v.SetConfigType("yaml")
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		a.v.SetConfigName(appName)
		a.v.AddConfigPath(".")
	}

	// Try to read config file, but don't fail if it doesn't exist.
	// Flags can provide all necessary configuration.
	readErr := a.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if readErr != nil && !errors.As(readErr, &notFound) {
		logger.Initialize(logger.ParseLevel(defaultConfig.LogLevel))
		const errMsg = "error reading config file"
		slog.With("err", readErr.Error()).Error(errMsg)
		return errors.Join(readErr, errors.New(errMsg))
	}

	if err := a.v.Unmarshal(&a.values); err != nil {
		const errMsg = "unable to decode application config"
		return errors.Join(err, errors.New(errMsg))
	}
	logger.Initialize(logger.ParseLevel(a.values.LogLevel))

	if readErr == nil {
		slog.With("config_file", a.v.ConfigFileUsed()).Debug("config file loaded")
	} else {
		slog.Debug("no config file found, will rely on flags and defaults")
	}
	return nil
}

// open builds the Store on first use so commands that need none, such as
// version, never dial Redis or PostgreSQL.
func (a *app) open() (*persist.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := a.values.storeConfig()
	if err != nil {
		return nil, err
	}
	s, err := persist.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}
