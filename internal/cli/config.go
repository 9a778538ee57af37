package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/AndrewDonelson/persist"
)

type (
	// Config is the persistctl configuration, read from persistctl.yaml and
	// overridden by flags.
	Config struct {
		LogLevel    string `mapstructure:"log-level"`
		Lock        string `mapstructure:"lock"`
		MarkupExt   string `mapstructure:"markup-ext"`
		Codec       string `mapstructure:"codec"`
		Key         string `mapstructure:"key"`
		Redis       Redis  `mapstructure:"redis"`
		PostgresDSN string `mapstructure:"postgres-dsn"`
	}

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}
)

var defaultConfig = Config{
	LogLevel:  "info",
	Lock:      "local",
	MarkupExt: ".xml",
	Codec:     "msgpack",
}

// storeConfig converts c into a persist.Config on the OS filesystem.
func (c Config) storeConfig() (persist.Config, error) {
	mode, err := persist.ParseLockMode(c.Lock)
	if err != nil {
		return persist.Config{}, err
	}
	binary, ok := persist.CodecByName(c.Codec)
	if !ok {
		return persist.Config{}, fmt.Errorf("unknown codec %q", c.Codec)
	}
	var key []byte
	if c.Key != "" {
		if key, err = hex.DecodeString(c.Key); err != nil {
			return persist.Config{}, fmt.Errorf("key must be hex encoded: %w", err)
		}
	}
	return persist.Config{
		MarkupExt:     c.MarkupExt,
		BinaryCodec:   binary,
		EncryptionKey: key,
		LockMode:      mode,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
		PostgresDSN:   c.PostgresDSN,
		Logger:        slog.Default().With("name", "persist"),
	}, nil
}
