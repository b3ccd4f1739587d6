package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the ledger parameters an operator can override via a
// config file or environment variables (TXVALIDATE_*) — loaded
// with viper the way the teacher repo's own configuration would be, had
// it carried one; this CLI is the first place in the module that needs
// config at all.
type Config struct {
	EnforceUnspentDefault  bool     `mapstructure:"enforce_unspent_default"`
	AllowShortLongMatching bool     `mapstructure:"allow_short_long_matching"`
	KnownUnits             []string `mapstructure:"known_units"`
}

func loadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("txvalidate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("enforce_unspent_default", true)
	v.SetDefault("allow_short_long_matching", true)
	v.SetDefault("known_units", []string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("txvalidate: reading config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("txvalidate: parsing config: %w", err)
	}
	return &cfg, nil
}
