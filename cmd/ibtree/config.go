package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/ibtree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".ibtree"

// envPrefix is the environment variable prefix for ibtree settings.
const envPrefix = "IBTREE"

// settings holds the CLI configuration, merged from defaults, an optional
// YAML file, IBTREE_* environment variables and command line flags.
type settings struct {
	Order   int     `mapstructure:"order"`
	Alpha   float64 `mapstructure:"alpha"`
	Format  string  `mapstructure:"format"`
	Verbose bool    `mapstructure:"verbose"`
}

// Output formats of the dump and delete commands.
var formats = []string{"text", "color", "dot", "html"}

func (s settings) treeConfig() ibtree.Config {
	return ibtree.Config{Order: s.Order, Alpha: s.Alpha}
}

func (s settings) validate() error {
	for _, f := range formats {
		if s.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q, want one of %s", s.Format, strings.Join(formats, ", "))
}

// loadSettings reads the configuration for cmd. If configPath is empty,
// the config file is searched in CWD and $HOME; a missing file is not an
// error.
func loadSettings(cmd *cobra.Command, configPath string) (settings, error) {
	v := viper.New()
	v.SetDefault("order", ibtree.DefaultOrder)
	v.SetDefault("alpha", 0.0)
	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}
	for _, key := range []string{"order", "alpha", "format", "verbose"} {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return settings{}, err
			}
		}
	}
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}
