package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwdigital/jwsite"
	"github.com/jwdigital/jwsite/logger"
)

// configKeys are bound to JWSITE_* environment variables. Defaults live in
// SiteConfig; empty values here only register the keys with viper.
var configKeys = []string{
	"name", "url", "description", "addr", "database_path", "content_dir",
	"images_dir", "draft_secret", "session_secret", "cookie_secure",
	"cache_ttl", "log_level", "metrics_enabled",
}

type rootOptions struct {
	configFile string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "jwsite",
		Short:         "JW Digital marketing site",
		Long:          "jwsite serves the JW Digital website from a SQLite content store and imports content into it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newServeCmd(opts), newImportCmd(opts), newVersionCmd())
	return cmd
}

func (o *rootOptions) initConfig() error {
	v := o.v
	for _, k := range configKeys {
		v.SetDefault(k, "")
	}
	v.SetDefault("cookie_secure", false)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("cache_ttl", "5m")

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("JWSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || o.configFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (o *rootOptions) siteConfig() (jwsite.SiteConfig, error) {
	var cfg jwsite.SiteConfig
	if err := o.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg.WithDefaults(), nil
}

func newLogger(cfg jwsite.SiteConfig) (logger.Logger, error) {
	return logger.New(logger.Config{Level: cfg.LogLevel})
}
