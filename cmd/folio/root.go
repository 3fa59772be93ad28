package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/folio"
)

var (
	cfgFile string
	siteCfg folio.SiteConfig
	logger  zerolog.Logger
)

// flagKeys maps command flags onto config keys so a flag overrides the
// file and the environment.
var flagKeys = map[string]string{
	"addr":        "addr",
	"content-dir": "content_dir",
	"strict":      "strict_content",
	"log-level":   "log.level",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "folio",
		Short: "Portfolio and blog site",
		Long: `folio serves a personal portfolio with a blog, and renders the
animated backgrounds its pages use.

Configuration comes from config.yaml (or --config), then FOLIO_* environment
variables (FOLIO_MAIL_HOST for mail.host), then flags. A .env file in the
working directory is loaded first.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(),
		newPostsCmd(),
		newBackgroundCmd(),
		newPreviewCmd(),
		newVersionCmd(),
	)
	return root
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	v.SetDefault("name", "Folio")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("addr", ":3000")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("content_dir", "")
	v.SetDefault("strict_content", false)
	v.SetDefault("catalog_dsn", ":memory:")
	v.SetDefault("background_ttl", time.Hour)
	v.SetDefault("background.home", "particles")
	v.SetDefault("background.blog", "matrix")
	v.SetDefault("background.width", 960)
	v.SetDefault("background.height", 540)
	v.SetDefault("background.frames", 48)
	v.SetDefault("background.delay", 60*time.Millisecond)
	v.SetDefault("background.opacity", 0.4)
	v.SetDefault("background.class_name", "bg-canvas")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", "587")
	v.SetDefault("mail.user", "")
	v.SetDefault("mail.pass", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.to", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	configured := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configured = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&siteCfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	logger = folio.NewLogger(siteCfg.Log, os.Stderr)
	if configured != "" {
		logger.Debug().Str("file", configured).Msg("using config file")
	}
	return nil
}
