package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/san-kum/kepler/internal/config"
	"github.com/san-kum/kepler/internal/logging"
	"github.com/san-kum/kepler/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	dataDir  string
	logLevel string
	theme    string

	cfg *config.Config
	log zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "kepler",
		Short:         "binary star orbital elements and initial conditions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = loadConfig(); err != nil {
				return err
			}
			log = logging.Console(cfg.LogLevel)
			viz.SetTheme(theme)
			if used := viper.ConfigFileUsed(); used != "" {
				log.Debug().Str("file", used).Msg("using config")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./kepler.yaml or ~/.kepler/kepler.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutDir, "directory for generated initial conditions")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeNight.Name, "output colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	_ = viper.BindPFlag("out_dir", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		initCmd(), listCmd(), showCmd(), elementsCmd(), perihelionCmd(),
		stabilityCmd(), rocheCmd(), periodCmd(), semiCmd(), anomalyCmd(),
		catalogCmd(), presetsCmd(), convertCmd(),
	)

	cobra.OnInitialize(initConfig)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.Bad.Render("error:"), err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".kepler"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("kepler")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("KEPLER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig layers the config file, KEPLER_* environment variables and
// explicitly set flags over the defaults, in that order.
func loadConfig() (*config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := config.DefaultConfig()
	if used := viper.ConfigFileUsed(); used != "" {
		loaded, err := config.Load(used)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}

	if viper.IsSet("out_dir") {
		c.OutDir = viper.GetString("out_dir")
	}
	if viper.IsSet("log_level") {
		c.LogLevel = viper.GetString("log_level")
	}
	if viper.IsSet("star_mode") {
		c.StarMode = viper.GetString("star_mode")
	}
	if viper.IsSet("catalog.filter") {
		c.Catalog.Filter = viper.GetString("catalog.filter")
	}
	return c, nil
}
