package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/thesavant42/exportatlas/internal/config"
	"github.com/thesavant42/exportatlas/internal/source"
	"github.com/thesavant42/exportatlas/internal/ui"
)

var (
	cfgFile string
	cfg     config.Config
)

// rootCmd launches the catalog browser when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "exportatlas",
	Short: "Browse how to export your data from online services.",
	Long: `exportatlas is a terminal catalog of online services and how to get your
data out of them: export formats, whether the account must be deleted first,
how long it takes and where to start.

Run without arguments to open the interactive browser.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runBrowser,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.exportatlas.yaml)")
	flags.StringP("source", "s", config.DefaultSource, "service list: JSON file, SQLite .db file or http(s) URL")
	flags.Int("page-size", 12, "services per page")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-file", "", "write logs to this file (logs are discarded in the browser otherwise)")
	rootCmd.Flags().Bool("watch", true, "reload when the source file changes")

	bindFlag(config.KeySource, flags.Lookup("source"))
	bindFlag(config.KeyPageSize, flags.Lookup("page-size"))
	bindFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	bindFlag(config.KeyLogFile, flags.Lookup("log-file"))
	bindFlag(config.KeyWatch, rootCmd.Flags().Lookup("watch"))
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
	}
}

// loadConfig resolves the config file, env and flags into cfg
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.Init(viper.GetViper(), cfgFile); err != nil {
		return err
	}
	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	return nil
}

// newLogger builds the app logger. While the TUI owns the terminal, logs go
// to the log file or nowhere.
func newLogger(tui bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	case tui:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return logger, closer, nil
}

func runBrowser(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := source.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer source.Close(src)

	var changes <-chan struct{}
	if path, ok := source.Watchable(src); ok && cfg.Watch {
		watcher, err := source.NewWatcher(path, source.DefaultWatchDebounce, logger)
		if err != nil {
			// Manual reload still works
			logger.Warn("file watching disabled", "err", err)
		} else {
			defer watcher.Stop()
			changes = watcher.Changes()
		}
	}

	info, err := source.Describe(src)
	if err != nil {
		logger.Warn("failed to describe source", "source", cfg.Source, "err", err)
	}

	logger.Info("starting browser", "source", cfg.Source, "page_size", cfg.PageSize)
	return ui.RunBrowser(ui.Options{
		Source:         src,
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
		Changes:        changes,
		SourceInfo:     info,
		Logger:         logger,
	})
}
