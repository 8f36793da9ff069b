package main

import (
	"io"
	"os"
	"path/filepath"

	"catadder/internal/adder"
	"catadder/internal/catalog"
	"catadder/internal/config"
	"catadder/internal/history"
	"catadder/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	jsonLog bool
	cfg     *config.Config
)

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "catadder",
		Short:   "Pick a data catalog from disk or a URL and open it",
		Long:    `catadder browses local directories for catalog files, accepts remote catalog URLs, and opens the chosen catalog.`,
		Version: version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(cmd.ErrOrStderr(), false)

			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/catadder/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "write logs as JSON")

	rootCmd.AddCommand(guiCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(lsCmd())
	rootCmd.AddCommand(recentCmd())

	return rootCmd
}

// configureLogging points the package logger at out. Interactive terminal
// sessions keep the screen clean and only log to a file when debugging.
func configureLogging(out io.Writer, terminal bool) {
	var opts []log.Option
	if terminal {
		opts = append(opts, log.WithOutput(io.Discard))
		if debug {
			opts = append(opts, log.WithFile(filepath.Join(os.TempDir(), "catadder.log")))
		}
	} else {
		opts = append(opts, log.WithOutput(out))
	}
	if jsonLog {
		opts = append(opts, log.WithJSON())
	}
	log.Configure(opts...)
	log.SetDebug(debug)
}

func newOpener(cfg *config.Config) *catalog.Opener {
	return catalog.NewOpener(
		catalog.WithTimeout(cfg.RemoteTimeout()),
		catalog.WithUserAgent(cfg.Remote.UserAgent),
	)
}

// openHistory returns nil when history is disabled
func openHistory(cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	return history.Open(cfg.HistoryDir())
}

func adderOptions(store *history.Store) []adder.Option {
	if store == nil {
		return nil
	}
	return []adder.Option{adder.WithRecorder(store)}
}
