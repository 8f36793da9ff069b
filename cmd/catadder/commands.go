package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"catadder/internal/adder"
	"catadder/internal/errors"
	"catadder/internal/gui"
	"catadder/internal/log"
	"catadder/internal/selector"
	"catadder/internal/tui"
	"catadder/internal/tui/styles"
	"catadder/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// guiCmd launches the desktop panel
func guiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical catalog picker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return errors.New("GUI not available in this build, use the tui command")
			}

			var appOpts []gui.AppOption
			if cfg.Browser.Watch {
				if w, err := watch.New(); err != nil {
					log.LogWithError(err).Warn("Directory watching unavailable")
				} else {
					appOpts = append(appOpts, gui.WithWatcher(w))
				}
			}

			f := gui.NewFactory(cfg, newOpener(cfg).Open, adderOptions(openHistory(cfg)), appOpts...)
			return gui.StartGUI(f)
		},
	}
}

// tuiCmd runs the terminal panel and prints the catalog that was added
func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal catalog picker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(cmd.ErrOrStderr(), true)

			panel, err := adder.NewPanel(cfg, newOpener(cfg).Open, nil, adderOptions(openHistory(cfg))...)
			if err != nil {
				return err
			}

			opts := []tui.Option{tui.WithQuitOnAdd(true), tui.WithContext(cmd.Context())}
			if cfg.Browser.Watch {
				w, err := watch.New()
				if err == nil {
					err = w.Start()
				}
				if err != nil {
					log.LogWithError(err).Warn("Directory watching unavailable")
				} else {
					defer w.Stop()
					opts = append(opts, tui.WithWatcher(w))
				}
			}

			m := tui.New(panel, styles.New(cfg), opts...)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}

			if cat := m.Added(); cat != nil {
				return printCatalog(cmd.OutOrStdout(), &outputOptions{}, cat)
			}
			return nil
		},
	}
}

// openCmd opens a catalog without any interface
func openCmd() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "open <location>",
		Short: "Open a catalog file or URL and list its sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := args[0]
			if !selector.IsAbsoluteURL(location) {
				location = absPath(location)
			}

			cat, err := newOpener(cfg).Open(cmd.Context(), location)
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), &out, cat)
		},
	}
	addOutputFlag(cmd, &out)
	return cmd
}

// lsCmd prints the listing the local tab would show
func lsCmd() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List catalog files and subdirectories",
		Long:  `List a directory the way the Local tab does: filtered catalog files and subdirectories, hidden entries omitted. Defaults to the configured browser home.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := selector.NewFilter(cfg.Browser.Filters, cfg.Browser.Exclude)
			if err != nil {
				return errors.NewConfigError("invalid browser filter", "browser.filters", errors.InvalidConfig, err)
			}
			sel := selector.NewFileSelector(cfg.HomeDir(),
				selector.WithFilter(filter),
				selector.WithGitignore(cfg.Browser.RespectGitignore),
			)
			if len(args) > 0 {
				sel.SetPath(absPath(args[0]))
			}
			if !sel.IsValid() {
				return errors.NewFileError("not a directory", sel.Path(), errors.InvalidPath, nil)
			}
			return printEntries(cmd.OutOrStdout(), &out, sel.Path(), sel.Entries())
		},
	}
	addOutputFlag(cmd, &out)
	return cmd
}

// recentCmd lists or clears the history of added catalogs
func recentCmd() *cobra.Command {
	var (
		out      outputOptions
		clearAll bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently added catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openHistory(cfg)
			if store == nil {
				return errors.NewConfigError("history is disabled", "history.enabled", errors.InvalidConfig, nil)
			}

			if clearAll {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			}

			if !cmd.Flags().Changed("limit") {
				limit = cfg.History.Limit
			}
			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printRecent(cmd.OutOrStdout(), &out, entries)
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Forget all recently added catalogs")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	addOutputFlag(cmd, &out)
	return cmd
}

// absPath resolves relative paths against the working directory, leaving
// home-relative paths for the selector to expand
func absPath(p string) string {
	if p == "" || strings.HasPrefix(p, "~") || filepath.IsAbs(p) {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
