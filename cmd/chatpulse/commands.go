package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chatpulse/internal/cmdlog"
	"chatpulse/internal/config"
	"chatpulse/internal/filter"
	"chatpulse/internal/ingest"
	"chatpulse/internal/jobs"
	"chatpulse/internal/model"
	"chatpulse/internal/rank"
	"chatpulse/internal/report"
	"chatpulse/internal/server"
	"chatpulse/internal/store"
	"chatpulse/internal/theme"
)

func initCmd() *cobra.Command {
	var path string
	c := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("init", func() error {
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				abs, _ := filepath.Abs(path)
				theme.PrintBanner(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", abs)
				return nil
			})
		},
	}
	c.Flags().StringVar(&path, "path", "./chatpulse.yaml", "path to write config")
	return c
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [csv...]",
		Short: "Decode CSV exports into the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("import", func() error {
				files := args
				if len(files) == 0 {
					files = cfg.Input.Files
				}
				db, err := store.Open(cfg.Storage.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()
				imp, err := jobs.RunImportOnce(cmd.Context(), db, files)
				if err != nil {
					return err
				}
				total, err := db.CountRows(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s of %s rows (%s stored)\n",
					humanize.Comma(int64(imp.Inserted)), humanize.Comma(int64(imp.Rows)), humanize.Comma(int64(total)))
				return nil
			})
		},
	}
}

// filterFlags binds the date and bot flags shared by analyze and serve.
type filterFlags struct {
	after, before string
	excludeBots   bool
}

func (f *filterFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.after, "after", "", "first day to include (YYYY-MM-DD)")
	c.Flags().StringVar(&f.before, "before", "", "last day to include (YYYY-MM-DD)")
	c.Flags().BoolVar(&f.excludeBots, "exclude-bots", false, "drop authors with a #NNNN discriminator")
}

// options merges flags over the config file; flags win when set.
func (f *filterFlags) options(c *cobra.Command) (filter.Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return filter.Options{}, fmt.Errorf("timezone: %w", err)
	}
	opts := filter.Options{
		ExcludeBots: cfg.Filters.ExcludeBots,
		After:       cfg.Filters.After,
		Before:      cfg.Filters.Before,
		Location:    loc,
	}
	if c.Flags().Changed("after") {
		opts.After = f.after
	}
	if c.Flags().Changed("before") {
		opts.Before = f.before
	}
	if c.Flags().Changed("exclude-bots") {
		opts.ExcludeBots = f.excludeBots
	}
	return opts, nil
}

func analyzeCmd() *cobra.Command {
	var (
		ff       filterFlags
		sortKey  string
		order    string
		asJSON   bool
		all      bool
		topWords int
	)
	c := &cobra.Command{
		Use:   "analyze [csv...]",
		Short: "Compute statistics from CSV files or the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("analyze", func() error {
				opts, err := ff.options(cmd)
				if err != nil {
					return err
				}
				rows, err := loadRows(cmd.Context(), args)
				if err != nil {
					return err
				}
				rep, err := jobs.Analyze(rows, opts)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(rep)
				}
				ropts, err := reportOptions(cmd, sortKey, order)
				if err != nil {
					return err
				}
				ropts.AllAuthors = all
				if cmd.Flags().Changed("top-words") {
					ropts.TopWords = topWords
				}
				return report.Write(cmd.OutOrStdout(), rep, ropts)
			})
		},
	}
	ff.bind(c)
	c.Flags().StringVar(&sortKey, "sort", "", "author table column: name, msgs, share, words, resp, starts, media, emojis, calls, calltime")
	c.Flags().StringVar(&order, "order", "", "asc or desc (defaults per column)")
	c.Flags().BoolVar(&asJSON, "json", false, "print the full result bundle as JSON")
	c.Flags().BoolVar(&all, "all", false, "list every author, not just the most active")
	c.Flags().IntVar(&topWords, "top-words", 20, "number of top words to list")
	return c
}

// loadRows decodes files when given and reads the store otherwise.
func loadRows(ctx context.Context, files []string) ([]model.Row, error) {
	if len(files) > 0 {
		return ingest.LoadFiles(files)
	}
	db, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.LoadRows(ctx)
}

func reportOptions(cmd *cobra.Command, sortKey, order string) (report.Options, error) {
	ropts := report.DefaultOptions()
	if cfg.Report.TopWords > 0 {
		ropts.TopWords = cfg.Report.TopWords
	}
	if cfg.Report.TopEmojis > 0 {
		ropts.TopEmojis = cfg.Report.TopEmojis
	}
	if sortKey == "" {
		sortKey = cfg.Report.Sort
	}
	if sortKey != "" {
		m, err := rank.ParseMetric(sortKey)
		if err != nil {
			return ropts, err
		}
		ropts.Metric = m
		ropts.Dir = m.DefaultDirection()
	}
	switch {
	case order != "":
		d, err := rank.ParseDirection(order)
		if err != nil {
			return ropts, err
		}
		ropts.Dir = d
	case cfg.Report.Ascending && !cmd.Flags().Changed("sort"):
		ropts.Dir = rank.Ascending
	}
	return ropts, nil
}

func authorsCmd() *cobra.Command {
	var query string
	c := &cobra.Command{
		Use:   "authors",
		Short: "List or fuzzy-find authors in the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("authors", func() error {
				db, err := store.Open(cfg.Storage.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()
				names, err := db.Authors(cmd.Context())
				if err != nil {
					return err
				}
				if query != "" {
					names = rank.Find(names, query)
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	}
	c.Flags().StringVar(&query, "find", "", "fuzzy author query")
	return c
}

func serveCmd() *cobra.Command {
	var (
		ff      filterFlags
		addr    string
		refresh time.Duration
	)
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve statistics from the record store over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("serve", func() error {
				opts, err := ff.options(cmd)
				if err != nil {
					return err
				}
				if addr == "" {
					addr = cfg.Server.Addr
				}
				db, err := store.Open(cfg.Storage.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				svc := server.New(db, jobs.Analyze, opts)
				if refresh > 0 {
					go func() { _ = jobs.RunRefreshLoop(ctx, refresh, svc.Refresh) }()
				} else if err := svc.Refresh(ctx); err != nil &&
					!errors.Is(err, filter.ErrNoData) && !errors.Is(err, filter.ErrNoDataInRange) {
					return err
				}
				return svc.ListenAndServe(ctx, addr)
			})
		},
	}
	ff.bind(c)
	c.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	c.Flags().DurationVar(&refresh, "refresh", 0, "recompute from the store on this interval (0 disables)")
	return c
}
