package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hanrei-feeds/internal/app"
	"hanrei-feeds/internal/config"
	"hanrei-feeds/internal/ioformats"
	"hanrei-feeds/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, config.ErrInvalidBacktrack) {
		os.Exit(2)
	}
	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	var cfgFile, export string

	root := &cobra.Command{
		Use:           "hanrei-feeds [months]",
		Short:         "Refresh per-category Atom feeds of Japanese court decisions",
		Long:          "Searches the courts.go.jp case-law portal for decisions in a 30-day window ending (months-1)*30 days ago, and merges them into one Atom feed per subject category.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			months, err := config.ParseBacktrack(args)
			if err != nil {
				return err
			}
			a, log, err := setup(cmd, cfgFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			res, err := a.Run(cmd.Context(), months)
			if err != nil {
				return err
			}
			if export != "" {
				return a.Export(export, res.Store)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file")
	pf.String("out", "", "directory holding the feed files (default \".\")")
	pf.Int("max-items", 0, "entries kept per feed (default 50)")
	pf.Int("workers", 0, "concurrent item fetches per listing page (default 1)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.StringVar(&export, "export", "", "also write the feed contents as NDJSON to this file")
	root.Flags().Int("max-pages", 0, "stop with an error after this many listing pages (default 500)")

	root.AddCommand(newItemsCmd(&cfgFile, &export))
	return root
}

func newItemsCmd(cfgFile, export *string) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "items --input FILE",
		Short: "Scrape specific case pages listed in a CSV or NDJSON file into the feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := ioformats.ReadURLs(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			a, log, err := setup(cmd, *cfgFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			res, err := a.RunItems(cmd.Context(), urls)
			if err != nil {
				return err
			}
			if *export != "" {
				return a.Export(*export, res.Store)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "csv with a 'url' column, or ndjson")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func setup(cmd *cobra.Command, cfgFile string) (*app.App, *logger.Logger, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewWithConfig(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return app.New(cfg, log), log, nil
}
