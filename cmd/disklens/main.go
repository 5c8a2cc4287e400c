package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/disklens/internal/cache"
	"github.com/fenilsonani/disklens/internal/config"
	"github.com/fenilsonani/disklens/internal/export"
	"github.com/fenilsonani/disklens/internal/model"
	"github.com/fenilsonani/disklens/internal/scanner"
	"github.com/fenilsonani/disklens/internal/ui"
	"github.com/fenilsonani/disklens/pkg/humanize"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath     string
	maxDepth       int
	concurrency    int
	followSymlinks bool
	exportJSON     string
	exportMarkdown string
	exportHTML     string
	noCache        bool
	ignorePatterns []string
)

// usageError marks CLI misuse so main can map it to exit code 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	initLogging()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var uerr *usageError
		if errors.As(err, &uerr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// initLogging wires slog to stderr, with the level taken from LOG.
func initLogging() {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("LOG")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

var rootCmd = &cobra.Command{
	Use:   "disklens [path]",
	Short: "High-performance disk space analyzer",
	Long: `DiskLens analyzes disk usage across large directory trees and presents
the results through a drill-down terminal interface.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	},
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file path")
	flags.IntVarP(&maxDepth, "max-depth", "d", -1, "max recursion depth, >= 0 (unlimited when omitted)")
	flags.IntVarP(&concurrency, "concurrency", "c", 0, "max concurrent directory reads, > 0 (derived from the storage type when omitted)")
	flags.BoolVar(&followSymlinks, "follow-symlinks", false, "traverse symbolic links")
	flags.StringVar(&exportJSON, "export-json", "", "scan, write a JSON report to the given path, and exit")
	flags.StringVar(&exportMarkdown, "export-markdown", "", "scan, write a Markdown report to the given path, and exit")
	flags.StringVar(&exportHTML, "export-html", "", "scan, write an HTML report to the given path, and exit")
	flags.BoolVar(&noCache, "no-cache", false, "skip the scan cache entirely")
	flags.StringArrayVar(&ignorePatterns, "ignore", nil, "skip paths matching this pattern (repeatable)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("cannot resolve path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	if exportJSON != "" || exportMarkdown != "" || exportHTML != "" {
		return runExport(cfg, root)
	}

	return runInteractive(cfg, root)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	// Flags override file values.
	if cmd.Flags().Changed("max-depth") {
		if maxDepth < 0 {
			return nil, fmt.Errorf("max-depth must be >= 0")
		}
		cfg.MaxDepth = maxDepth
	}
	if cmd.Flags().Changed("concurrency") {
		if concurrency <= 0 {
			return nil, fmt.Errorf("concurrency must be > 0")
		}
		cfg.MaxConcurrentIO = concurrency
	}
	if followSymlinks {
		cfg.FollowSymlinks = true
	}
	if noCache {
		cfg.NoCache = true
	}
	cfg.IgnorePatterns = append(cfg.IgnorePatterns, ignorePatterns...)

	return cfg, nil
}

// runExport is the non-interactive path: scan once, write reports, exit.
func runExport(cfg *config.Config, root string) error {
	sc := scanner.New(cfg)

	// Drain the event stream; nobody renders it in headless mode.
	go func() {
		for range sc.Events() {
		}
	}()

	start := time.Now()
	result, err := sc.Scan(context.Background(), root)
	if err != nil {
		return err
	}

	slog.Info("scan finished",
		"files", result.TotalFiles,
		"size", humanize.Bytes(result.TotalSize),
		"duration", time.Since(start))

	writers := []struct {
		path  string
		write func(*model.ScanResult, string) error
	}{
		{exportJSON, export.JSON},
		{exportMarkdown, export.Markdown},
		{exportHTML, export.HTML},
	}
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := w.write(result, w.path); err != nil {
			return err
		}
		fmt.Printf("exported to: %s\n", w.path)
	}

	return nil
}

func runInteractive(cfg *config.Config, root string) error {
	var c *cache.Cache
	if !cfg.NoCache {
		maxSize, err := humanize.ParseBytes(cfg.CacheMaxSize)
		if err != nil {
			slog.Warn("invalid cache_max_size, using 500MB", "value", cfg.CacheMaxSize)
			maxSize = 500 * humanize.MB
		}
		c = cache.New(cfg.CacheDir, maxSize, time.Duration(cfg.CacheMaxAgeDays)*24*time.Hour)
	}

	m := ui.New(root, cfg, c)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("terminal error: %w", err)
	}

	if fm, ok := finalModel.(*ui.Model); ok {
		if ferr := fm.FatalErr(); ferr != nil {
			return ferr
		}
	}

	return nil
}
