package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/bytefind"
	"github.com/hupe1980/bytefind/config"
	"github.com/hupe1980/bytefind/internal/resource"
)

// env is the state shared by all subcommands of one invocation.
type env struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *bytefind.Logger
	rc     *resource.Controller
	stdin  io.Reader
}

func newRootCmd() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:   "bytefind",
		Short: "Search and replace byte patterns in large binary sources",
		Long: `bytefind scans files, S3 objects and MinIO objects for byte patterns
given as hex, text in several encodings, or numbers.

Sources are local paths, s3://bucket/key, minio://bucket/key or - for stdin.
Names ending in .zst or .lz4 are inflated before searching.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e.stdin = cmd.InOrStdin()
			return e.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			u := e.rc.Usage()
			e.logger.Debug("resources",
				"peak_memory", u.PeakMemoryBytes,
				"rejected", u.Rejected,
				"read_bytes", u.ReadBytes,
			)
		},
	}

	cmd.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default ~/.bytefind/config.toml)")
	cmd.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newFindCmd(e),
		newCountCmd(e),
		newReplaceCmd(e),
		newConfigCmd(e),
	)
	return cmd
}

func (e *env) load() error {
	path := e.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
		e.configPath = p
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		cfg.Log.Level = e.logLevel
	}
	lvl, err := cfg.Log.SlogLevel()
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	e.cfg = cfg
	if strings.EqualFold(cfg.Log.Format, "json") {
		e.logger = bytefind.NewJSONLogger(lvl)
	} else {
		e.logger = bytefind.NewTextLogger(lvl)
	}
	e.rc = resource.NewController(resource.Config{
		MemoryLimitBytes:     int64(cfg.Resources.MemoryLimit),
		MaxBackgroundWorkers: cfg.Resources.BackgroundWorkers,
		IOLimitBytesPerSec:   int64(cfg.Resources.IOLimit),
	})
	return nil
}

func (e *env) finderOptions(out *output) []bytefind.Option {
	opts := []bytefind.Option{
		bytefind.WithLogger(e.logger),
		bytefind.WithWindowSize(uint64(e.cfg.Search.Window)),
		bytefind.WithAsyncThreshold(uint64(e.cfg.Search.AsyncThreshold)),
		bytefind.WithResourceController(e.rc),
		bytefind.WithProgressRate(e.cfg.Search.ProgressPerSecond),
	}
	if out.interactive {
		opts = append(opts, bytefind.WithProgress(out.progress))
	}
	return opts
}
