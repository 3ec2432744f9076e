/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/substantialcattle5/findup/internal/config"
	"github.com/substantialcattle5/findup/internal/deduplication"
	"github.com/substantialcattle5/findup/internal/execcmd"
	"github.com/substantialcattle5/findup/internal/fs"
	"github.com/substantialcattle5/findup/internal/hashing"
	"github.com/substantialcattle5/findup/internal/progress"
	"github.com/substantialcattle5/findup/internal/report"
)

var errNoPaths = errors.New("no paths to scan")

// scanOptions are the settings of one run after config file and flags are merged
type scanOptions struct {
	cfg        *config.Config
	quiet      bool
	verbose    int
	pathsFile  string
	mockPrefix string
	mockFull   string
}

func runScan(cmd *cobra.Command, args []string) error {
	opts, err := loadScanOptions(cmd)
	if err != nil {
		return err
	}

	if opts.pathsFile == "" && len(args) == 0 {
		_ = cmd.Help()
		return errNoPaths
	}

	pm := progress.NewManager(progress.Options{
		Quiet:        opts.quiet,
		Verbose:      opts.verbose,
		NoSummary:    opts.cfg.NoSummary,
		ShowProgress: progress.StderrIsTerminal(),
		Out:          cmd.OutOrStdout(),
	})

	warnings, err := opts.cfg.Validate()
	if err != nil {
		return err
	}
	if opts.quiet && opts.verbose > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "INFO: both -q and -v is given, but I choose to be quiet from now on")
	}
	if opts.pathsFile != "" && len(args) > 0 {
		warnings = append(warnings, "directories supplied in both --paths and as arguments, scanning all of them")
	}
	for _, warning := range warnings {
		pm.PrintVerbose(1, "INFO: %s\n", warning)
	}

	roots, err := collectRoots(opts.pathsFile, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = pm.SetupCancellation(ctx)
	defer pm.Cleanup()

	result, err := findDuplicates(ctx, pm, opts, roots)
	if err != nil {
		if pm.IsCancelled() {
			return fmt.Errorf("operation cancelled: %w", err)
		}
		return err
	}

	runner := execcmd.NewRunner(opts.cfg.Exec, opts.cfg.ExecHashArg)
	runner.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	runner.SetLogger(pm)
	reporter := report.NewReporter(pm)

	for i := range result.Groups {
		group := &result.Groups[i]
		reporter.Group(group)
		if err := runner.Run(ctx, string(group.Key), group.Files); err != nil {
			return fmt.Errorf("failed to execute command: %w", err)
		}
	}
	reporter.Summary(result.Stats)

	return nil
}

// findDuplicates scans every root and runs the duplicate search
func findDuplicates(ctx context.Context, pm *progress.Manager, opts *scanOptions, roots []string) (*deduplication.Result, error) {
	bufferSize, err := opts.cfg.BufferBytes()
	if err != nil {
		return nil, err
	}

	finder := deduplication.NewFinder(deduplication.Options{
		MinFileSize: opts.cfg.MinFileSize,
		PrefixSize:  opts.cfg.PrefixSize,
		Paranoid:    opts.cfg.Paranoid,
		Workers:     opts.cfg.Workers,
		SortBy:      opts.cfg.Sort,
		Hash: hashing.Options{
			BufferSize: bufferSize,
			MockPrefix: hashing.Key(opts.mockPrefix),
			MockFull:   hashing.Key(opts.mockFull),
			OnRead:     pm.UpdateTotalProgress,
		},
	})
	finder.SetProgressManager(pm)

	for _, root := range roots {
		pm.PrintVerbose(1, "Scanning %s:\n", root)
		finder.AddRoot(root)

		err := fs.Walk(root, func(path string, size int64) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			finder.AddFile(deduplication.CandidateFile{Path: path, Size: size})
			return nil
		}, func(path string, err error) {
			pm.PrintVerbose(1, "Error reading %s: %v\n", path, err)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	pm.InitTotalProgress(-1, "Hashing")
	result, err := finder.Run(ctx)
	pm.FinishTotalProgress()
	return result, err
}

// collectRoots returns the roots from the path list file followed by the arguments
func collectRoots(pathsFile string, args []string) ([]string, error) {
	var roots []string

	if pathsFile != "" {
		rc, err := fs.OpenPathList(pathsFile)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		listed, err := fs.ReadPathList(rc)
		if err != nil {
			return nil, err
		}
		roots = append(roots, listed...)
	}

	return append(roots, args...), nil
}

// loadScanOptions reads the config file and applies the flags set on the command line
func loadScanOptions(cmd *cobra.Command) (*scanOptions, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	applyFlags(flags, cfg)

	opts := &scanOptions{cfg: cfg}
	opts.quiet, _ = flags.GetBool("quiet")
	opts.verbose, _ = flags.GetCount("verbose")
	opts.pathsFile, _ = flags.GetString("paths")
	opts.mockPrefix, _ = flags.GetString("mock-prefix-hash")
	opts.mockFull, _ = flags.GetString("mock-full-hash")

	return opts, nil
}

// applyFlags copies the settings given on the command line over cfg
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("min-file-size") {
		cfg.MinFileSize, _ = flags.GetInt64("min-file-size")
	}
	if flags.Changed("prefix-size") {
		cfg.PrefixSize, _ = flags.GetInt64("prefix-size")
	}
	if flags.Changed("buffer-size") {
		cfg.BufferSize, _ = flags.GetString("buffer-size")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("paranoid") {
		cfg.Paranoid, _ = flags.GetBool("paranoid")
	}
	if flags.Changed("exec") {
		cfg.Exec, _ = flags.GetString("exec")
	}
	if flags.Changed("exec-hash-arg") {
		cfg.ExecHashArg, _ = flags.GetBool("exec-hash-arg")
	}
	if flags.Changed("sort") {
		cfg.Sort, _ = flags.GetString("sort")
	}
	if flags.Changed("no-summary") {
		cfg.NoSummary, _ = flags.GetBool("no-summary")
	}
}

// loadConfig loads the file named by --config, or the per-user file when it exists
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, explicit, err := configPath(cmd)
	if err != nil {
		// No per-user config directory, run with the defaults
		return config.Default(), nil
	}

	if explicit {
		if _, err := fs.VerifyFileAndReturnFileInfo(path); err != nil {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	}
	return config.Load(path)
}

// configPath returns the config file location and whether it was given explicitly
func configPath(cmd *cobra.Command) (string, bool, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return path, true, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", false, err
	}
	return path, false, nil
}
