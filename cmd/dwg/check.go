package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/dwg/internal/analyzer"
	"github.com/dshills/dwg/internal/discover"
	"github.com/dshills/dwg/internal/document"
	"github.com/dshills/dwg/internal/render"
	"github.com/dshills/dwg/internal/report"
	"github.com/dshills/dwg/internal/schema"
)

const stdinPath = "-"

type checkFlags struct {
	configPath  string
	profileName string
	format      string
	out         string
	strict      bool
	jobs        int
	verbose     bool
	debug       bool
	noColor     bool
	include     []string
	exclude     []string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newCheckCmd() *cobra.Command {
	f := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [path|glob|-]...",
		Short: "Lint files, directories or globs and report flagged prose",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.stdin = cmd.InOrStdin()
			f.stdout = cmd.OutOrStdout()
			f.stderr = cmd.ErrOrStderr()
			return runCheck(cmd.Context(), args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Config file path (default: $DWG_CONFIG or .dwg.yaml)")
	flags.StringVar(&f.profileName, "profile", "", "Profile for every file (default: chosen by profile globs)")
	flags.StringVar(&f.format, "format", "text", "Output format: text, json or md")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.BoolVar(&f.strict, "strict", false, "Exit non-zero when any file reaches the warn threshold")
	flags.IntVar(&f.jobs, "jobs", 0, "Files analysed in parallel (default: GOMAXPROCS)")
	flags.BoolVar(&f.verbose, "verbose", false, "Log processing steps to stderr")
	flags.BoolVar(&f.debug, "debug", false, "Validate every report against its source text")
	flags.BoolVar(&f.noColor, "no-color", false, "Disable colored text output")
	flags.StringSliceVar(&f.include, "include", nil, "Glob for files picked up in directories (may be repeated)")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "Glob for files to skip (may be repeated)")

	return cmd
}

func runCheck(ctx context.Context, args []string, f *checkFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.stdout == nil {
		f.stdout = os.Stdout
	}
	if f.stderr == nil {
		f.stderr = os.Stderr
	}
	logger := newLogger(f.stderr, f.verbose)

	switch f.format {
	case "text", "json", "md":
	default:
		return exitError(exitUsage, "unknown format: %s", f.format)
	}

	// 1. Config and analyzer
	a, err := loadAnalyzer(f.configPath, logger)
	if err != nil {
		return err
	}
	if f.profileName != "" {
		if _, ok := a.Recipe(f.profileName); !ok {
			return exitError(exitUsage, "unknown profile %q", f.profileName)
		}
	}

	// 2. Files
	paths, err := collectPaths(args, f)
	if err != nil {
		return err
	}
	logger.Debug("discovered files", "count", len(paths))

	// 3. Analyse
	start := time.Now()
	files, err := analyzeAll(ctx, a, paths, f, logger)
	if err != nil {
		return err
	}
	logger.Debug("analysis finished", "files", len(files), "elapsed", time.Since(start))

	run := &report.Run{
		Tool:    "dwg",
		Version: version,
		Files:   files,
		Summary: report.ComputeSummary(files),
	}
	if f.debug {
		for _, e := range schema.ValidateRun(run) {
			logger.Error("run validation", "path", e.Path, "error", e.Message)
		}
	}

	// 4. Output
	var output []byte
	switch f.format {
	case "json":
		output, err = render.JSON(run)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
	case "md":
		output = []byte(render.Markdown(run))
	default:
		output = []byte(render.Text(run, render.TextOptions{Color: !f.noColor && f.out == ""}))
	}

	if f.out != "" {
		logger.Debug("writing output", "path", f.out)
		if err := os.WriteFile(f.out, output, 0644); err != nil {
			return exitError(exitUsage, "failed to write output: %v", err)
		}
	} else if _, err := f.stdout.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// 5. Exit code from the worst verdict
	switch {
	case run.Summary.Verdict == report.VerdictFail:
		return &exitErr{code: exitThreshold}
	case f.strict && run.Summary.Verdict == report.VerdictWarn:
		return &exitErr{code: exitThreshold}
	}
	return nil
}

func collectPaths(args []string, f *checkFlags) ([]string, error) {
	if len(args) == 1 && args[0] == stdinPath {
		return args, nil
	}
	for _, arg := range args {
		if arg == stdinPath {
			return nil, exitError(exitUsage, "%q cannot be combined with other paths", stdinPath)
		}
	}
	paths, err := discover.Files(args, discover.Options{Include: f.include, Exclude: f.exclude})
	if err != nil {
		return nil, exitError(exitUsage, "%v", err)
	}
	if len(paths) == 0 {
		return nil, exitError(exitUsage, "no files to check")
	}
	return paths, nil
}

// analyzeAll loads and analyses every path on a bounded worker pool sharing
// one Analyzer. Results keep the input order.
func analyzeAll(ctx context.Context, a *analyzer.Analyzer, paths []string, f *checkFlags, logger *log.Logger) ([]report.FileReport, error) {
	jobs := f.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]report.FileReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			fr, err := analyzeFile(a, path, f, logger)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func analyzeFile(a *analyzer.Analyzer, path string, f *checkFlags, logger *log.Logger) (report.FileReport, error) {
	var doc *document.Document
	var err error
	if path == stdinPath {
		doc, err = document.Read(path, f.stdin)
	} else {
		doc, err = document.Load(path)
	}
	if err != nil {
		return report.FileReport{}, exitError(exitUsage, "failed to load %s: %v", path, err)
	}

	name := f.profileName
	if name == "" {
		name = a.ProfileForPath(relativePath(path))
	}

	r, err := a.Analyze(doc.Text, name)
	if err != nil {
		return report.FileReport{}, exitError(exitUsage, "failed to analyse %s: %v", path, err)
	}
	if f.debug {
		for _, e := range schema.Validate(r, doc.Text) {
			logger.Error("report validation", "file", path, "path", e.Path, "error", e.Message)
		}
	}

	scores := a.Config().Scores
	density := r.Density()
	verdict := report.Evaluate(density, scores.WarnThreshold, scores.FailThreshold)
	logger.Debug("analysed", "file", path, "profile", name, "words", r.WordCount,
		"diagnostics", len(r.Diagnostics), "verdict", verdict)

	return report.FileReport{
		Path:    path,
		Hash:    doc.Hash,
		Density: density,
		Verdict: verdict,
		Report:  r,

		Normalized: doc.Normalized,
	}, nil
}

// relativePath returns path relative to the working directory when it lies
// below it, so profile globs match the way users write them.
func relativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
