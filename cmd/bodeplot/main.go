package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ja7ad/phaseplot/pkg/config"
	"github.com/ja7ad/phaseplot/pkg/logging"
	"github.com/ja7ad/phaseplot/pkg/overlay"
	"github.com/ja7ad/phaseplot/pkg/render"
	"github.com/ja7ad/phaseplot/pkg/types"
)

type opts struct {
	configPath string
	dir        string
	pattern    string
	outPath    string
	perFile    bool
	outDir     string
	verbose    bool
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "bodeplot [FILE.csv]...",
		Short: "Overlay Bode magnitude curves from CSV files",
		Long: `The bodeplot tool reads two-column CSV files (frequency, magnitude) with a
label header, detects the delimiter and decimal style of each file, and draws
all curves on one logarithmic frequency axis. Files that cannot be read are
reported and skipped.

Without arguments every file matching --pattern in --dir is used.

Examples:
  bodeplot
  bodeplot --dir measurements --out bode_all.svg
  bodeplot --per-file --out-dir plots a.csv b.csv`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args)
		},
	}

	f := root.Flags()
	f.StringVarP(&o.configPath, "config", "c", config.DefaultPath, "YAML configuration file (missing file means defaults)")
	f.StringVarP(&o.dir, "dir", "d", "", "directory to search when no files are given")
	f.StringVarP(&o.pattern, "pattern", "p", "", "file name pattern to search for (default *.csv)")
	f.StringVarP(&o.outPath, "out", "o", "", "combined chart file (.html, .svg or .png)")
	f.BoolVar(&o.perFile, "per-file", false, "also write one chart per input file")
	f.StringVar(&o.outDir, "out-dir", "", "directory for per-file charts (default: next to each input)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func effectiveConfig(cmd *cobra.Command, o opts) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	b := &cfg.Bode
	if o.dir != "" {
		b.Dir = o.dir
	}
	if o.pattern != "" {
		b.Pattern = o.pattern
	}
	if o.outPath != "" {
		b.Out = o.outPath
	}
	if cmd.Flags().Changed("per-file") {
		b.PerFile = o.perFile
	}
	if o.outDir != "" {
		b.OutDir = o.outDir
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, o opts, args []string) error {
	cfg, err := effectiveConfig(cmd, o)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := plot(log, cmd.OutOrStdout(), cfg.Bode, args); err != nil {
		log.Error("bodeplot failed", zap.Error(err))
		return err
	}
	return nil
}

type artifact struct {
	path string
	size types.Bytes
}

// plot aggregates the candidates and writes the combined chart, plus one
// chart per file when asked. Nothing is written if no file parsed.
func plot(log *zap.Logger, out io.Writer, bc config.BodeConfig, files []string) error {
	if len(files) == 0 {
		var err error
		files, err = overlay.Discover(bc.Dir, bc.Pattern)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Info("no CSV files found", zap.String("dir", bc.Dir), zap.String("pattern", bc.Pattern))
			return nil
		}
	}

	log.Info("generating combined plot", zap.Int("files", len(files)))
	coll, err := overlay.Aggregate(files, overlay.WithLogger(log))
	if err != nil {
		if errors.Is(err, overlay.ErrNoUsableInput) {
			printSkipped(out, coll.Skipped)
		}
		return err
	}

	var artifacts []artifact
	size, err := render.Export(bc.Out, coll.Figure())
	if err != nil {
		return fmt.Errorf("combined chart %s: %w", bc.Out, err)
	}
	artifacts = append(artifacts, artifact{bc.Out, size})

	if bc.PerFile {
		for _, e := range coll.Entries {
			path := e.OutputPath(bc.OutDir)
			size, err := render.Export(path, e.Figure())
			if err != nil {
				// one unplottable file does not spoil the others
				log.Warn("per-file chart skipped", zap.String("file", e.Name), zap.Error(err))
				continue
			}
			artifacts = append(artifacts, artifact{path, size})
		}
	}

	printEntries(out, coll)
	printSkipped(out, coll.Skipped)
	printArtifacts(out, artifacts)
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printEntries(w io.Writer, coll *overlay.Collection) {
	tw := newTable(w)
	fmt.Fprintln(tw, "FILE\tROWS\tDROPPED\tDELIMITER")
	fmt.Fprintln(tw, "----\t----\t-------\t---------")
	for _, e := range coll.Entries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%q\n", filepath.Base(e.Path), e.Series.Len(), e.Series.Dropped, e.Series.Delimiter)
	}
	tw.Flush()
}

func printSkipped(w io.Writer, skipped []overlay.Skip) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "SKIPPED\tREASON")
	fmt.Fprintln(tw, "-------\t------")
	for _, s := range skipped {
		fmt.Fprintf(tw, "%s\t%v\n", filepath.Base(s.Path), s.Err)
	}
	tw.Flush()
}

func printArtifacts(w io.Writer, artifacts []artifact) {
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "ARTIFACT\tSIZE")
	fmt.Fprintln(tw, "--------\t----")
	for _, a := range artifacts {
		fmt.Fprintf(tw, "%s\t%s\n", a.path, a.size.Humanized())
	}
	tw.Flush()
}
