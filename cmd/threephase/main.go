package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ja7ad/phaseplot/pkg/config"
	"github.com/ja7ad/phaseplot/pkg/export"
	"github.com/ja7ad/phaseplot/pkg/logging"
	"github.com/ja7ad/phaseplot/pkg/render"
	"github.com/ja7ad/phaseplot/pkg/types"
	"github.com/ja7ad/phaseplot/pkg/util"
	"github.com/ja7ad/phaseplot/pkg/waveform"
)

type opts struct {
	configPath  string
	writeConfig string
	plain       bool
	verbose     bool

	// waveform
	frequency float64
	peak      float64
	cycles    float64
	samples   int
	ratio     float64
	thi       bool
	lineLine  bool
	metrics   bool

	// outputs
	outPath     string
	unit        string
	csvPath     string
	jsonPath    string
	parquetPath string
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "threephase",
		Short: "Three-phase reference waveforms with third harmonic injection",
		Long: `The threephase tool synthesizes three balanced phase references 120 degrees
apart, optionally adds a shared third harmonic (zero-sequence) term, rescales
them to the phase limit and plots them together with the line-to-line
voltages and the resulting fundamental boost.

Examples:
  threephase --out three_phase.html
  threephase --ratio 0.1667 --frequency 60 --peak 170 --out ref.svg
  threephase --plain --out plain.png
  threephase --csv samples.csv --parquet samples.parquet`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}

	f := root.Flags()
	f.StringVarP(&o.configPath, "config", "c", config.DefaultPath, "YAML configuration file (missing file means defaults)")
	f.StringVar(&o.writeConfig, "write-config", "", "write the effective configuration to this file and exit")
	f.BoolVar(&o.plain, "plain", false, "pure unit-amplitude sinusoids: no injection, no line-to-line, no metrics")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	f.Float64Var(&o.frequency, "frequency", 50, "fundamental frequency in Hz")
	f.Float64Var(&o.peak, "peak", 230, "per-phase peak limit after scaling")
	f.Float64Var(&o.cycles, "cycles", 2, "number of fundamental cycles")
	f.IntVar(&o.samples, "samples-per-cycle", 400, "samples per fundamental cycle")
	f.Float64Var(&o.ratio, "ratio", 1.0/6.0, "third harmonic injection ratio k")
	f.BoolVar(&o.thi, "thi", true, "inject the third harmonic")
	f.BoolVar(&o.lineLine, "line-to-line", true, "plot line-to-line voltages")
	f.BoolVar(&o.metrics, "metrics", true, "compute and annotate fundamental metrics")

	f.StringVarP(&o.outPath, "out", "o", "", "chart file (.html, .svg or .png)")
	f.StringVar(&o.unit, "unit", "", "unit appended to voltages")
	f.StringVar(&o.csvPath, "csv", "", "write samples to CSV file")
	f.StringVar(&o.jsonPath, "json", "", "write samples to JSON file")
	f.StringVar(&o.parquetPath, "parquet", "", "write samples to Parquet file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// effectiveConfig layers the config file, --plain and explicitly set flags.
func effectiveConfig(cmd *cobra.Command, o opts) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.plain {
		cfg.Waveform = waveform.PlainConfig()
		cfg.Output.Unit = ""
	}

	f := cmd.Flags()
	w := &cfg.Waveform
	if f.Changed("frequency") {
		w.FrequencyHz = o.frequency
	}
	if f.Changed("peak") {
		w.PeakAmplitude = o.peak
	}
	if f.Changed("cycles") {
		w.Cycles = o.cycles
	}
	if f.Changed("samples-per-cycle") {
		w.SamplesPerCycle = o.samples
	}
	if f.Changed("ratio") {
		w.ThirdHarmonicRatio = o.ratio
	}
	if f.Changed("thi") {
		w.InjectThirdHarmonic = o.thi
	}
	if f.Changed("line-to-line") {
		w.LineToLine = o.lineLine
	}
	if f.Changed("metrics") {
		w.Metrics = o.metrics
	}

	if o.outPath != "" {
		cfg.Output.Path = o.outPath
	}
	if f.Changed("unit") {
		cfg.Output.Unit = o.unit
	}
	if o.csvPath != "" {
		cfg.Output.CSV = o.csvPath
	}
	if o.jsonPath != "" {
		cfg.Output.JSON = o.jsonPath
	}
	if o.parquetPath != "" {
		cfg.Output.Parquet = o.parquetPath
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, o opts) error {
	cfg, err := effectiveConfig(cmd, o)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := generate(log, cmd.OutOrStdout(), cfg, o.writeConfig); err != nil {
		log.Error("threephase failed", zap.Error(err))
		return err
	}
	return nil
}

func generate(log *zap.Logger, out io.Writer, cfg *config.Config, writeConfig string) error {
	if writeConfig != "" {
		if err := cfg.Save(writeConfig); err != nil {
			return err
		}
		log.Info("configuration written", zap.String("path", writeConfig))
		return nil
	}

	wc := cfg.Waveform
	log.Debug("synthesizing",
		zap.Float64("frequency_hz", wc.FrequencyHz),
		zap.Float64("peak", wc.PeakAmplitude),
		zap.Float64("cycles", wc.Cycles),
		zap.Int("samples_per_cycle", wc.SamplesPerCycle),
		zap.Float64("ratio", wc.ThirdHarmonicRatio),
		zap.Bool("inject", wc.InjectThirdHarmonic))

	res := waveform.Generate(wc)
	if res.Set.Degenerate {
		log.Warn("normalization skipped, waveform left unscaled",
			zap.Error(waveform.ErrDegenerateParameters),
			zap.Int("samples", res.Set.Len()))
	}

	fig := buildFigure(res, cfg)
	var artifacts []artifact
	size, err := render.Export(cfg.Output.Path, fig)
	if err != nil {
		return fmt.Errorf("chart %s: %w", cfg.Output.Path, err)
	}
	artifacts = append(artifacts, artifact{cfg.Output.Path, size})

	rows := export.Rows(res)
	for _, path := range []string{cfg.Output.CSV, cfg.Output.JSON, cfg.Output.Parquet} {
		if path == "" {
			continue
		}
		size, err := export.File(path, rows, cfg.Output.Unit)
		if err != nil {
			return fmt.Errorf("samples %s: %w", path, err)
		}
		artifacts = append(artifacts, artifact{path, size})
	}

	printSummary(out, res, cfg.Output.Unit, artifacts)
	return nil
}

func injecting(w waveform.Config) bool {
	return w.InjectThirdHarmonic && w.ThirdHarmonicRatio != 0
}

// buildFigure lays out the phases, the dashed line-to-line traces and the
// metrics note.
func buildFigure(res waveform.Result, cfg *config.Config) *render.Figure {
	w := cfg.Waveform
	unit := cfg.Output.Unit

	fig := &render.Figure{
		XTitle: "Time (s)",
		YTitle: "Amplitude",
		Width:  cfg.Output.Width,
		Height: cfg.Output.Height,
	}
	if unit != "" {
		fig.YTitle = fmt.Sprintf("Voltage (%s)", unit)
	}

	group := "Phases"
	if injecting(w) {
		group = "Phases w/ THI"
		fig.Title = fmt.Sprintf("Three-Phase References with Third Harmonic Injection | f=%s Hz, phase limit=%s%s",
			util.FmtFloat(w.FrequencyHz), util.FmtFloat(w.PeakAmplitude), spaced(unit))
	} else {
		fig.Title = fmt.Sprintf("Three-Phase Sine Waves | f=%s Hz, A=%s%s",
			util.FmtFloat(w.FrequencyHz), util.FmtFloat(w.PeakAmplitude), spaced(unit))
	}

	set := res.Set
	for _, p := range waveform.Phases {
		fig.Add(render.Series{Name: p.String(), Group: group, X: set.Time, Y: set.Phase(p)})
	}
	if ll := res.LineToLine; ll != nil {
		for i, pr := range waveform.Pairs {
			fig.Add(render.Series{Name: pr.Label, Group: "Line-to-Line", X: ll.Time, Y: ll.Values[i], Dashed: true})
		}
	}

	if res.Metrics != nil {
		fig.Annotation = res.Metrics.Lines(unit)
		if share := set.ThirdHarmonicShare(); injecting(w) && !math.IsNaN(share) {
			fig.Annotation = append(fig.Annotation, fmt.Sprintf("3rd harmonic share (phase A): %.3f", share))
		}
	}
	return fig
}

func spaced(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}

type artifact struct {
	path string
	size types.Bytes
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printSummary(w io.Writer, res waveform.Result, unit string, artifacts []artifact) {
	tw := newTable(w)
	set := res.Set

	fmt.Fprintln(tw, "METRIC\tVALUE")
	fmt.Fprintln(tw, "------\t-----")
	fmt.Fprintf(tw, "samples per phase\t%d\n", set.Len())
	fmt.Fprintf(tw, "scaling\t%.4f\n", set.Scaling)
	fmt.Fprintf(tw, "phase peak\t%.2f%s\n", set.Peak(), spaced(unit))
	if m := res.Metrics; m != nil {
		fmt.Fprintf(tw, "fundamental peak\t%.2f%s\n", m.FundamentalPeak, spaced(unit))
		fmt.Fprintf(tw, "line-line peak\t%.2f%s\n", m.LineToLinePeak, spaced(unit))
		fmt.Fprintf(tw, "line-line rms\t%.2f%s\n", m.LineToLineRMS, spaced(unit))
		fmt.Fprintf(tw, "boost\t%+.2f%%\n", m.BoostPercent)
	}
	if share := set.ThirdHarmonicShare(); !math.IsNaN(share) {
		fmt.Fprintf(tw, "3rd harmonic share (phases)\t%.4f\n", share)
	}
	if ll := res.LineToLine; ll != nil {
		if share := ll.ThirdHarmonicShare(); !math.IsNaN(share) {
			fmt.Fprintf(tw, "3rd harmonic share (line-line)\t%.4f\n", share)
		}
	}
	tw.Flush()

	if len(artifacts) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "ARTIFACT\tSIZE")
	fmt.Fprintln(tw, "--------\t----")
	for _, a := range artifacts {
		fmt.Fprintf(tw, "%s\t%s\n", a.path, a.size.Humanized())
	}
	tw.Flush()
}
