package render

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ja7ad/phaseplot/pkg/util"
)

// Format selects the rendered artifact.
type Format int

const (
	SVG Format = iota
	PNG
	HTML
)

func (f Format) String() string {
	switch f {
	case SVG:
		return "svg"
	case PNG:
		return "png"
	case HTML:
		return "html"
	default:
		return "unknown"
	}
}

// Render writes fig to w in the given format.
func Render(w io.Writer, fig *Figure, format Format) error {
	switch format {
	case SVG:
		return renderChart(w, fig, chart.SVG)
	case PNG:
		return renderChart(w, fig, chart.PNG)
	case HTML:
		return WriteHTML(w, fig)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
}

func renderChart(w io.Writer, fig *Figure, rp chart.RendererProvider) error {
	c, err := buildChart(fig)
	if err != nil {
		return err
	}
	if err := c.Render(rp, w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// buildChart maps a Figure onto a go-chart Chart. Axis ranges are computed
// here so flat or single-point data never reaches go-chart as a zero range.
func buildChart(fig *Figure) (chart.Chart, error) {
	fig = fig.colored()

	var (
		series []chart.Series
		xb, yb bounds
	)
	for _, s := range fig.Series {
		xs, ys := plottable(s.X, s.Y, fig.XLog)
		if len(xs) == 0 {
			continue
		}
		style := chart.Style{
			StrokeColor: drawing.ColorFromHex(s.Color),
			StrokeWidth: 1.5,
		}
		if s.Dashed {
			style.StrokeDashArray = []float64{6, 4}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			Style:   style,
			XValues: xs,
			YValues: ys,
		})
		xb.extend(xs)
		yb.extend(ys)
	}
	if len(series) == 0 {
		return chart.Chart{}, ErrNothingToRender
	}

	xMin, xMax := xb.min, xb.max
	var xTicks []chart.Tick
	if fig.XLog {
		xMin, xMax = math.Floor(xMin), math.Ceil(xMax)
		if xMax <= xMin {
			xMax = xMin + 1
		}
		xTicks = decadeTicks(xMin, xMax)
	} else {
		xMin, xMax = widen(xMin, xMax)
	}
	yMin, yMax := widen(yb.min, yb.max)
	pad := 0.05 * (yMax - yMin)
	yMin, yMax = yMin-pad, yMax+pad

	if len(fig.Annotation) > 0 {
		series = append(series, annotation(fig.Annotation, xMin, yMax, yMax-yMin))
	}

	w, h := fig.size()
	c := chart.Chart{
		Title:  fig.Title,
		Width:  w,
		Height: h,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  fig.XTitle,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Name:  fig.YTitle,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c, nil
}

// plottable drops points with a non-finite coordinate and, for a log axis,
// non-positive x. Log-axis x values are returned as log10.
func plottable(x, y []float64, xlog bool) ([]float64, []float64) {
	n := min(len(x), len(y))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		xv, yv := x[i], y[i]
		if !util.IsFinite(xv) || !util.IsFinite(yv) {
			continue
		}
		if xlog {
			if xv <= 0 {
				continue
			}
			xv = math.Log10(xv)
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	return xs, ys
}

type bounds struct {
	min, max float64
	set      bool
}

func (b *bounds) extend(v []float64) {
	for _, x := range v {
		if !b.set {
			b.min, b.max, b.set = x, x, true
			continue
		}
		b.min = math.Min(b.min, x)
		b.max = math.Max(b.max, x)
	}
}

// widen turns an empty interval into one of width 2 around the value.
func widen(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	return lo - 1, hi + 1
}

// decadeTicks labels every integer power of ten between lo and hi (log10
// units) with its value on the linear scale.
func decadeTicks(lo, hi float64) []chart.Tick {
	var ticks []chart.Tick
	for d := lo; d <= hi; d++ {
		ticks = append(ticks, chart.Tick{Value: d, Label: decadeLabel(d)})
	}
	return ticks
}

func decadeLabel(exp float64) string {
	switch e := int(exp); {
	case e >= 9:
		return fmt.Sprintf("%gG", math.Pow(10, float64(e-9)))
	case e >= 6:
		return fmt.Sprintf("%gM", math.Pow(10, float64(e-6)))
	case e >= 3:
		return fmt.Sprintf("%gk", math.Pow(10, float64(e-3)))
	default:
		return util.FmtFloat(math.Pow(10, float64(e)))
	}
}

// annotation stacks the note lines in the top-left corner of the plot.
func annotation(lines []string, x, top, span float64) chart.AnnotationSeries {
	step := span * 0.07
	as := chart.AnnotationSeries{
		Style: chart.Style{
			FillColor:   drawing.ColorWhite.WithAlpha(220),
			StrokeColor: drawing.ColorFromHex("444444"),
			FontSize:    10,
		},
	}
	for i, ln := range lines {
		as.Annotations = append(as.Annotations, chart.Value2{
			XValue: x,
			YValue: top - step*float64(i+1),
			Label:  ln,
		})
	}
	return as
}
