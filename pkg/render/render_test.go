package render

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/phaseplot/pkg/types"
)

func sampleFigure() *Figure {
	fig := &Figure{
		Title:      "Three Phase",
		XTitle:     "Time (s)",
		YTitle:     "Voltage (V)",
		Annotation: []string{"Phase fundamental peak: 265.6 V", "Boost vs pure sinusoid: +15.5%"},
	}
	x := []float64{0, 0.25, 0.5, 0.75}
	fig.Add(Series{Name: "Phase A", Group: "Phases", X: x, Y: []float64{0, 1, 0, -1}})
	fig.Add(Series{Name: "Phase B", Group: "Phases", X: x, Y: []float64{-1, 0, 1, 0}})
	fig.Add(Series{Name: "Vab", Group: "Line-to-Line", X: x, Y: []float64{1, 1, -1, -1}, Dashed: true})
	return fig
}

func TestRender_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleFigure(), SVG))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Three Phase")
}

func TestRender_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleFigure(), PNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "png signature")
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleFigure(), Format(42))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRender_NothingToRender(t *testing.T) {
	fig := &Figure{Title: "empty", XLog: true}
	fig.Add(Series{Name: "bad", X: []float64{0, -10, math.NaN()}, Y: []float64{1, 2, 3}})
	fig.Add(Series{Name: "none"})

	err := Render(&bytes.Buffer{}, fig, SVG)
	assert.ErrorIs(t, err, ErrNothingToRender)
}

func TestRender_FlatAndSinglePoint(t *testing.T) {
	fig := &Figure{Title: "flat"}
	fig.Add(Series{Name: "zero", X: []float64{0, 1, 2}, Y: []float64{0, 0, 0}})
	fig.Add(Series{Name: "dot", X: []float64{1}, Y: []float64{0}})
	require.NoError(t, Render(&bytes.Buffer{}, fig, SVG))
}

func TestPlottable(t *testing.T) {
	x := []float64{10, 0, -1, 100, math.NaN(), 1000, math.Inf(1)}
	y := []float64{1, 2, 3, math.NaN(), 5, 6, 7}

	xs, ys := plottable(x, y, true)
	require.Len(t, xs, 2)
	assert.InDelta(t, 1, xs[0], 1e-12)
	assert.InDelta(t, 3, xs[1], 1e-12)
	assert.Equal(t, []float64{1, 6}, ys)

	xs, ys = plottable(x, y, false)
	assert.Equal(t, []float64{10, 0, -1, 1000}, xs)
	assert.Equal(t, []float64{1, 2, 3, 6}, ys)

	xs, _ = plottable([]float64{1, 2, 3}, []float64{1}, false)
	assert.Len(t, xs, 1, "length mismatch is clipped")
}

func TestDecadeTicks(t *testing.T) {
	ticks := decadeTicks(-1, 4)
	labels := make([]string, 0, len(ticks))
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	assert.Equal(t, []string{"0.1", "1", "10", "100", "1k", "10k"}, labels)
	assert.Equal(t, "1M", decadeLabel(6))
	assert.Equal(t, "100G", decadeLabel(11))
}

func TestWiden(t *testing.T) {
	lo, hi := widen(3, 3)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 4.0, hi)
	lo, hi = widen(1, 5)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 5.0, hi)
}

func TestFigure_GroupsKeepColors(t *testing.T) {
	fig := sampleFigure()
	assert.Equal(t, []string{"Phases", "Line-to-Line"}, fig.Groups())

	ll := fig.Group("Line-to-Line")
	require.Len(t, ll.Series, 1)
	assert.Equal(t, "Vab", ll.Series[0].Name)
	assert.Equal(t, palette[2], ll.Series[0].Color, "color follows the position in the full figure")
	assert.Empty(t, ll.Annotation)
	assert.Equal(t, "Three Phase | Line-to-Line", ll.Title)

	assert.Empty(t, fig.Series[0].Color, "Group must not mutate the receiver")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleFigure()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Three Phase</title>")
	assert.Contains(t, out, "Boost vs pure sinusoid: +15.5%")
	assert.Contains(t, out, "<h2>Line-to-Line</h2>")
	assert.Contains(t, out, "swatch dashed")
	assert.Equal(t, 3, strings.Count(out, "<svg"), "full chart plus one per group")
}

func TestWriteHTML_SingleGroup(t *testing.T) {
	fig := &Figure{Title: "Bode Magnitude (All CSVs)", XLog: true}
	fig.Add(Series{Name: "lowpass", X: []float64{10, 100, 1000}, Y: []float64{0, -3, -20}})

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, fig))
	assert.Equal(t, 1, strings.Count(buf.String(), "<svg"))
	assert.NotContains(t, buf.String(), "<details")
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"bode_all.html": HTML,
		"a/b/c.HTM":     HTML,
		"wave.svg":      SVG,
		"wave.PNG":      PNG,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("wave.pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "wave.svg")
	n, err := Export(path, sampleFigure())
	require.NoError(t, err)

	size, err := types.SizeOf(path)
	require.NoError(t, err)
	assert.Equal(t, size, n)
	assert.Greater(t, uint64(n), uint64(0))

	_, err = Export(filepath.Join(t.TempDir(), "x.txt"), sampleFigure())
	assert.ErrorIs(t, err, ErrUnknownFormat)

	bad := filepath.Join(t.TempDir(), "never.svg")
	_, err = Export(bad, &Figure{})
	assert.ErrorIs(t, err, ErrNothingToRender)
	_, statErr := os.Stat(bad)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "nothing written on render failure")
}
