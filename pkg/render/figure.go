// Package render turns named numeric series into charts: SVG or PNG via
// go-chart, or a self-contained HTML page embedding the SVG.
package render

// Series is one named trace. X and Y must have the same length; points with
// a NaN coordinate are skipped when drawing.
type Series struct {
	Name   string
	Group  string // legend group, empty for none
	X, Y   []float64
	Dashed bool
	Color  string // hex without '#', empty picks from the palette
}

// Figure is everything the renderer needs for one chart.
type Figure struct {
	Title  string
	XTitle string
	YTitle string
	// XLog draws the x axis in decades; x <= 0 cannot be shown and is dropped.
	XLog bool

	Series []Series
	// Annotation is shown as a boxed note, one entry per line.
	Annotation []string

	Width, Height int
}

const (
	defaultWidth  = 1200
	defaultHeight = 600
)

// palette follows the usual plotting defaults so traces stay recognisable
// across the SVG and HTML outputs.
var palette = []string{
	"636efa", "ef553b", "00cc96", "ab63fa", "ffa15a",
	"19d3f3", "ff6692", "b6e880", "ff97ff", "fecb52",
}

// Add appends a series.
func (f *Figure) Add(s Series) { f.Series = append(f.Series, s) }

// Groups returns the distinct series groups in first-seen order.
func (f *Figure) Groups() []string {
	var (
		out  []string
		seen = map[string]bool{}
	)
	for _, s := range f.Series {
		if seen[s.Group] {
			continue
		}
		seen[s.Group] = true
		out = append(out, s.Group)
	}
	return out
}

// Group returns a copy of f restricted to one group. Colors are fixed first
// so a trace keeps its color in the subset.
func (f *Figure) Group(name string) *Figure {
	colored := f.colored()
	sub := *colored
	sub.Series = nil
	sub.Annotation = nil
	if name != "" {
		sub.Title = f.Title + " | " + name
	}
	for _, s := range colored.Series {
		if s.Group == name {
			sub.Series = append(sub.Series, s)
		}
	}
	return &sub
}

// colored returns a copy of f with every series color assigned.
func (f *Figure) colored() *Figure {
	out := *f
	out.Series = make([]Series, len(f.Series))
	for i, s := range f.Series {
		if s.Color == "" {
			s.Color = palette[i%len(palette)]
		}
		out.Series[i] = s
	}
	return &out
}

func (f *Figure) size() (int, int) {
	w, h := f.Width, f.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}
