package render

import (
	"bytes"
	"errors"
	"html/template"
	"io"

	"github.com/wcharczuk/go-chart/v2"
)

type legendEntry struct {
	Name   string
	Color  string
	Dashed bool
}

type groupView struct {
	Name    string
	Entries []legendEntry
	Chart   template.HTML
}

type pageView struct {
	Title      string
	Annotation []string
	Chart      template.HTML
	Groups     []groupView
	Grouped    bool
}

// WriteHTML writes a standalone page with the full chart as inline SVG, a
// legend arranged by group and, when there is more than one group, a
// collapsible chart per group.
func WriteHTML(w io.Writer, fig *Figure) error {
	fig = fig.colored()

	full, err := svgString(fig)
	if err != nil {
		return err
	}

	groups := fig.Groups()
	view := pageView{
		Title:      fig.Title,
		Annotation: fig.Annotation,
		Chart:      full,
		Grouped:    len(groups) > 1,
	}
	for _, g := range groups {
		sub := fig.Group(g)
		gv := groupView{Name: g}
		for _, s := range sub.Series {
			gv.Entries = append(gv.Entries, legendEntry{Name: s.Name, Color: s.Color, Dashed: s.Dashed})
		}
		if view.Grouped {
			gv.Chart, err = svgString(sub)
			if err != nil && !errors.Is(err, ErrNothingToRender) {
				return err
			}
		}
		view.Groups = append(view.Groups, gv)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func svgString(fig *Figure) (template.HTML, error) {
	var buf bytes.Buffer
	if err := renderChart(&buf, fig, chart.SVG); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // generated by go-chart
}

var tpl = template.Must(template.New("figure").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px;background:#fff}
h1{margin:0 0 12px;font-size:20px}
h2{margin:16px 0 6px;font-size:16px}
.note{display:inline-block;border:1px solid #444;padding:6px;background:rgba(255,255,255,.85);margin:0 0 12px;font-size:13px}
.legend{list-style:none;margin:4px 0 10px;padding:0}
.legend li{display:inline-block;margin-right:14px;font-size:14px}
.swatch{display:inline-block;width:22px;height:0;border-top:3px solid;vertical-align:middle;margin-right:6px}
.dashed{border-top-style:dashed}
details{margin:8px 0}
summary{cursor:pointer;font-weight:600}
svg{max-width:100%;height:auto}
</style>

<h1>{{.Title}}</h1>

{{if .Annotation}}
<pre class="note">{{range .Annotation}}{{.}}
{{end}}</pre>
{{end}}

<div class="chart">{{.Chart}}</div>

{{range .Groups}}
{{if .Name}}<h2>{{.Name}}</h2>{{end}}
<ul class="legend">
{{range .Entries}}
  <li><span class="swatch{{if .Dashed}} dashed{{end}}" style="border-top-color:#{{.Color}}"></span>{{.Name}}</li>
{{end}}
</ul>
{{if $.Grouped}}{{if .Chart}}
<details open>
<summary>{{if .Name}}{{.Name}}{{else}}Ungrouped{{end}} only</summary>
<div class="chart">{{.Chart}}</div>
</details>
{{end}}{{end}}
{{end}}
</html>`))
