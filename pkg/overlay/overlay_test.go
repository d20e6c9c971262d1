package overlay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ja7ad/phaseplot/pkg/csvseries"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDiscover_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "f,g\n1,2\n")
	writeFile(t, dir, "a.csv", "f,g\n1,2\n")
	writeFile(t, dir, "notes.txt", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.csv"), 0o755))

	got, err := Discover(dir, "*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, got)
}

func TestDiscover_BadPattern(t *testing.T) {
	_, err := Discover(t.TempDir(), "[")
	assert.Error(t, err)
}

func TestAggregate_SkipsBadFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "Frequency (Hz),Gain (dB)\n10,-1\n100,-3\n")
	bad := writeFile(t, dir, "bad.csv", "onlyone\n1\n2\n")
	c := writeFile(t, dir, "c.csv", "freq;mag\n10;0,5\n")

	core, logs := observer.New(zapcore.WarnLevel)
	coll, err := Aggregate([]string{a, bad, c}, WithLogger(zap.New(core)))
	require.NoError(t, err)

	require.Len(t, coll.Entries, 2)
	assert.Equal(t, "a", coll.Entries[0].Name)
	assert.Equal(t, "c", coll.Entries[1].Name)
	assert.Equal(t, "Frequency (Hz)", coll.XLabel)
	assert.Equal(t, "Gain (dB)", coll.YLabel)

	require.Len(t, coll.Skipped, 1)
	assert.Equal(t, bad, coll.Skipped[0].Path)
	assert.ErrorIs(t, coll.Skipped[0].Err, csvseries.ErrMissingLabels)

	entries := logs.FilterMessage("skipping file").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bad.csv", entries[0].ContextMap()["file"])
}

func TestAggregate_LabelsFromFirstSuccess(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "0.csv", "\n\n")
	first := writeFile(t, dir, "1.csv", "hz,db\n1,2\n")
	second := writeFile(t, dir, "2.csv", "freq,gain\n1,2\n")

	coll, err := Aggregate([]string{empty, first, second})
	require.NoError(t, err)
	assert.Equal(t, [2]string{"hz", "db"}, [2]string{coll.XLabel, coll.YLabel})
	assert.Len(t, coll.Entries, 2)
	assert.ErrorIs(t, coll.Err(), csvseries.ErrEmptyInput)
}

func TestAggregate_NothingUsable(t *testing.T) {
	dir := t.TempDir()
	bad1 := writeFile(t, dir, "x.csv", "")
	bad2 := writeFile(t, dir, "y.csv", "a,b\nfoo,bar\n")
	missing := filepath.Join(dir, "missing.csv")

	coll, err := Aggregate([]string{bad1, bad2, missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoUsableInput)
	assert.ErrorIs(t, err, csvseries.ErrEmptyInput)
	assert.ErrorIs(t, err, csvseries.ErrInsufficientColumns)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NotNil(t, coll)
	assert.Empty(t, coll.Entries)
	assert.Len(t, coll.Skipped, 3)
	assert.Len(t, multierr.Errors(coll.Err()), 3)
}

func TestAggregate_NoCandidates(t *testing.T) {
	coll, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoUsableInput)
	assert.Empty(t, coll.Skipped)
	assert.NoError(t, coll.Err())
}

func TestAggregate_CustomLoader(t *testing.T) {
	boom := errors.New("boom")
	load := func(path string) (*csvseries.Series, error) {
		if path == "fail" {
			return nil, boom
		}
		return &csvseries.Series{Source: path, XLabel: "x", YLabel: "y", X: []float64{1}, Y: []float64{2}}, nil
	}

	coll, err := Aggregate([]string{"fail", "ok.csv"}, WithLoader(load))
	require.NoError(t, err)
	require.Len(t, coll.Entries, 1)
	assert.Equal(t, "ok", coll.Entries[0].Name)
	assert.ErrorIs(t, coll.Skipped[0].Err, boom)
}

func TestCollection_Figure(t *testing.T) {
	coll := &Collection{
		XLabel: "f",
		YLabel: "mag",
		Entries: []Entry{
			{Name: "a", Series: &csvseries.Series{X: []float64{1, 10}, Y: []float64{0, -3}}},
			{Name: "b", Series: &csvseries.Series{X: []float64{1, 10}, Y: []float64{1, -1}}},
		},
	}

	fig := coll.Figure()
	assert.Equal(t, OverlayTitle, fig.Title)
	assert.True(t, fig.XLog)
	assert.Equal(t, "f", fig.XTitle)
	assert.Equal(t, "mag", fig.YTitle)
	require.Len(t, fig.Series, 2)
	assert.Equal(t, "a", fig.Series[0].Name)
	assert.Equal(t, "b", fig.Series[1].Name)
}

func TestEntry_FigureAndOutputPath(t *testing.T) {
	e := Entry{
		Name:   "filter",
		Path:   filepath.Join("data", "filter.csv"),
		Series: &csvseries.Series{XLabel: "Hz", YLabel: "dB", X: []float64{1}, Y: []float64{0}},
	}

	fig := e.Figure()
	assert.Equal(t, "filter Bode Magnitude", fig.Title)
	assert.True(t, fig.XLog)
	assert.Equal(t, "Hz", fig.XTitle)
	require.Len(t, fig.Series, 1)

	assert.Equal(t, filepath.Join("data", "filter_bode.html"), e.OutputPath(""))
	assert.Equal(t, filepath.Join("out", "filter_bode.html"), e.OutputPath("out"))
}
