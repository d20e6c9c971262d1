package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/phaseplot/pkg/csvseries"
	"github.com/ja7ad/phaseplot/pkg/waveform"
)

func smallResult(lineToLine bool) waveform.Result {
	cfg := waveform.DefaultConfig()
	cfg.FrequencyHz = 1
	cfg.Cycles = 1
	cfg.SamplesPerCycle = 8
	cfg.LineToLine = lineToLine
	return waveform.Generate(cfg)
}

func TestRows(t *testing.T) {
	res := smallResult(true)
	rows := Rows(res)
	require.Len(t, rows, 8)

	for i, r := range rows {
		assert.Equal(t, res.Set.Time[i], r.Time)
		assert.Equal(t, res.Set.Phases[waveform.PhaseB][i], r.PhaseB)
		require.NotNil(t, r.Vab)
		assert.InDelta(t, r.PhaseA-r.PhaseB, *r.Vab, 1e-9)
		assert.InDelta(t, r.PhaseC-r.PhaseA, *r.Vca, 1e-9)
	}

	plain := Rows(smallResult(false))
	require.Len(t, plain, 8)
	assert.Nil(t, plain[0].Vab)

	assert.Nil(t, Rows(waveform.Result{}))
}

func TestHeader(t *testing.T) {
	rows := Rows(smallResult(true))
	assert.Equal(t,
		[]string{"Time (s)", "Phase A (V)", "Phase B (V)", "Phase C (V)", "Vab (V)", "Vbc (V)", "Vca (V)"},
		Header(rows, "V"))

	plain := Rows(smallResult(false))
	assert.Equal(t, []string{"Time (s)", "Phase A", "Phase B", "Phase C"}, Header(plain, ""))
}

func TestWriteCSV_ReadsBackAsSeries(t *testing.T) {
	res := smallResult(true)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Rows(res), "V"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 9)

	s, err := csvseries.Parse(&buf, "samples.csv")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"Time (s)", "Phase A (V)"}, s.Labels())
	assert.Equal(t, 0, s.Dropped)
	if diff := cmp.Diff(res.Set.Time, s.X); diff != "" {
		t.Errorf("time mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(res.Set.Phases[waveform.PhaseA], s.Y); diff != "" {
		t.Errorf("phase A mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	rows := Rows(smallResult(true))
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rows))

	var got []Sample
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(rows, got); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[\n\n]\n", buf.String())
}

func TestParquetRoundTrip(t *testing.T) {
	for _, ll := range []bool{true, false} {
		rows := Rows(smallResult(ll))
		var buf bytes.Buffer
		require.NoError(t, WriteParquet(&buf, rows))

		got, err := ReadParquet(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		if diff := cmp.Diff(rows, got); diff != "" {
			t.Errorf("parquet mismatch, line-to-line=%v (-want +got):\n%s", ll, diff)
		}
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	rows := Rows(smallResult(true))

	for _, name := range []string{"a.csv", "b.json", filepath.Join("nested", "c.parquet")} {
		path := filepath.Join(dir, name)
		size, err := File(path, rows, "V")
		require.NoError(t, err, name)

		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fi.Size(), int64(size))
		assert.Positive(t, int64(size))
	}

	_, err := File(filepath.Join(dir, "d.xlsx"), rows, "V")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, statErr := os.Stat(filepath.Join(dir, "d.xlsx"))
	assert.True(t, os.IsNotExist(statErr))
}
