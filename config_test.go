package dataselect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthscope-oss/dataselect/boundary"
	"github.com/earthscope-oss/dataselect/prune"
	"github.com/earthscope-oss/dataselect/quality"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigParsesAllFields(t *testing.T) {
	path := writeConfig(t, `{
		"bestQuality": true,
		"prunedata": "sample",
		"timeTol": 0.5,
		"sampRateTol": 0.001,
		"restampQuality": "Q",
		"splitBoundary": "hour",
		"replaceInput": true,
		"removeBackups": true,
		"outputFile": "out.mseed",
		"archives": ["archive/{{.Network}}.mseed"]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.BestQuality)
	assert.True(t, *cfg.BestQuality)
	require.NotNil(t, cfg.PruneData)
	assert.Equal(t, "sample", *cfg.PruneData)
	require.NotNil(t, cfg.TimeTol)
	assert.Equal(t, 0.5, *cfg.TimeTol)
	require.NotNil(t, cfg.OutputFile)
	assert.Equal(t, "out.mseed", *cfg.OutputFile)
	assert.Equal(t, []string{"archive/{{.Network}}.mseed"}, cfg.Archives)
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, `{"notAThing": 1}`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadEnum(t *testing.T) {
	path := writeConfig(t, `{"prunedata": "whenever"}`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFileConfigApplyToOverlaysOnlySetFields(t *testing.T) {
	base := Opts{BestQuality: false, PruneMode: prune.Off, CombinedOutputPath: "keep-me.mseed"}
	bq := true
	pd := "record"
	fc := FileConfig{BestQuality: &bq, PruneData: &pd}

	got := fc.ApplyTo(base)
	assert.True(t, got.BestQuality)
	assert.Equal(t, prune.RecordLevel, got.PruneMode)
	// Fields the config doesn't mention are untouched.
	assert.Equal(t, "keep-me.mseed", got.CombinedOutputPath)
}

func TestFileConfigApplyToRestampQuality(t *testing.T) {
	q := "R"
	fc := FileConfig{RestampQuality: &q}
	got := fc.ApplyTo(Opts{})
	assert.Equal(t, quality.R, got.RestampQuality)
}

func TestFileConfigApplyToSplitBoundary(t *testing.T) {
	b := "day"
	fc := FileConfig{SplitBoundary: &b}
	got := fc.ApplyTo(Opts{})
	assert.Equal(t, boundary.Day, got.SplitBoundary)
}

func TestParsePruneModeUnknownDefaultsOff(t *testing.T) {
	assert.Equal(t, prune.Off, parsePruneMode("garbage"))
	assert.Equal(t, prune.RecordLevel, parsePruneMode("record"))
	assert.Equal(t, prune.SampleLevel, parsePruneMode("sample"))
}

func TestParseBoundaryModeUnknownDefaultsNone(t *testing.T) {
	assert.Equal(t, boundary.None, parseBoundaryMode("garbage"))
	assert.Equal(t, boundary.Hour, parseBoundaryMode("hour"))
	assert.Equal(t, boundary.Minute, parseBoundaryMode("minute"))
}
