package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryBackend(t *testing.T) {
	t.Setenv("CAREERSYNC_BACKEND", BackendMemory)
	t.Setenv("CAREERSYNC_TUNING", "")
	t.Setenv("KAKAO_SPREADSHEET_ID", "")
	t.Setenv("SPREADSHEET_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, float64(2), cfg.Tuning.RequestsPerSecond)
}

func TestLoadPostgresNeedsDSN(t *testing.T) {
	t.Setenv("CAREERSYNC_BACKEND", BackendPostgres)
	t.Setenv("PG_DSN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PG_DSN")
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Setenv("CAREERSYNC_BACKEND", "dynamo")
	_, err := Load()
	assert.Error(t, err)
}

func TestSpreadsheetFor(t *testing.T) {
	t.Setenv("CAREERSYNC_BACKEND", BackendMemory)
	t.Setenv("NAVER_SPREADSHEET_ID", "naver-sheet")
	t.Setenv("KAKAO_SPREADSHEET_ID", "")
	t.Setenv("BAEMIN_SPREADSHEET_ID", "")
	t.Setenv("SPREADSHEET_ID", "legacy-sheet")

	cfg, err := Load()
	require.NoError(t, err)

	id, err := cfg.SpreadsheetFor("naver")
	require.NoError(t, err)
	assert.Equal(t, "naver-sheet", id)

	// kakao falls back to the pre-rename variable.
	id, err = cfg.SpreadsheetFor("kakao")
	require.NoError(t, err)
	assert.Equal(t, "legacy-sheet", id)

	_, err = cfg.SpreadsheetFor("baemin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAEMIN_SPREADSHEET_ID")
}

func TestTuningOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
requests_per_second: 0.5
hydrate_locations: true
kakao:
  part: TECHNOLOGY
naver:
  page_size: 50
`), 0o600))

	tun := defaultTuning()
	require.NoError(t, OverlayTuning(&tun, path))
	assert.Equal(t, 0.5, tun.RequestsPerSecond)
	assert.True(t, tun.HydrateLocations)
	assert.Equal(t, "TECHNOLOGY", tun.Kakao.Part)
	assert.Equal(t, 50, tun.Naver.PageSize)
	assert.Equal(t, 1, tun.Burst, "unset keys keep their defaults")
}

func TestTuningOverlayMissingFile(t *testing.T) {
	tun := defaultTuning()
	assert.NoError(t, OverlayTuning(&tun, filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestTuningOverlayBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	tun := defaultTuning()
	assert.Error(t, OverlayTuning(&tun, path))
}
