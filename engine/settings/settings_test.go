package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := New()

	assert.Equal(t, 1280, s.WindowWidth)
	assert.Equal(t, 720, s.WindowHeight)
	assert.Equal(t, 1.0, s.RenderScale)
	assert.True(t, s.Windowed)
	assert.True(t, s.UseQueued)
	assert.True(t, s.Animate)
	assert.True(t, s.MultithreadedRendering)
	assert.True(t, s.SubmitRendering)
	assert.False(t, s.ExecuteIndirect)
	assert.False(t, s.LockFrameRate)
	assert.Equal(t, 30, s.LockedFrameRate)
	assert.Equal(t, DefaultStatsFileName, s.StatsFileName)
	assert.Equal(t, DefaultStatsSummaryFileName, s.StatsSummaryFileName)
}

func TestParseAllOptions(t *testing.T) {
	s := New()
	err := s.Parse([]string{
		"-close_after", "60.5",
		"-nod3d11",
		"-fullscreen",
		"-window", "1920", "1080",
		"-render_scale", "0.5",
		"-stats_csv_file_name", "run.csv",
		"-stats_summary_csv_file_name", "run_summary.csv",
		"-locked_fps", "24",
		"-indirect",
		"-warp",
	})
	require.NoError(t, err)

	assert.Equal(t, 60.5, s.CloseAfterSeconds)
	assert.True(t, s.NoBasic)
	assert.False(t, s.NoQueued)
	assert.False(t, s.Windowed)
	assert.Equal(t, 1920, s.WindowWidth)
	assert.Equal(t, 1080, s.WindowHeight)
	assert.Equal(t, 0.5, s.RenderScale)
	assert.Equal(t, "run.csv", s.StatsFileName)
	assert.Equal(t, "run_summary.csv", s.StatsSummaryFileName)
	assert.True(t, s.LockFrameRate)
	assert.Equal(t, 24, s.LockedFrameRate)
	assert.True(t, s.ExecuteIndirect)
	assert.True(t, s.Warp)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown option", []string{"-bogus"}},
		{"window missing height", []string{"-window", "800"}},
		{"window non-numeric", []string{"-window", "800", "tall"}},
		{"close_after missing value", []string{"-close_after"}},
		{"close_after non-numeric", []string{"-close_after", "soon"}},
		{"locked_fps non-numeric", []string{"-locked_fps", "fast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, New().Parse(tt.args))
		})
	}
}

func TestUpdateRenderResolution(t *testing.T) {
	s := New()
	s.WindowWidth = 800
	s.WindowHeight = 600
	s.RenderScale = 0.5
	s.UpdateRenderResolution()

	assert.Equal(t, 400, s.RenderWidth)
	assert.Equal(t, 300, s.RenderHeight)
	assert.InDelta(t, 400.0/300.0, s.Aspect(), 1e-6)
}

func TestAspectZeroHeight(t *testing.T) {
	s := New()
	assert.Equal(t, float32(1), s.Aspect())
}
