// Package stats accumulates per-frame timing into a per-second time series
// and a min/max/average FPS summary, and flushes both as CSV.
//
// Collection is only active when the benchmark runs with a positive
// close-after duration; interactive runs never allocate samples.
package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WarmupFrames is the number of initial frames excluded from the
// min/max/average aggregation to suppress startup transients. The cutoff is
// a literal frame count, not a time window.
const WarmupFrames = 100

// sampleIntervalMs is the accumulated raw frame time required before the
// next time-series sample is emitted.
const sampleIntervalMs = 1000.0

// Sample is one time-series record: wall time since start, the smoothed
// frame time and the raw frame time of the frame that crossed the interval.
type Sample struct {
	ElapsedSeconds float64
	FrameTimeMs    float64
	RawFrameTimeMs float64
}

// Collector aggregates frame timing. The zero value is not ready for use;
// construct with New.
type Collector struct {
	frames uint64

	sumFPS float64
	minFPS float64
	maxFPS float64

	intervalMs float64
	samples    []Sample
}

// New creates a Collector. The capacity hint is the expected run length in
// seconds and pre-sizes the sample slice (one sample per second, plus slack).
//
// Parameters:
//   - runSecondsHint: expected run duration in seconds, 0 for no hint
//
// Returns:
//   - *Collector: the newly created collector
func New(runSecondsHint float64) *Collector {
	c := &Collector{
		minFPS: 99999999,
	}
	if runSecondsHint > 0 {
		c.samples = make([]Sample, 0, int(runSecondsHint)+4)
	}
	return c
}

// RecordFrame folds one frame's FPS reading into the summary aggregates.
// The first WarmupFrames frames only advance the frame counter.
//
// Parameters:
//   - currentFPS: the frame's FPS reading (1 / smoothed frame time)
func (c *Collector) RecordFrame(currentFPS float64) {
	c.frames++
	if c.frames <= WarmupFrames {
		return
	}
	c.sumFPS += currentFPS
	if currentFPS < c.minFPS {
		c.minFPS = currentFPS
	}
	if currentFPS > c.maxFPS {
		c.maxFPS = currentFPS
	}
}

// AccumulateSample adds one frame's raw time to the sampling interval and
// emits a time-series sample once a full second of raw time has accumulated.
// The interval resets to zero on each emission, so no interval is sampled
// twice.
//
// Parameters:
//   - rawMs: raw frame time in milliseconds
//   - smoothedMs: exponentially smoothed frame time in milliseconds
//   - elapsedSeconds: wall time since the run started
//
// Returns:
//   - bool: true if a sample was emitted this frame
func (c *Collector) AccumulateSample(rawMs, smoothedMs, elapsedSeconds float64) bool {
	c.intervalMs += rawMs
	if c.intervalMs < sampleIntervalMs {
		return false
	}
	c.samples = append(c.samples, Sample{
		ElapsedSeconds: elapsedSeconds,
		FrameTimeMs:    smoothedMs,
		RawFrameTimeMs: rawMs,
	})
	c.intervalMs = 0
	return true
}

// Frames returns the number of frames recorded so far.
func (c *Collector) Frames() uint64 {
	return c.frames
}

// Samples returns the time-series samples collected so far.
func (c *Collector) Samples() []Sample {
	return c.samples
}

// Summary returns the aggregated FPS statistics. ok is false until at least
// one post-warm-up frame has been recorded.
//
// Returns:
//   - minFPS, maxFPS, avgFPS: aggregates over frames after the warm-up window
//   - ok: false if no post-warm-up frames exist
func (c *Collector) Summary() (minFPS, maxFPS, avgFPS float64, ok bool) {
	if c.frames <= WarmupFrames {
		return 0, 0, 0, false
	}
	return c.minFPS, c.maxFPS, c.sumFPS / float64(c.frames-WarmupFrames), true
}

// WriteSummaryCSV writes the summary header and single data row.
//
// Parameters:
//   - w: destination writer
//
// Returns:
//   - error: write or flush failure
func (c *Collector) WriteSummaryCSV(w io.Writer) error {
	minFPS, maxFPS, avgFPS, _ := c.Summary()
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"MinFPS", "MaxFPS", "AverageFPS"}); err != nil {
		return err
	}
	if err := cw.Write([]string{
		formatFloat(minFPS),
		formatFloat(maxFPS),
		formatFloat(avgFPS),
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeriesCSV writes the time-series header and one row per sample.
//
// Parameters:
//   - w: destination writer
//
// Returns:
//   - error: write or flush failure
func (c *Collector) WriteSeriesCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ElapsedTime(s)", "FrameTime(ms)", "RawFrameTime(ms)"}); err != nil {
		return err
	}
	for _, s := range c.samples {
		if err := cw.Write([]string{
			formatFloat(s.ElapsedSeconds),
			formatFloat(s.FrameTimeMs),
			formatFloat(s.RawFrameTimeMs),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFiles flushes the summary and time-series CSVs to the given paths,
// creating or truncating the files.
//
// Parameters:
//   - summaryPath: destination for the summary CSV
//   - seriesPath: destination for the time-series CSV
//
// Returns:
//   - error: the first file creation or write failure
func (c *Collector) WriteFiles(summaryPath, seriesPath string) error {
	if err := writeFile(summaryPath, c.WriteSummaryCSV); err != nil {
		return fmt.Errorf("write summary stats: %w", err)
	}
	if err := writeFile(seriesPath, c.WriteSeriesCSV); err != nil {
		return fmt.Errorf("write stats series: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
