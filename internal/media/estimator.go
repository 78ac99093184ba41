package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/transcribed/internal/logging"
)

// Source names where a duration estimate came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceWAV      Source = "wav"
	SourceFFprobe  Source = "ffprobe"
	SourceSize     Source = "size"
	SourceDefault  Source = "default"
)

const (
	// BytesPerSecond is the rough compressed-audio rate used by the size
	// heuristic.
	BytesPerSecond = 4000
	// FallbackSeconds is used when nothing about the audio is known.
	FallbackSeconds = 10.0
)

type Estimator struct {
	ffprobeBinary string
	tempDir       string
	logger        logging.Logger
	probe         func(ctx context.Context, binary, path string) (float64, error)
}

// NewEstimator returns an Estimator. An empty ffprobeBinary disables the
// ffprobe step.
func NewEstimator(ffprobeBinary string, logger logging.Logger) *Estimator {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Estimator{
		ffprobeBinary: ffprobeBinary,
		logger:        logger.With("module", "media"),
		probe:         FFprobeDuration,
	}
}

// Duration estimates the length of data in seconds.
func (e *Estimator) Duration(ctx context.Context, data []byte, filename string) (float64, Source) {
	if d, err := WAVDuration(data); err == nil && d > 0 {
		return d, SourceWAV
	}

	if e.ffprobeBinary != "" && len(data) > 0 {
		d, err := e.probeBytes(ctx, data, filename)
		if err == nil {
			return d, SourceFFprobe
		}
		e.logger.Debug(ctx, "ffprobe failed, using size heuristic", "error", err)
	}

	return SizeHeuristic(int64(len(data))), SourceSize
}

func (e *Estimator) probeBytes(ctx context.Context, data []byte, filename string) (float64, error) {
	f, err := os.CreateTemp(e.tempDir, "probe-*"+filepath.Ext(filename))
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("write temp: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close temp: %w", err)
	}
	return e.probe(ctx, e.ffprobeBinary, f.Name())
}

// SizeHeuristic returns max(1, size/BytesPerSecond), or FallbackSeconds for
// a negative (unknown) size.
func SizeHeuristic(size int64) float64 {
	if size < 0 {
		return FallbackSeconds
	}
	return math.Max(1.0, float64(size)/BytesPerSecond)
}
