package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

var commandContext = exec.CommandContext

// FFprobeDuration runs ffprobe against path and returns the container
// duration in seconds.
func FFprobeDuration(ctx context.Context, binary, path string) (float64, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}

	cmd := commandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	var out probeOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", out.Format.Duration, err)
	}
	if d <= 0 {
		return 0, errors.New("ffprobe: non-positive duration")
	}
	return d, nil
}
