package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoStreams = errors.New("no media streams")
	ErrNoFrame   = errors.New("no frame extracted")
)

// Thumbnail decodes the first frame of the video at videoPath.
func (p *Processor) Thumbnail(ctx context.Context, videoPath string) (image.Image, error) {
	if strings.TrimSpace(videoPath) == "" {
		return nil, fmt.Errorf("media - Thumbnail: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.ffmpeg,
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-frames:v", "1",
		"-f", "image2pipe", "-c:v", "png",
		"pipe:1",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("media - Thumbnail - ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, ErrNoFrame
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("media - Thumbnail - png.Decode: %w", err)
	}
	return img, nil
}

// Duration runs ffprobe and returns the container duration.
func (p *Processor) Duration(ctx context.Context, path string) (time.Duration, error) {
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("media - Duration: empty path")
	}

	out, err := exec.CommandContext(ctx, p.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("media - Duration - ffprobe: %w", err)
	}

	res, err := parseProbeOutput(out)
	if err != nil {
		return 0, err
	}
	return res.Duration, nil
}

type probeResult struct {
	Duration time.Duration
	// Width and Height come from the first video stream, zero for audio.
	Width  int
	Height int
}

func parseProbeOutput(payload []byte) (probeResult, error) {
	var raw struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return probeResult{}, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if len(raw.Streams) == 0 {
		return probeResult{}, ErrNoStreams
	}

	var res probeResult
	for _, s := range raw.Streams {
		if s.CodecType == "video" {
			res.Width, res.Height = s.Width, s.Height
			break
		}
	}

	if raw.Format.Duration != "" {
		secs, err := strconv.ParseFloat(raw.Format.Duration, 64)
		if err != nil {
			return probeResult{}, fmt.Errorf("parse duration %q: %w", raw.Format.Duration, err)
		}
		res.Duration = time.Duration(secs * float64(time.Second))
	}

	return res, nil
}
