// Package media implements the local transforms the upload pipeline needs:
// image decoding and resizing, average color sampling, MIME detection and
// still-frame extraction from video files.
package media

import (
	"context"
	"image"
	"time"
)

// Transformer is the set of media operations used by the uploader.
type Transformer interface {
	DecodeFile(path string) (image.Image, error)
	// Encode renders img as PNG when contentType names PNG, JPEG otherwise.
	Encode(img image.Image, contentType string) ([]byte, error)
	// Resize scales img down to fit a dim x dim square.
	Resize(img image.Image, dim int) image.Image
	AverageColor(img image.Image) string
	// MimeType guesses the content type from a file name.
	MimeType(name string) string
	// Sniff detects the content type from file contents.
	Sniff(path string) (string, error)
	// Thumbnail extracts a still frame from a video file.
	Thumbnail(ctx context.Context, videoPath string) (image.Image, error)
	// Duration probes a media file's playback length.
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// Options configures the external tools used for video.
type Options struct {
	FFmpegPath  string
	FFprobePath string
}

// Processor is the default Transformer.
type Processor struct {
	ffmpeg  string
	ffprobe string
}

func New(opts Options) *Processor {
	p := &Processor{ffmpeg: opts.FFmpegPath, ffprobe: opts.FFprobePath}
	if p.ffmpeg == "" {
		p.ffmpeg = "ffmpeg"
	}
	if p.ffprobe == "" {
		p.ffprobe = "ffprobe"
	}
	return p
}
