package config

import (
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
)

// Config holds runtime settings for the GophMedia uploader.
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	UserID             string

	DatabasePath string
	StagingDir   string

	LogLevel  string
	LogFormat string

	HTTPTimeout   time.Duration
	RPCTimeout    time.Duration
	SettleTimeout time.Duration

	Cuts            models.Cuts
	ExpirationHours int

	FFmpegPath  string
	FFprobePath string

	// Per-invocation upload options.
	Kind    string
	Caption string
	NoCuts  bool
	Files   []string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "gophmedia.db"
	c.StagingDir = "staging"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.HTTPTimeout = 2 * time.Minute
	c.RPCTimeout = 15 * time.Second
	c.SettleTimeout = 5 * time.Second
	c.Cuts = models.DefaultCuts()
	c.FFmpegPath = "ffmpeg"
	c.FFprobePath = "ffprobe"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
