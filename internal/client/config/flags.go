package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophmedia/internal/flagx"
)

var valueFlags = []string{
	"a", "t", "u", "d", "s", "l", "log-format",
	"http-timeout", "rpc-timeout", "settle-timeout",
	"small", "medium", "large", "e",
	"kind", "caption", "ffmpeg", "ffprobe",
	"c", "config",
}

var boolFlags = []string{"no-cuts"}

// parseFlags populates Config from command-line flags. Arguments that are
// not flags become Files. It panics when a flag value cannot be parsed.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], append(append([]string{}, valueFlags...), boolFlags...), boolFlags...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "user id")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.StagingDir, "s", cfg.StagingDir, "staging directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (json or text)")
	fs.DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "object storage PUT timeout")
	fs.DurationVar(&cfg.RPCTimeout, "rpc-timeout", cfg.RPCTimeout, "backend RPC timeout")
	fs.DurationVar(&cfg.SettleTimeout, "settle-timeout", cfg.SettleTimeout, "wait for asset events before the next upload")
	fs.IntVar(&cfg.Cuts.Small, "small", cfg.Cuts.Small, "small variant dimension")
	fs.IntVar(&cfg.Cuts.Medium, "medium", cfg.Cuts.Medium, "medium variant dimension")
	fs.IntVar(&cfg.Cuts.Large, "large", cfg.Cuts.Large, "large variant dimension")
	fs.IntVar(&cfg.ExpirationHours, "e", cfg.ExpirationHours, "asset expiration in hours")
	fs.StringVar(&cfg.Kind, "kind", cfg.Kind, "media kind for all files")
	fs.StringVar(&cfg.Caption, "caption", cfg.Caption, "caption for all files")
	fs.BoolVar(&cfg.NoCuts, "no-cuts", cfg.NoCuts, "skip resized variants")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "ffprobe binary")

	var configPath string
	fs.StringVar(&configPath, "c", "", "config file")
	fs.StringVar(&configPath, "config", "", "config file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Files = flagx.Positionals(os.Args[1:], valueFlags)
}
