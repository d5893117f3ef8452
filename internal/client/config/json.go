package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/flagx"
	"github.com/dmitrijs2005/gophmedia/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	AccessToken        string         `json:"access_token"`
	UserID             string         `json:"user_id"`
	DatabasePath       string         `json:"database_path"`
	StagingDir         string         `json:"staging_dir"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
	HTTPTimeout        timex.Duration `json:"http_timeout"`
	RPCTimeout         timex.Duration `json:"rpc_timeout"`
	SettleTimeout      timex.Duration `json:"settle_timeout"`
	Cuts               models.Cuts    `json:"cuts"`
	ExpirationHours    int            `json:"expiration_hours"`
	FFmpegPath         string         `json:"ffmpeg_path"`
	FFprobePath        string         `json:"ffprobe_path"`
}

// parseJson overlays cfg with the non-zero values of the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.UserID, jc.UserID)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.StagingDir, jc.StagingDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.FFmpegPath, jc.FFmpegPath)
	setString(&cfg.FFprobePath, jc.FFprobePath)

	if jc.HTTPTimeout.Duration > 0 {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	if jc.RPCTimeout.Duration > 0 {
		cfg.RPCTimeout = jc.RPCTimeout.Duration
	}
	if jc.SettleTimeout.Duration > 0 {
		cfg.SettleTimeout = jc.SettleTimeout.Duration
	}
	if jc.Cuts.Small > 0 {
		cfg.Cuts.Small = jc.Cuts.Small
	}
	if jc.Cuts.Medium > 0 {
		cfg.Cuts.Medium = jc.Cuts.Medium
	}
	if jc.Cuts.Large > 0 {
		cfg.Cuts.Large = jc.Cuts.Large
	}
	if jc.ExpirationHours > 0 {
		cfg.ExpirationHours = jc.ExpirationHours
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
