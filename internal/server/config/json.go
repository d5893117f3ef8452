package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophmedia/internal/flagx"
	"github.com/dmitrijs2005/gophmedia/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. PresignExpiry accepts "15m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC       string         `json:"endpoint_addr_grpc"`
	DatabaseDSN            string         `json:"database_dsn"`
	SecretKey              string         `json:"secret_key"`
	S3RootUser             string         `json:"s3_root_user"`
	S3RootPassword         string         `json:"s3_root_password"`
	S3Bucket               string         `json:"s3_bucket"`
	S3Region               string         `json:"s3_region"`
	S3BaseEndpoint         string         `json:"s3_base_endpoint"`
	PublicBaseURL          string         `json:"public_base_url"`
	PresignExpiry          timex.Duration `json:"presign_expiry"`
	DefaultExpirationHours int            `json:"default_expiration_hours"`
	LogLevel               string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag into config. Absent fields keep their current values.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.PublicBaseURL, c.PublicBaseURL)
	overlay(&config.LogLevel, c.LogLevel)
	if c.PresignExpiry.Duration > 0 {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	if c.DefaultExpirationHours > 0 {
		config.DefaultExpirationHours = c.DefaultExpirationHours
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
