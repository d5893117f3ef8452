package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-w", "https://cdn.example/", "-x", "5", "-h", "72", "-l", "debug",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrGRPC:       "127.0.0.1:9090",
				DatabaseDSN:            "db",
				SecretKey:              "secret",
				S3RootUser:             "user",
				S3RootPassword:         "password",
				S3Bucket:               "bucket",
				S3Region:               "us-west-1",
				S3BaseEndpoint:         "http://endpoint",
				PublicBaseURL:          "https://cdn.example/",
				PresignExpiry:          5 * time.Minute,
				DefaultExpirationHours: 72,
				LogLevel:               "debug",
			}},
		{name: "Test2 incorrect expiry", args: []string{"cmd", "-x", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
