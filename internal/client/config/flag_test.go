package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
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
		{
			name: "all value flags",
			args: []string{"cmd", "-a", "127.0.0.1:9090", "-t", "tok", "-u", "alice", "-d", "x.db", "-s", "stage",
				"-l", "debug", "-log-format", "json", "-http-timeout", "30s", "-rpc-timeout", "3s", "-settle-timeout", "1s",
				"-small", "10", "-medium", "20", "-large", "30", "-e", "48",
				"-kind", "image", "-caption", "hello", "-ffmpeg", "/bin/ff", "-ffprobe", "/bin/fp"},
			expected: &Config{
				ServerEndpointAddr: "127.0.0.1:9090", AccessToken: "tok", UserID: "alice",
				DatabasePath: "x.db", StagingDir: "stage", LogLevel: "debug", LogFormat: "json",
				HTTPTimeout: 30 * time.Second, RPCTimeout: 3 * time.Second, SettleTimeout: time.Second,
				Cuts: models.Cuts{Small: 10, Medium: 20, Large: 30}, ExpirationHours: 48,
				Kind: "image", Caption: "hello", FFmpegPath: "/bin/ff", FFprobePath: "/bin/fp",
				Files: []string{},
			},
		},
		{
			name: "bool flag does not swallow files",
			args: []string{"cmd", "-no-cuts", "a.png", "--kind=video", "b.mov", "-unknown"},
			expected: &Config{
				NoCuts: true, Kind: "video", Files: []string{"a.png", "b.mov"},
			},
		},
		{
			name:     "files after double dash",
			args:     []string{"cmd", "-a", "h:1", "--", "-weird.png"},
			expected: &Config{ServerEndpointAddr: "h:1", Files: []string{"-weird.png"}},
		},
		{name: "incorrect duration", args: []string{"cmd", "-http-timeout", "abc"}, expectPanic: true},
		{name: "incorrect cut", args: []string{"cmd", "-small", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
