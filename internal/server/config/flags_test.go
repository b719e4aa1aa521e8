package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-g", "", "-d", "db", "-s", "secret",
				"-t", "90m", "-e", "production", "-l", "warn", "-storage", "s3",
			},
			expected: &Config{
				HTTPAddr:       "127.0.0.1:9090",
				GRPCAddr:       "",
				DatabaseDSN:    "db",
				SecretKey:      "secret",
				SessionTTL:     90 * time.Minute,
				Environment:    "production",
				LogLevel:       "warn",
				StorageBackend: "s3",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "--verbose", "-a=:4000"},
			expected: &Config{HTTPAddr: ":4000"},
		},
		{
			name:    "bad duration",
			args:    []string{"-t", "forever"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
