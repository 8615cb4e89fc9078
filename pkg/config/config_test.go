package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cravindra/hyperverge-cli/pkg/hyperverge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
app_id: my-app
app_key: my-key
host: https://example.com/v1.1/
output: report.json
throttle_rps: 2.5
s3:
  region: eu-west-1
  access_key_id: AKIA
  secret_access_key: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "my-app", cfg.AppID)
	assert.Equal(t, "my-key", cfg.AppKey)
	assert.Equal(t, "https://example.com/v1.1/", cfg.Host)
	assert.Equal(t, "report.json", cfg.Output)
	assert.InDelta(t, 2.5, cfg.ThrottleRPS, 0.0001)
	require.NotNil(t, cfg.S3)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "appId": "my-app",
  "appKey": "my-key",
  "host": "https://example.com/v1.1/"
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "my-app", cfg.AppID)
	assert.Equal(t, "my-key", cfg.AppKey)
	assert.Equal(t, "https://example.com/v1.1/", cfg.Host)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.AppID)
	assert.Zero(t, cfg.ThrottleRPS)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
app_id: from-file
app_key: from-file
`)

	t.Setenv("HYPERVERGE_APP_ID", "from-env")
	t.Setenv("HYPERVERGE_THROTTLE_RPS", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AppID)
	assert.Equal(t, "from-file", cfg.AppKey)
	assert.InDelta(t, 4.0, cfg.ThrottleRPS, 0.0001)
}

func TestLoad_InvalidEnvThrottle(t *testing.T) {
	t.Setenv("HYPERVERGE_THROTTLE_RPS", "not-a-number")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "THROTTLE_RPS")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", "app_id: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Host: DefaultHost, ThrottleRPS: 1},
		},
		{
			name:    "negative throttle",
			cfg:     Config{ThrottleRPS: -1},
			wantErr: "throttle_rps",
		},
		{
			name:    "s3 output without s3 block",
			cfg:     Config{Output: "s3://bucket/key"},
			wantErr: "s3 configuration block",
		},
		{
			name: "s3 output with s3 block",
			cfg:  Config{Output: "s3://bucket/key", S3: &S3Config{Region: "us-east-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	creds := Config{AppID: "id", AppKey: "key"}

	tests := []struct {
		name      string
		cfg       Config
		action    hyperverge.Action
		file      string
		directory string
		wantErr   string
	}{
		{
			name:   "single file with credentials",
			cfg:    creds,
			action: hyperverge.ActionReadPAN,
			file:   "card.png",
		},
		{
			name:      "directory with credentials",
			cfg:       creds,
			action:    hyperverge.ActionReadKYC,
			directory: "docs",
		},
		{
			name:   "test action needs nothing",
			cfg:    Config{},
			action: hyperverge.ActionTest,
		},
		{
			name:      "file and directory conflict",
			cfg:       creds,
			action:    hyperverge.ActionReadPAN,
			file:      "card.png",
			directory: "docs",
			wantErr:   "mutually exclusive",
		},
		{
			name:    "neither file nor directory",
			cfg:     creds,
			action:  hyperverge.ActionReadPassport,
			wantErr: "requires a file or a directory",
		},
		{
			name:    "missing appKey",
			cfg:     Config{AppID: "id"},
			action:  hyperverge.ActionReadPAN,
			file:    "card.png",
			wantErr: "appKey",
		},
		{
			name:    "missing appId",
			cfg:     Config{AppKey: "key"},
			action:  hyperverge.ActionReadAadhaar,
			file:    "card.png",
			wantErr: "appId",
		},
		{
			name:    "unknown action",
			cfg:     creds,
			action:  "readVoterID",
			file:    "card.png",
			wantErr: "unknown action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateRequest(tt.action, tt.file, tt.directory)

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
