package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := Load(v)
	assert.Equal(t, DefaultEndpoint, cfg.Classifier.Endpoint)
	assert.Empty(t, cfg.Classifier.Token)
	assert.Zero(t, cfg.Classifier.Timeout)
	assert.Equal(t, DefaultTheme, cfg.UI.Theme)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LENS_CLASSIFIER_TOKEN", "secret-token")
	t.Setenv("LENS_CLASSIFIER_ENDPOINT", "https://classifier.example.com/predict")
	t.Setenv("LENS_CLASSIFIER_TIMEOUT", "45s")

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	cfg := Load(v)
	assert.Equal(t, "secret-token", cfg.Classifier.Token)
	assert.Equal(t, "https://classifier.example.com/predict", cfg.Classifier.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.Classifier.Timeout)
	require.NoError(t, cfg.Classifier.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`classifier:
  endpoint: http://localhost:5000/predict
  token: file-token
ui:
  theme: catppuccin-mocha
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := Load(v)
	assert.Equal(t, "file-token", cfg.Classifier.Token)
	assert.Equal(t, "catppuccin-mocha", cfg.UI.Theme)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestClassifierConfig_Validate(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		cfg     ClassifierConfig
	}{
		{
			name: "valid",
			cfg:  ClassifierConfig{Endpoint: "http://127.0.0.1:5000/predict", Token: "t"},
		},
		{
			name:    "missing endpoint",
			cfg:     ClassifierConfig{Token: "t"},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "relative endpoint",
			cfg:     ClassifierConfig{Endpoint: "/predict", Token: "t"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "unsupported scheme",
			cfg:     ClassifierConfig{Endpoint: "ftp://host/predict", Token: "t"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "missing token",
			cfg:     ClassifierConfig{Endpoint: "http://host/predict"},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "negative timeout",
			cfg:     ClassifierConfig{Endpoint: "http://host/predict", Token: "t", Timeout: -time.Second},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LENS_TEST_DIR", "/data/panels")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "panels/a.png"), ExpandPath("~/panels/a.png"))
	assert.Equal(t, "/data/panels/a.png", ExpandPath("$LENS_TEST_DIR/a.png"))
	assert.Equal(t, "/abs/a.png", ExpandPath("/abs/a.png"))
}
