package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyEndpoint      = "classifier.endpoint"
	KeyToken         = "classifier.token"
	KeyTimeout       = "classifier.timeout"
	KeyTheme         = "ui.theme"
	KeyStartDir      = "ui.start_dir"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
	KeyLogFile       = "logging.file"
	EnvPrefix        = "LENS"
	DefaultEndpoint  = "http://127.0.0.1:5000/predict"
	DefaultTheme     = "default"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Config holds the application configuration.
type Config struct {
	Logging    LoggingConfig
	UI         UIConfig
	Classifier ClassifierConfig
}

// ClassifierConfig describes the remote classification endpoint.
// A zero Timeout means requests run until the transport reports completion.
type ClassifierConfig struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Theme    string
	StartDir string
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEndpoint, DefaultEndpoint)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyTheme, DefaultTheme)
	v.SetDefault(KeyStartDir, ".")
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
}

// BindEnv makes v read LENS_* variables, e.g. LENS_CLASSIFIER_TOKEN.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load builds a Config from v without validating the classifier section.
func Load(v *viper.Viper) Config {
	return Config{
		Classifier: ClassifierConfig{
			Endpoint: strings.TrimSpace(v.GetString(KeyEndpoint)),
			Token:    strings.TrimSpace(v.GetString(KeyToken)),
			Timeout:  v.GetDuration(KeyTimeout),
		},
		UI: UIConfig{
			Theme:    v.GetString(KeyTheme),
			StartDir: ExpandPath(v.GetString(KeyStartDir)),
		},
		Logging: LoggingConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   ExpandPath(v.GetString(KeyLogFile)),
		},
	}
}

// Validate checks the settings a classification call needs.
func (c ClassifierConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: %s is required", common.ErrMissingConfig, KeyEndpoint)
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", common.ErrInvalidConfig, KeyEndpoint, c.Endpoint)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: %s is required (set %s_CLASSIFIER_TOKEN)", common.ErrMissingConfig, KeyToken, EnvPrefix)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyTimeout)
	}
	return nil
}
