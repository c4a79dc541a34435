// Package config loads the server configuration from defaults, an optional
// config file, KOLAM_MCP_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so the key
// "log_level" is read from KOLAM_MCP_LOG_LEVEL.
const EnvPrefix = "KOLAM_MCP"

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all server configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// RenderSize is the side of generated pattern images in pixels.
	RenderSize int `mapstructure:"render_size" validate:"min=16,max=4096"`

	// OutputDir resolves relative output paths given to tools.
	OutputDir string `mapstructure:"output_dir"`

	// Canny thresholds for edge detection (0-255).
	CannyLow  int `mapstructure:"canny_low" validate:"min=0,max=255"`
	CannyHigh int `mapstructure:"canny_high" validate:"min=1,max=255,gtfield=CannyLow"`

	// BinarizeLevel splits black from white in the symmetry comparison.
	BinarizeLevel int `mapstructure:"binarize_level" validate:"min=0,max=255"`

	// MinImageSide is the smallest image side analyzed without upscaling.
	MinImageSide int `mapstructure:"min_image_side" validate:"min=2,max=4096"`

	// MetricsAddr is the listen address of the /metrics and /health HTTP
	// endpoint. Empty disables it.
	MetricsAddr string `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`

	UpscaleSmall    bool `mapstructure:"upscale_small"`
	TieredFindings  bool `mapstructure:"tiered_findings"`
	ClampParameters bool `mapstructure:"clamp_parameters"`
}

// option describes one configuration key.
type option struct {
	key   string
	value any
	usage string
}

var options = []option{
	{"log_level", "info", "log level: debug, info, warn or error"},
	{"render_size", 700, "side of rendered pattern images in pixels"},
	{"output_dir", ".", "directory for relative output paths"},
	{"canny_low", 50, "Canny low threshold (0-255)"},
	{"canny_high", 150, "Canny high threshold (0-255)"},
	{"binarize_level", 128, "intensity threshold for the symmetry comparison"},
	{"min_image_side", 64, "smallest image side analyzed without upscaling"},
	{"metrics_addr", "", "listen address for /metrics and /health, e.g. :9090 (empty disables)"},
	{"upscale_small", true, "upscale small images instead of rejecting them"},
	{"tiered_findings", false, "use the three-tier symmetry findings by default"},
	{"clamp_parameters", true, "clamp out-of-range grid sizes instead of rejecting them"},
}

// flagName maps a config key to its command-line flag.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Loader wraps a viper instance preloaded with defaults and env binding.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with every default registered and automatic
// environment lookup enabled.
func NewLoader() *Loader {
	v := viper.New()
	for _, o := range options {
		v.SetDefault(o.key, o.value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// RegisterFlags defines one flag per key on fs and binds it, so a flag set
// on the command line overrides the environment and the config file.
func (l *Loader) RegisterFlags(fs *pflag.FlagSet) error {
	for _, o := range options {
		name := flagName(o.key)
		switch def := o.value.(type) {
		case string:
			fs.String(name, def, o.usage)
		case int:
			fs.Int(name, def, o.usage)
		case bool:
			fs.Bool(name, def, o.usage)
		default:
			return fmt.Errorf("config: unsupported default type %T for %s", def, o.key)
		}
		if err := l.v.BindPFlag(o.key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("config: failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads configFile when non-empty, then resolves and validates the
// configuration. The file format follows its extension (yaml, json, toml).
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	cfg, err := NewLoader().Load("")
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not validate: %v", err))
	}
	return cfg
}

var validate = validator.New()

// Validate checks value ranges and the ordering of the Canny thresholds.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be a host:port address", field)
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
