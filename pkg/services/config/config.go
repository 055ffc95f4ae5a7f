package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SPEED_REPORT"

type Config struct {
	Format    string        `mapstructure:"format"`
	Strategy  string        `mapstructure:"strategy"`
	Locale    string        `mapstructure:"locale"`
	APIKey    string        `mapstructure:"key"`
	Optimized bool          `mapstructure:"optimized"`
	Download  bool          `mapstructure:"download"`
	Timeout   time.Duration `mapstructure:"timeout"`

	// Threshold is nil when unset or not a number.
	Threshold *float64 `mapstructure:"-"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("format", "cli")
	v.SetDefault("strategy", "mobile")
	v.SetDefault("locale", "en_US")
	v.SetDefault("key", "")
	v.SetDefault("optimized", false)
	v.SetDefault("download", false)
	v.SetDefault("timeout", 60*time.Second)
}

// LoadConfig merges, from lowest to highest precedence, defaults, the config
// file at path (optional), SPEED_REPORT_* environment variables and the flags
// that were explicitly set.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Threshold = parseThreshold(v.Get("threshold"))
	return &cfg, nil
}

func parseThreshold(raw any) *float64 {
	var f float64
	switch t := raw.(type) {
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}
