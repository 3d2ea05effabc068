package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/loafoe/go-fronius"
)

const (
	EnvPrefix = "FRONIUS"
	// DefaultFile is looked up in the home directory when no config file is given.
	DefaultFile = ".fronius"
)

type Config struct {
	URL            string        `mapstructure:"url"`
	APIVersion     string        `mapstructure:"api_version"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Listen         string        `mapstructure:"listen"`
	AccessKeyID    string        `mapstructure:"access_key_id"`
	AccessKeyValue string        `mapstructure:"access_key_value"`
	PvSystemID     string        `mapstructure:"pv_system_id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("url", "")
	v.SetDefault("api_version", "auto")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("listen", ":9120")
	v.SetDefault("access_key_id", "")
	v.SetDefault("access_key_value", "")
	v.SetDefault("pv_system_id", "")
}

// InitConfig reads the config file and FRONIUS_* environment variables into v. A missing
// default config file is not an error.
func InitConfig(v *viper.Viper, cfgFile string) error {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(DefaultFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// ParseAPIVersion accepts auto, 0, v0, 1 and v1.
func ParseAPIVersion(s string) (fronius.APIVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return fronius.APIVersionAuto, nil
	case "0", "v0":
		return fronius.APIVersionV0, nil
	case "1", "v1":
		return fronius.APIVersionV1, nil
	}
	return fronius.APIVersionAuto, fmt.Errorf("unknown API version %q", s)
}

// ClientOptions returns the options for a local client configured by cfg.
func (c *Config) ClientOptions() ([]fronius.OptionFunc, error) {
	version, err := ParseAPIVersion(c.APIVersion)
	if err != nil {
		return nil, err
	}
	var opts []fronius.OptionFunc
	if version != fronius.APIVersionAuto {
		opts = append(opts, fronius.WithAPIVersion(version))
	}
	return opts, nil
}
