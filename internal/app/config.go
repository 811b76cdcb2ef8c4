package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/corey/acm/internal/adapters/logging"
	"github.com/corey/acm/internal/adapters/web"
)

// EnvPrefix namespaces environment overrides: ACM_LISTEN, ACM_LOG_LEVEL, ...
const EnvPrefix = "ACM"

// Config holds initialization parameters for the App.
// Patterns (a pattern file) wins over Set (a stored set) when both are given.
type Config struct {
	ProjectRoot string `mapstructure:"-"`

	DB       string       `mapstructure:"db"`
	Listen   string       `mapstructure:"listen"`
	Patterns string       `mapstructure:"patterns"`
	Set      string       `mapstructure:"set"`
	Watch    WatchConf    `mapstructure:"watch"`
	Log      logging.Conf `mapstructure:"log"`
}

// WatchConf controls reloading when the pattern file changes.
type WatchConf struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":        "db",
	"listen":    "listen",
	"file":      "patterns",
	"set":       "set",
	"watch":     "watch.enabled",
	"log-level": "log.level",
}

// LoadConfig resolves configuration for projectRoot. Precedence, highest
// first: flags that were set, ACM_* environment, acm.yaml, defaults.
// acm.yaml is looked up in .acm/ and then the project root; a missing file
// is not an error. flags may be nil.
func LoadConfig(projectRoot string, flags *pflag.FlagSet) (Config, error) {
	paths := NewPaths(projectRoot)

	v := viper.New()
	v.SetConfigName("acm")
	v.SetConfigType("yaml")
	v.AddConfigPath(paths.Root)
	v.AddConfigPath(projectRoot)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logDefaults := logging.Defaults()
	v.SetDefault("db", paths.DB)
	v.SetDefault("listen", fmt.Sprintf("127.0.0.1:%d", web.DefaultPort(projectRoot)))
	v.SetDefault("patterns", "")
	v.SetDefault("set", "")
	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.debounce", "100ms")
	v.SetDefault("log.output", "file")
	v.SetDefault("log.path", paths.LogDir)
	v.SetDefault("log.filename", logDefaults.Filename)
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.rotateSize", logDefaults.RotateSize)
	v.SetDefault("log.rotateNum", logDefaults.RotateNum)
	v.SetDefault("log.keepDays", logDefaults.KeepDays)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	if err := cfg.Log.Validate(); err != nil {
		return Config{}, fmt.Errorf("log config: %w", err)
	}
	return cfg, nil
}
