// Package config loads roomread settings from defaults, an optional config
// file, a .env file, ROOMREAD_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. ROOMREAD_HTTP_ADDR.
const EnvPrefix = "ROOMREAD"

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	HTTP    HTTP    `mapstructure:"http"`
	Data    Data    `mapstructure:"data"`
	Session Session `mapstructure:"session"`
	Redis   Redis   `mapstructure:"redis"`
	Auth    Auth    `mapstructure:"auth"`
	Log     Log     `mapstructure:"log"`
	MCP     MCP     `mapstructure:"mcp"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Data locates content on disk.
type Data struct {
	QuestionsDir string `mapstructure:"questions_dir"` // per-country quiz files
	LessonsDir   string `mapstructure:"lessons_dir"`   // empty means <questions_dir>/lessons
}

// Session configures where runner sessions live.
type Session struct {
	Store   string        `mapstructure:"store"` // memory, file or redis
	Dir     string        `mapstructure:"dir"`   // file store directory
	TTL     time.Duration `mapstructure:"ttl"`   // redis expiry
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// Redis holds connection settings for the redis session store.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Auth names the identity headers set by the upstream provider.
type Auth struct {
	UserHeader string `mapstructure:"user_header"`
	NameHeader string `mapstructure:"name_header"`
	Disabled   bool   `mapstructure:"disabled"`
}

// Log configures the application logger.
type Log struct {
	Level string `mapstructure:"level"`
}

// MCP configures the MCP server transport.
type MCP struct {
	Transport string `mapstructure:"transport"` // stdio or sse
	Addr      string `mapstructure:"addr"`
	BaseURL   string `mapstructure:"base_url"`
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"data":      "data.questions_dir",
	"lessons":   "data.lessons_dir",
	"log-level": "log.level",
	"store":     "session.store",
	"addr":      "http.addr",
	"transport": "mcp.transport",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("data.questions_dir", "data")
	v.SetDefault("data.lessons_dir", "")
	v.SetDefault("session.store", StoreFile)
	v.SetDefault("session.dir", ".roomread/sessions")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.lock_ttl", "5s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "roomread:session:")
	v.SetDefault("auth.user_header", "X-Forwarded-User")
	v.SetDefault("auth.name_header", "X-Forwarded-Name")
	v.SetDefault("auth.disabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.addr", ":8081")
	v.SetDefault("mcp.base_url", "http://localhost:8081")
}

// Load reads configuration. file may be empty, in which case roomread.yaml
// is looked up in the working directory. flags may be nil.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("roomread")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown session store %q (expected memory, file or redis)", c.Session.Store)
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("unknown mcp transport %q (expected stdio or sse)", c.MCP.Transport)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
