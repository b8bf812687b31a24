package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"taskmaster/internal/logging"
	"taskmaster/internal/util"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config is the complete runtime configuration of the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Tasks    TasksConfig    `yaml:"tasks"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	StaticDir    string        `yaml:"static_dir"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// TasksConfig controls task behaviour. StrictTransitions rejects status
// changes that the task state machine does not allow.
type TasksConfig struct {
	StrictTransitions bool `yaml:"strict_transitions"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			DSN:          "data/todo.db",
			MaxOpenConns: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadEnvFile loads variables from a dotenv file without overriding the
// existing environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load builds a Config from defaults, the optional YAML file at path and
// TODO_* environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Server.Addr = util.EnvOrDefault("TODO_ADDR", c.Server.Addr)
	c.Server.StaticDir = util.EnvOrDefault("TODO_STATIC_DIR", c.Server.StaticDir)
	c.Server.CORSOrigins = util.EnvList("TODO_CORS_ORIGINS", c.Server.CORSOrigins)

	c.Database.Driver = util.EnvOrDefault("TODO_DB_DRIVER", c.Database.Driver)
	if c.Database.Driver == DriverSQLite {
		c.Database.DSN = util.EnvOrDefault("TODO_DB_PATH", c.Database.DSN)
	}
	c.Database.DSN = util.EnvOrDefault("TODO_DB_DSN", c.Database.DSN)

	c.Log.Level = util.EnvOrDefault("TODO_LOG_LEVEL", c.Log.Level)
	c.Log.Format = util.EnvOrDefault("TODO_LOG_FORMAT", c.Log.Format)

	if c.Auth.BcryptCost, err = util.EnvInt("TODO_BCRYPT_COST", c.Auth.BcryptCost); err != nil {
		return err
	}
	if c.Tasks.StrictTransitions, err = util.EnvBool("TODO_STRICT_TRANSITIONS", c.Tasks.StrictTransitions); err != nil {
		return err
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server address must not be empty"))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database dsn must not be empty"))
	}
	if c.Database.MaxOpenConns < 0 {
		errs = append(errs, errors.New("database max_open_conns must not be negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.Log.Format))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if cost := c.Auth.BcryptCost; cost != 0 && (cost < bcrypt.MinCost || cost > bcrypt.MaxCost) {
		errs = append(errs, fmt.Errorf("auth bcrypt_cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	return errors.Join(errs...)
}
