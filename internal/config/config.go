package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"baby-tracker/internal/domain/events"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath es donde babylog busca su config si no se indica otra.
const DefaultConfigPath = "~/.config/babylog/config.yaml"

const (
	DriverCSV      = "csv"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Table    TableConfig    `yaml:"table"`
	Timeline TimelineConfig `yaml:"timeline"`
	Logging  LoggingConfig  `yaml:"logging"`
	Timezone string         `yaml:"timezone"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
	// Schema es un preset (classic, extended); Columns lo pisa si viene.
	Schema  string   `yaml:"schema"`
	Columns []string `yaml:"columns,omitempty"`
	Watch   bool     `yaml:"watch"`
}

type TableConfig struct {
	Window int `yaml:"window"`
}

type TimelineConfig struct {
	TrailingDays int `yaml:"trailing_days"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

// Load lee el YAML en path encima de los defaults y aplica overrides de entorno.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadOrCreateAt carga la config de path; si no existe escribe los defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		cfg.ApplyEnv()
		if err := cfg.normalize(); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}

	return Load(path)
}

// Resolve carga path si viene. Sin path usa DefaultConfigPath cuando existe y,
// si no, los defaults con el entorno aplicado (no escribe nada a disco).
func Resolve(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultConfigPath
	}
	p, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	if !explicit {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return Default()
		}
	}
	return Load(p)
}

// Overrides son los flags globales del CLI; un campo vacío no pisa nada.
type Overrides struct {
	Driver    string
	Path      string
	LogLevel  string
	LogFormat string
}

// Override aplica flags por encima de archivo y entorno, y revalida.
func (c *Config) Override(o Overrides) error {
	if v := strings.TrimSpace(o.Driver); v != "" {
		c.Store.Driver = v
	}
	if v := strings.TrimSpace(o.Path); v != "" {
		c.Store.Path = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(o.LogFormat); v != "" {
		c.Logging.Format = v
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// ApplyEnv pisa la config con las variables de entorno conocidas.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := strings.TrimSpace(os.Getenv("BABYLOG_FILE")); v != "" {
		c.Store.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("BABYLOG_STORE")); v != "" {
		c.Store.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_DSN")); v != "" {
		c.Store.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		c.Logging.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_NAME")); v != "" {
		c.Logging.App = v
	}
}

func (c *Config) normalize() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Store.Schema = strings.ToLower(strings.TrimSpace(c.Store.Schema))

	p, err := expandPath(c.Store.Path)
	if err != nil {
		return err
	}
	c.Store.Path = p
	return nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverCSV, DriverMemory, DriverSQLite:
		if c.Store.Driver != DriverMemory && strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store.path is required for driver %q", c.Store.Driver)
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return errors.New("store.dsn is required for driver \"postgres\"")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if _, err := c.Schema(); err != nil {
		return err
	}
	if c.Table.Window < 1 {
		return fmt.Errorf("table.window must be >= 1, got %d", c.Table.Window)
	}
	if c.Timeline.TrailingDays < 1 {
		return fmt.Errorf("timeline.trailing_days must be >= 1, got %d", c.Timeline.TrailingDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resuelve timezone; vacío es la hora local.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Schema arma el schema del store: columnas explícitas o el preset, en la zona configurada.
func (c *Config) Schema() (events.Schema, error) {
	var (
		s   events.Schema
		err error
	)
	if len(c.Store.Columns) > 0 {
		s, err = events.NewSchema(c.Store.Columns)
	} else {
		s, err = events.SchemaByName(c.Store.Schema)
	}
	if err != nil {
		return events.Schema{}, err
	}

	loc, err := c.Location()
	if err != nil {
		return events.Schema{}, err
	}
	return s.WithLocation(loc), nil
}

// expandPath reemplaza un ~ inicial por el home del usuario.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
