package config

import "baby-tracker/internal/domain/events"

// DefaultConfig devuelve la config con la que corre babylog sin archivo.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			Driver: DriverCSV,
			Path:   "baby_log.csv",
			Schema: events.SchemaClassic,
			Watch:  true,
		},
		Table: TableConfig{
			Window: events.DefaultWindow,
		},
		Timeline: TimelineConfig{
			TrailingDays: 7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			App:    "babylog",
		},
	}
}

// Default es DefaultConfig con el entorno aplicado, para correr sin archivo de config.
func Default() (*Config, error) {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}
