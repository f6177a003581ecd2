// Package storage arma el events.Store configurado.
package storage

import (
	"database/sql"
	"fmt"

	"baby-tracker/internal/adapters/storage/csvfile"
	"baby-tracker/internal/adapters/storage/memory"
	"baby-tracker/internal/adapters/storage/postgres"
	"baby-tracker/internal/adapters/storage/sqlite"
	"baby-tracker/internal/adapters/storage/sqlstore"
	"baby-tracker/internal/config"
	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/platform/logger"
)

// Opened es el store listo para usar más lo que hay que cerrar al terminar.
type Opened struct {
	Store events.Store
	// CSV no es nil sólo con el driver csv (lo necesita el watcher).
	CSV *csvfile.Store
	db  *sql.DB
}

func (o *Opened) Close() error {
	if o == nil || o.db == nil {
		return nil
	}
	return o.db.Close()
}

func Open(cfg config.StoreConfig, schema events.Schema, log logger.Logger) (*Opened, error) {
	if log == nil {
		log = logger.Nop()
	}

	switch cfg.Driver {
	case config.DriverCSV:
		s := csvfile.New(cfg.Path, schema, log)
		return &Opened{Store: s, CSV: s}, nil

	case config.DriverMemory:
		return &Opened{Store: memory.NewEventRepo(schema)}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: sqlite: %v", events.ErrStoreUnavailable, err)
		}
		log.Debug("sqlite store opened", map[string]any{"path": cfg.Path})
		return &Opened{Store: sqlstore.NewEventsRepo(db, sqlstore.SQLite, schema), db: db}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: postgres: %v", events.ErrStoreUnavailable, err)
		}
		log.Debug("postgres store opened", nil)
		return &Opened{Store: sqlstore.NewEventsRepo(db, sqlstore.Postgres, schema), db: db}, nil

	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", events.ErrInvalidInput, cfg.Driver)
	}
}
