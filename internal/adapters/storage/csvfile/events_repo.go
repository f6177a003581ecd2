// Package csvfile guarda el log de eventos en un CSV con header, una fila por evento,
// la más antigua primero.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/platform/logger"

	"github.com/google/uuid"
)

// Store es el store por defecto. Cada mutación es un read-modify-write completo bajo mu;
// las reescrituras van a un archivo temporal en el mismo directorio y se renombran encima.
type Store struct {
	mu     sync.Mutex
	path   string
	schema events.Schema
	log    logger.Logger

	// cache del contenido parseado; nil = hay que releer el archivo.
	// stamp es el archivo (inode), mtime y tamaño con que se llenó; si cambió por fuera se relee.
	cache []events.Record
	stamp fileStamp
}

type fileStamp struct {
	info os.FileInfo
	mod  time.Time
	size int64
}

// same compara también la identidad del archivo: un editor que guarda con rename deja
// otro inode aunque el tamaño y el mtime coincidan.
func (a fileStamp) same(b fileStamp) bool {
	if a.info == nil || b.info == nil || !os.SameFile(a.info, b.info) {
		return false
	}
	return a.mod.Equal(b.mod) && a.size == b.size
}

func New(path string, schema events.Schema, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		path:   path,
		schema: schema,
		log:    log.With(map[string]any{"store": "csv", "path": path}),
	}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Columns() []string { return s.schema.Columns() }

// Invalidate descarta la cache; lo llama el watcher cuando el archivo cambia por fuera.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
		}
	}
	if err := s.writeAll(nil); err != nil {
		return err
	}
	s.log.Info("store created", map[string]any{"columns": len(s.schema.Columns())})
	return nil
}

func (s *Store) ReadAll(ctx context.Context) ([]events.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]events.Record, 0, len(all))
	for _, r := range all {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *Store) ReadRecent(ctx context.Context, n int) ([]events.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	return events.Newest(all, n), nil
}

// Append agrega una fila al final del archivo sin reescribir las existentes.
func (s *Store) Append(ctx context.Context, e events.Event) error {
	rec, err := s.schema.Encode(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// valida el header antes de escribir
	all, err := s.load()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	defer f.Close()

	// si alguien editó el archivo a mano y dejó la última línea sin salto, lo agregamos
	if missing, err := missingTrailingNewline(f); err != nil {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	} else if missing {
		if _, err := f.Write([]byte("\n")); err != nil {
			return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		s.cache = nil
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		s.cache = nil
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}

	s.cache = append(all, rec)
	s.stamp = s.currentStamp()
	s.log.Debug("record appended", map[string]any{"records": len(s.cache)})
	return nil
}

func (s *Store) ReplaceTail(ctx context.Context, newTail []events.Record, originalTailLength int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	next, err := events.WithTail(all, newTail, originalTailLength, s.schema.Width())
	if err != nil {
		return err
	}
	if err := s.writeAll(next); err != nil {
		return err
	}
	s.log.Debug("tail replaced", map[string]any{"tail": originalTailLength, "records": len(next)})
	return nil
}

func (s *Store) DeleteSpecific(ctx context.Context, rec events.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	next, err := events.WithoutNewest(all, rec)
	if err != nil {
		return err
	}
	if err := s.writeAll(next); err != nil {
		return err
	}
	s.log.Debug("record deleted", map[string]any{"records": len(next)})
	return nil
}

// load lee y valida el archivo completo (o devuelve la cache). Requiere mu tomado.
func (s *Store) load() ([]events.Record, error) {
	if s.cache != nil && s.currentStamp().same(s.stamp) {
		return s.cache, nil
	}
	s.cache = nil

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s has no header", events.ErrSchemaMismatch, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	if !s.schema.MatchesHeader(header) {
		return nil, fmt.Errorf("%w: header %q, expected %q", events.ErrSchemaMismatch, header, s.schema.Columns())
	}

	all := make([]events.Record, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
		}
		if len(row) != len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", events.ErrSchemaMismatch, line, len(row), len(header))
		}
		all = append(all, events.Record(row))
	}

	s.cache = all
	s.stamp = s.currentStamp()
	return all, nil
}

func (s *Store) currentStamp() fileStamp {
	info, err := os.Stat(s.path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{info: info, mod: info.ModTime(), size: info.Size()}
}

// writeAll reescribe header + filas de forma atómica (tmp + rename). Requiere mu tomado.
func (s *Store) writeAll(records []events.Record) error {
	dir := filepath.Dir(s.path)
	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}

	w := csv.NewWriter(f)
	werr := w.Write(s.schema.Columns())
	for _, r := range records {
		if werr != nil {
			break
		}
		werr = w.Write(r)
	}
	w.Flush()
	if werr == nil {
		werr = w.Error()
	}
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, werr)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}

	cached := make([]events.Record, len(records))
	copy(cached, records)
	s.cache = cached
	s.stamp = s.currentStamp()
	return nil
}

func missingTrailingNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	b := make([]byte, 1)
	if _, err := f.ReadAt(b, info.Size()-1); err != nil {
		return false, err
	}
	return b[0] != '\n', nil
}
