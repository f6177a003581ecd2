// Package watch avisa cuando el archivo del log cambia fuera del proceso
// (edición a mano, sincronización, otra instancia).
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"baby-tracker/internal/platform/logger"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce agrupa ráfagas (un editor suele escribir y renombrar varias veces).
const DefaultDebounce = 150 * time.Millisecond

// Event es un cambio sobre el archivo observado.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher observa el directorio del archivo (no el archivo en sí: los rename atómicos
// cambian el inode y un watch directo se perdería) y filtra por nombre.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      logger.Logger
}

func New(path string, debounce time.Duration, log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Nop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		fsw:      fsw,
		path:     abs,
		debounce: debounce,
		log:      log.With(map[string]any{"component": "watch", "path": abs}),
	}, nil
}

func (w *Watcher) Path() string { return w.path }

// Run bloquea hasta que ctx se cancela. onChange recibe el último evento de cada ráfaga.
func (w *Watcher) Run(ctx context.Context, onChange func(Event)) {
	defer w.fsw.Close()

	var (
		pending *Event
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pending = &Event{Path: ev.Name, Op: ev.Op}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if pending != nil {
				w.log.Debug("file changed", map[string]any{"op": pending.Op.String()})
				onChange(*pending)
				pending = nil
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", map[string]any{"error": err.Error()})
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
