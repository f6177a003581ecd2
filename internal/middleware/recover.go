package middleware

import (
	"net/http"
	"runtime/debug"

	"baby-tracker/internal/platform/logger"
)

// Recover convierte un panic del handler en 500 y lo deja en el log con el stack.
// Reemplaza a chimw.Recoverer, que imprime el stack suelto en stderr y no pasa por logger.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic in handler", map[string]any{
					"method":     r.Method,
					"path":       r.URL.Path,
					"panic":      rec,
					"request_id": RequestIDFrom(r),
					"stack":      string(debug.Stack()),
				})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
