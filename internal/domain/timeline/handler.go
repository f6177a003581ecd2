package timeline

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"baby-tracker/internal/domain/events"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *events.Service, b *Builder, defaultDays int) {
	r.Get("/api/timeline", timelineHandler(svc, b, defaultDays))
}

type DayResponse struct {
	Day       string     `json:"day"`
	Intervals []Interval `json:"intervals"`
}

func NewResponse(days []Day) []DayResponse {
	out := make([]DayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, DayResponse{Day: d.Day.Format(time.DateOnly), Intervals: d.Intervals})
	}
	return out
}

// Days vuelve a la forma del dominio (la usa el cliente remoto).
func Days(resp []DayResponse, loc *time.Location) ([]Day, error) {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Day, 0, len(resp))
	for _, r := range resp {
		day, err := time.ParseInLocation(time.DateOnly, r.Day, loc)
		if err != nil {
			return nil, fmt.Errorf("timeline: day %q: %w", r.Day, err)
		}
		out = append(out, Day{Day: day, Intervals: r.Intervals})
	}
	return out, nil
}

// timelineHandler godoc
// @Summary Timeline de los últimos días
// @Description Intervalos por día (partidos a medianoche, pañales con 10 minutos visibles), con color y tooltip. Una duración ilegible aborta todo el gráfico.
// @Tags analytics
// @Produce json
// @Param days query int false "Días hacia atrás. Por defecto el configurado (7)"
// @Success 200 {array} DayResponse
// @Failure 400 {string} string "malformed duration / registro ilegible"
// @Failure 503 {string} string "store unavailable"
// @Router /api/timeline [get]
func timelineHandler(svc *events.Service, b *Builder, defaultDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := defaultDays
		if v := r.URL.Query().Get("days"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				days = n
			}
		}

		records, err := svc.Records(r.Context())
		if err != nil {
			http.Error(w, err.Error(), events.StatusFor(err))
			return
		}

		intervals, err := b.BuildRecords(svc.Schema(), records, days)
		if err != nil {
			http.Error(w, err.Error(), events.StatusFor(err))
			return
		}

		buf, err := sonic.Marshal(NewResponse(GroupByDay(intervals)))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf)
	}
}
