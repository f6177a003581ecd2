package events

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"baby-tracker/internal/domain/events/details"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/now", nowHandler(svc))
	r.Get("/api/schema", schemaHandler(svc))
	r.Get("/api/summary", summaryHandler(svc))

	r.Route("/api/events", func(er chi.Router) {
		er.Post("/", createEventHandler(svc))
		er.Get("/", listEventsHandler(svc))

		// Tabla de historial: vista más reciente primero + reconciliación de ediciones
		er.Get("/recent", recentHandler(svc))
		er.Put("/recent", reconcileHandler(svc))
	})
}

// CreateRequest es el cuerpo del formulario de carga.
type CreateRequest struct {
	Kind    Kind     `json:"kind" enums:"Food,Poo,Pee,Sleep"`
	Start   string   `json:"start"` // "2024-03-01 08:00 AM" o RFC3339
	End     string   `json:"end"`   // requerido en Food y Sleep
	Source  string   `json:"source" enums:"Left,Right,Bottle"`
	Ounces  *float64 `json:"ounces"`
	Size    string   `json:"size" enums:"Small,Normal,Big"`
	Quality string   `json:"quality" enums:"Poor,Normal,Great"`
	Comment string   `json:"comment"`
}

// EventResponse es un evento tal como se guarda (celdas formateadas).
type EventResponse struct {
	Kind     Kind    `json:"kind"`
	Start    string  `json:"start"`
	Duration string  `json:"duration,omitempty"`
	Source   string  `json:"source,omitempty"`
	Ounces   float64 `json:"ounces,omitempty"`
	Size     string  `json:"size,omitempty"`
	Quality  string  `json:"quality,omitempty"`
	Comment  string  `json:"comment,omitempty"`
}

// ViewResponse es la tabla: filas como mapas columna -> celda, más reciente primero.
type ViewResponse struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

func NewViewResponse(view View) ViewResponse {
	out := ViewResponse{Columns: view.Columns, Rows: make([]map[string]string, 0, len(view.Rows))}
	for _, row := range view.Rows {
		out.Rows = append(out.Rows, rowToMap(view.Columns, row))
	}
	return out
}

// View reordena las celdas según Columns.
func (v ViewResponse) View() (View, error) {
	rows := make([]Record, 0, len(v.Rows))
	for _, m := range v.Rows {
		row, err := mapToRow(v.Columns, m)
		if err != nil {
			return View{}, err
		}
		rows = append(rows, row)
	}
	return View{Columns: v.Columns, Rows: rows}, nil
}

type ReconcileRequest struct {
	Rows []map[string]string `json:"rows"`
}

type ReconcileResponse struct {
	Action  Action            `json:"action"`
	Deleted map[string]string `json:"deleted,omitempty"`
}

// createEventHandler godoc
// @Summary Registrar evento
// @Description Agrega un evento al final del log. Food y Sleep requieren start y end; Poo/Pee solo start. ounces solo con source=Bottle.
// @Tags events
// @Accept json
// @Produce json
// @Param payload body CreateRequest true "Datos del formulario"
// @Success 201 {object} EventResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 422 {string} string "schema mismatch"
// @Failure 503 {string} string "store unavailable"
// @Router /api/events [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := req.ToInput(svc.Schema().Location())
		if err != nil {
			writeError(w, err)
			return
		}

		e, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, NewEventResponse(e, svc.Schema().Location()))
	}
}

func (req CreateRequest) ToInput(loc *time.Location) (CreateInput, error) {
	kind, ok := ParseKind(string(req.Kind))
	if !ok {
		return CreateInput{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, req.Kind)
	}
	start, err := ParseStart(req.Start, loc)
	if err != nil {
		return CreateInput{}, fmt.Errorf("%w: start must look like %q", ErrInvalidInput, StartLayout)
	}

	in := CreateInput{
		Kind:    kind,
		Start:   start,
		Comment: req.Comment,
	}
	if strings.TrimSpace(req.End) != "" {
		end, err := ParseStart(req.End, loc)
		if err != nil {
			return CreateInput{}, fmt.Errorf("%w: end must look like %q", ErrInvalidInput, StartLayout)
		}
		in.End = end
	}
	if v := strings.TrimSpace(req.Source); v != "" {
		src, ok := details.ParseFeedSource(v)
		if !ok {
			return CreateInput{}, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, v)
		}
		in.Source = src
	}
	if req.Ounces != nil {
		in.Ounces = *req.Ounces
	}
	if v := strings.TrimSpace(req.Size); v != "" {
		size, ok := details.ParsePottySize(v)
		if !ok {
			return CreateInput{}, fmt.Errorf("%w: unknown size %q", ErrInvalidInput, v)
		}
		in.Size = size
	}
	if v := strings.TrimSpace(req.Quality); v != "" {
		q, ok := details.ParseSleepQuality(v)
		if !ok {
			return CreateInput{}, fmt.Errorf("%w: unknown quality %q", ErrInvalidInput, v)
		}
		in.Quality = q
	}
	return in, nil
}

// listEventsHandler godoc
// @Summary Buscar eventos
// @Description Lista eventos decodificados, más reciente primero. Permite filtrar por tipos, rango de fechas y texto del comentario.
// @Tags events
// @Produce json
// @Param limit query int false "Máximo de eventos (1-window). Por defecto 50"
// @Param types query string false "Lista CSV de tipos (ej: Food,Sleep)"
// @Param from query string false "Start mínimo (RFC3339)"
// @Param to query string false "Start máximo (RFC3339)"
// @Param q query string false "Texto libre en el comentario"
// @Success 200 {array} EventResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos / registro ilegible"
// @Failure 503 {string} string "store unavailable"
// @Router /api/events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]EventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, NewEventResponse(e, svc.Schema().Location()))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recentHandler godoc
// @Summary Tabla de historial
// @Description Devuelve las últimas n filas del store, más reciente primero, tal como se editan en la tabla.
// @Tags events
// @Produce json
// @Param n query int false "Cantidad de filas (1-window). Por defecto window"
// @Success 200 {object} ViewResponse
// @Failure 503 {string} string "store unavailable"
// @Router /api/events/recent [get]
func recentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Recent(r.Context(), parseInt(r, "n", 0))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, NewViewResponse(view))
	}
}

// reconcileHandler godoc
// @Summary Aplicar ediciones de la tabla
// @Description Recibe la vista completa de la tabla (más reciente primero) después de editar celdas o borrar una fila. Se compara contra las últimas n filas del store.
// @Tags events
// @Accept json
// @Produce json
// @Param n query int false "Tamaño de la vista con la que se pidió la tabla"
// @Param payload body ReconcileRequest true "Filas de la tabla"
// @Success 200 {object} ReconcileResponse
// @Failure 400 {string} string "invalid json / vista más larga que el store"
// @Failure 404 {string} string "record not found"
// @Failure 409 {string} string "ambiguous deletion"
// @Failure 422 {string} string "schema mismatch"
// @Failure 503 {string} string "store unavailable"
// @Router /api/events/recent [put]
func reconcileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReconcileRequest
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		columns := svc.Schema().Columns()
		edited := make([]Record, 0, len(req.Rows))
		for _, m := range req.Rows {
			row, err := mapToRow(columns, m)
			if err != nil {
				writeError(w, err)
				return
			}
			edited = append(edited, row)
		}

		out, err := svc.Reconcile(r.Context(), parseInt(r, "n", 0), edited)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := ReconcileResponse{Action: out.Action}
		if out.Deleted != nil {
			resp.Deleted = rowToMap(columns, out.Deleted)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// summaryHandler godoc
// @Summary Resumen diario
// @Description Totales por día de los últimos días (tomas, onzas, minutos de pecho y sueño, pañales).
// @Tags analytics
// @Produce json
// @Param days query int false "Días hacia atrás desde el último evento. Por defecto 7"
// @Success 200 {array} DaySummaryResponse
// @Failure 400 {string} string "registro ilegible"
// @Router /api/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sums, err := svc.Summary(r.Context(), parseInt(r, "days", 7))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]DaySummaryResponse, 0, len(sums))
		for _, s := range sums {
			out = append(out, NewDaySummaryResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type DaySummaryResponse struct {
	Day            string  `json:"day"`
	Feeds          int     `json:"feeds"`
	BottleOunces   float64 `json:"bottle_ounces"`
	NursingMinutes int     `json:"nursing_minutes"`
	SleepMinutes   int     `json:"sleep_minutes"`
	Poos           int     `json:"poos"`
	Pees           int     `json:"pees"`
}

func NewDaySummaryResponse(s DaySummary) DaySummaryResponse {
	return DaySummaryResponse{
		Day:            s.Day.Format(time.DateOnly),
		Feeds:          s.Feeds,
		BottleOunces:   s.BottleOunces,
		NursingMinutes: s.NursingMinutes,
		SleepMinutes:   s.SleepMinutes,
		Poos:           s.Poos,
		Pees:           s.Pees,
	}
}

// DaySummary vuelve a la forma del dominio (la usa el cliente remoto).
func (r DaySummaryResponse) DaySummary(loc *time.Location) (DaySummary, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(time.DateOnly, r.Day, loc)
	if err != nil {
		return DaySummary{}, fmt.Errorf("%w: day %q", ErrMalformedRecord, r.Day)
	}
	return DaySummary{
		Day:            day,
		Feeds:          r.Feeds,
		BottleOunces:   r.BottleOunces,
		NursingMinutes: r.NursingMinutes,
		SleepMinutes:   r.SleepMinutes,
		Poos:           r.Poos,
		Pees:           r.Pees,
	}, nil
}

// nowHandler godoc
// @Summary Hora actual
// @Description Propone la hora actual con el formato de la celda Start (botón "Now").
// @Tags events
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/now [get]
func nowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"now": svc.Now()})
	}
}

// schemaHandler godoc
// @Summary Columnas del store
// @Tags events
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/schema [get]
func schemaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"columns": svc.Schema().Columns()})
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	filter := ListFilter{Limit: parseInt(r, "limit", 50)}

	// types=Food,Sleep
	if v := strings.TrimSpace(r.URL.Query().Get("types")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if strings.TrimSpace(p) == "" {
				continue
			}
			k, ok := ParseKind(p)
			if !ok {
				return ListFilter{}, fmt.Errorf("unknown type %q", strings.TrimSpace(p))
			}
			filter.Kinds = append(filter.Kinds, k)
		}
	}

	// from/to RFC3339
	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	if v := strings.TrimSpace(r.URL.Query().Get("q")); v != "" {
		filter.Query = v
	}
	return filter, nil
}

func parseInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func rowToMap(columns []string, row Record) map[string]string {
	m := make(map[string]string, len(columns))
	for i, c := range columns {
		if i < len(row) {
			m[c] = row[i]
		}
	}
	return m
}

// mapToRow ordena las celdas según el header. Columnas ausentes quedan vacías;
// columnas desconocidas son ErrSchemaMismatch.
func mapToRow(columns []string, m map[string]string) (Record, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	row := make(Record, len(columns))
	for k, v := range m {
		i, ok := idx[k]
		if !ok {
			return nil, fmt.Errorf("%w: unknown column %q", ErrSchemaMismatch, k)
		}
		row[i] = v
	}
	return row, nil
}

func NewEventResponse(e Event, loc *time.Location) EventResponse {
	out := EventResponse{
		Kind:    e.Kind,
		Start:   FormatStart(e.Start.In(loc)),
		Comment: e.Comment,
	}
	if e.Kind.HasDuration() {
		out.Duration = FormatDuration(e.Duration)
	}
	if e.Feeding != nil {
		out.Source = string(e.Feeding.Source)
		out.Ounces = e.Feeding.Ounces
	}
	if e.Potty != nil {
		out.Size = string(e.Potty.Size)
	}
	if e.Sleep != nil {
		out.Quality = string(e.Sleep.Quality)
	}
	return out
}

// StatusFor traduce los errores del dominio a códigos HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMalformedDuration),
		errors.Is(err, ErrMalformedRecord):
		return http.StatusBadRequest
	case errors.Is(err, ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAmbiguousDeletion):
		return http.StatusConflict
	case errors.Is(err, ErrSchemaMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	http.Error(w, msg, status)
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
