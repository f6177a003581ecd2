package events

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"baby-tracker/internal/domain/events/details"
)

// Column es un nombre de columna del CSV.
type Column string

const (
	ColumnEventType Column = "Event Type"
	ColumnStart     Column = "Start"
	ColumnDuration  Column = "Duration"
	ColumnSource    Column = "Source"
	ColumnOunces    Column = "Ounces"
	ColumnSize      Column = "Size"
	ColumnQuality   Column = "Quality"
	ColumnComment   Column = "Comment"
)

var knownColumns = map[Column]bool{
	ColumnEventType: true,
	ColumnStart:     true,
	ColumnDuration:  true,
	ColumnSource:    true,
	ColumnOunces:    true,
	ColumnSize:      true,
	ColumnQuality:   true,
	ColumnComment:   true,
}

const (
	SchemaClassic  = "classic"
	SchemaExtended = "extended"
)

var presets = map[string][]Column{
	SchemaClassic:  {ColumnEventType, ColumnStart, ColumnDuration, ColumnSource, ColumnOunces, ColumnComment},
	SchemaExtended: {ColumnEventType, ColumnStart, ColumnDuration, ColumnSource, ColumnOunces, ColumnSize, ColumnQuality, ColumnComment},
}

// Record es la forma posicional de un evento tal como vive en el store.
// El reconciliador lo compara como tupla opaca.
type Record []string

func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// key sirve para contar filas iguales (multiset).
func (r Record) key() string {
	return strings.Join(r, "\x1f")
}

// Schema es la lista ordenada de columnas; el header del archivo es la autoridad.
type Schema struct {
	columns []Column
	index   map[Column]int
	loc     *time.Location
}

// SchemaByName resuelve un preset ("classic", "extended").
func SchemaByName(name string) (Schema, error) {
	cols, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Schema{}, fmt.Errorf("%w: unknown schema %q", ErrInvalidInput, name)
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return NewSchema(names)
}

// NewSchema valida una lista explícita de columnas.
// Event Type y Start son obligatorias; no se permiten repetidas ni desconocidas.
func NewSchema(columns []string) (Schema, error) {
	s := Schema{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[Column]int, len(columns)),
		loc:     time.Local,
	}
	for _, raw := range columns {
		c := Column(strings.TrimSpace(raw))
		if !knownColumns[c] {
			return Schema{}, fmt.Errorf("%w: unknown column %q", ErrInvalidInput, raw)
		}
		if _, dup := s.index[c]; dup {
			return Schema{}, fmt.Errorf("%w: duplicated column %q", ErrInvalidInput, raw)
		}
		s.index[c] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	if !s.Has(ColumnEventType) || !s.Has(ColumnStart) {
		return Schema{}, fmt.Errorf("%w: schema needs %q and %q", ErrInvalidInput, ColumnEventType, ColumnStart)
	}
	return s, nil
}

// WithLocation devuelve una copia que interpreta Start en loc.
func (s Schema) WithLocation(loc *time.Location) Schema {
	if loc != nil {
		s.loc = loc
	}
	return s
}

func (s Schema) Location() *time.Location {
	if s.loc == nil {
		return time.Local
	}
	return s.loc
}

func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = string(c)
	}
	return out
}

func (s Schema) Width() int { return len(s.columns) }

func (s Schema) Has(c Column) bool {
	_, ok := s.index[c]
	return ok
}

// MatchesHeader compara contra un header leído del disco (posición por posición).
func (s Schema) MatchesHeader(header []string) bool {
	if len(header) != len(s.columns) {
		return false
	}
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) != string(s.columns[i]) {
			return false
		}
	}
	return true
}

// CheckRecord valida solo el ancho; el contenido es opaco.
func (s Schema) CheckRecord(r Record) error {
	if len(r) != len(s.columns) {
		return fmt.Errorf("%w: record has %d fields, header has %d", ErrSchemaMismatch, len(r), len(s.columns))
	}
	return nil
}

// Encode convierte un evento en su fila. Campos sin columna quedan en blanco si están vacíos;
// si traen valor es ErrSchemaMismatch.
func (s Schema) Encode(e Event) (Record, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	values := map[Column]string{
		ColumnEventType: string(e.Kind),
		ColumnStart:     FormatStart(e.Start.In(s.Location())),
		ColumnComment:   e.Comment,
	}
	if e.Kind.HasDuration() {
		values[ColumnDuration] = FormatDuration(e.Duration)
	}
	if e.Feeding != nil {
		values[ColumnSource] = string(e.Feeding.Source)
		if e.Feeding.Source == details.FeedSourceBottle {
			values[ColumnOunces] = formatOunces(e.Feeding.Ounces)
		}
	}
	if e.Potty != nil {
		values[ColumnSize] = string(e.Potty.Size)
	}
	if e.Sleep != nil {
		values[ColumnQuality] = string(e.Sleep.Quality)
	}

	for c, v := range values {
		if v != "" && !s.Has(c) {
			return nil, fmt.Errorf("%w: field %q has no column", ErrSchemaMismatch, c)
		}
	}

	r := make(Record, len(s.columns))
	for i, c := range s.columns {
		r[i] = values[c]
	}
	return r, nil
}

func (s Schema) cell(r Record, c Column) string {
	i, ok := s.index[c]
	if !ok || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// Decode interpreta una fila del store. Es más permisivo que Validate porque las filas
// pueden haberse editado a mano en la tabla, pero una duración ilegible es ErrMalformedDuration.
func (s Schema) Decode(r Record) (Event, error) {
	if err := s.CheckRecord(r); err != nil {
		return Event{}, err
	}

	kind, ok := ParseKind(s.cell(r, ColumnEventType))
	if !ok {
		return Event{}, fmt.Errorf("%w: event type %q", ErrMalformedRecord, s.cell(r, ColumnEventType))
	}
	start, err := ParseStart(s.cell(r, ColumnStart), s.Location())
	if err != nil {
		return Event{}, err
	}
	d, err := ParseDuration(s.cell(r, ColumnDuration))
	if err != nil {
		return Event{}, err
	}

	e := Event{
		Kind:     kind,
		Start:    start,
		Duration: d,
		Comment:  s.cell(r, ColumnComment),
	}

	if v := s.cell(r, ColumnSource); v != "" {
		src, ok := details.ParseFeedSource(v)
		if !ok {
			return Event{}, fmt.Errorf("%w: source %q", ErrMalformedRecord, v)
		}
		f := &details.Feeding{Source: src}
		if oz := s.cell(r, ColumnOunces); oz != "" {
			n, err := strconv.ParseFloat(oz, 64)
			if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
				return Event{}, fmt.Errorf("%w: ounces %q", ErrMalformedRecord, oz)
			}
			f.Ounces = n
		}
		e.Feeding = f
	}
	if v := s.cell(r, ColumnSize); v != "" {
		size, ok := details.ParsePottySize(v)
		if !ok {
			return Event{}, fmt.Errorf("%w: size %q", ErrMalformedRecord, v)
		}
		e.Potty = &details.Potty{Size: size}
	}
	if v := s.cell(r, ColumnQuality); v != "" {
		q, ok := details.ParseSleepQuality(v)
		if !ok {
			return Event{}, fmt.Errorf("%w: quality %q", ErrMalformedRecord, v)
		}
		e.Sleep = &details.Sleep{Quality: q}
	}
	return e, nil
}

// DecodeAll decodifica en orden y corta en el primer error.
func (s Schema) DecodeAll(records []Record) ([]Event, error) {
	out := make([]Event, 0, len(records))
	for i, r := range records {
		e, err := s.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
