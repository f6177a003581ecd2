package events

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable: el recurso de almacenamiento no existe o no se puede leer/escribir.
	ErrStoreUnavailable = errors.New("event store unavailable")
	// ErrSchemaMismatch: los campos no calzan con el header del store. No se escribe nada.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrAmbiguousDeletion: el diff por tuplas no identifica una única fila borrada.
	ErrAmbiguousDeletion = errors.New("ambiguous deletion")
	// ErrMalformedDuration: una celda Duration no tiene la forma "Xh Ym".
	ErrMalformedDuration = errors.New("malformed duration")

	ErrMalformedRecord = errors.New("malformed record")
	ErrRecordNotFound  = errors.New("record not found")
)
