package cli

import (
	"errors"
	"fmt"

	"baby-tracker/internal/domain/events"
)

const (
	ExitSuccess      = 0
	ExitFailure      = 1 // el store rechazó la operación o no está disponible
	ExitCommandError = 2 // flags, config o datos de entrada inválidos
)

// ExitError lleva el código de salida hasta main.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode devuelve ExitFailure si err no es un *ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// failed envuelve un error del dominio con el código que le corresponde.
func failed(message string, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	code := ExitFailure
	if errors.Is(err, events.ErrInvalidInput) ||
		errors.Is(err, events.ErrMalformedDuration) ||
		errors.Is(err, events.ErrMalformedRecord) {
		code = ExitCommandError
	}
	return WrapExitError(code, message, err)
}
