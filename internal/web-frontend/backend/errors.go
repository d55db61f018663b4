package backend

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indica HTTP 401 num endpoint autenticado
var ErrUnauthorized = errors.New("backend: unauthorized")

// NetworkError é falha de transporte (conexão, timeout, contexto cancelado)
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError é uma resposta HTTP sem corpo JSON utilizável
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("%s http %d", e.Op, e.Code) }

// IsTransient diz se a falha pode ser passageira: rede ou 5xx
func IsTransient(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return false
}
