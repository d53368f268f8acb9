package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen a códigos de estado; los casos de uso los devuelven tal cual.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrDuplicateReference  = errors.New("referencia ya utilizada")
	ErrLedgerInconsistency = errors.New("inconsistencia del libro de inventario")
)
