package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen a códigos de estado; el ledger nunca los deja escapar como
// estados parciales: toda operación fallida deja cero filas escritas.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrLockTimeout       = errors.New("timeout adquiriendo candado de inventario")
	ErrWarehouseInactive = errors.New("bodega desactivada")
	ErrDuplicate         = errors.New("recurso duplicado")
)

// ValidationError entrada malformada con el campo y el motivo. Recuperable
// corrigiendo la petición; nunca se reintenta automáticamente.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError saldo origen menor a lo solicitado. Lleva Available y
// Requested para que el caller pueda corregir la petición.
type InsufficientStockError struct {
	WarehouseID string
	PartID      string
	Available   quantity.Quantity
	Requested   quantity.Quantity
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en bodega %s: disponible %s, solicitado %s",
		e.WarehouseID, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// LockTimeoutError contención de candado vencida. Seguro de reintentar con
// backoff: no se escribió nada.
type LockTimeoutError struct {
	Key  string
	Wait time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("timeout (%s) adquiriendo candado %s", e.Wait, e.Key)
}

// Unwrap permite errors.Is(err, ErrLockTimeout).
func (e *LockTimeoutError) Unwrap() error { return ErrLockTimeout }
