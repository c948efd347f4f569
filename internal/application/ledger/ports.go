package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de DB, pasando
// repositorios atados a esa tx. Garantiza atomicidad: el append al ledger y
// el upsert del saldo materializado se confirman juntos o no se confirma nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		balanceRepo repository.BalanceRepository,
	) error) error
}

// PermissionChecker decisión de permisos provista por el colaborador externo
// de identidad. El kardex no la calcula: solo la consume (sí/no).
type PermissionChecker interface {
	// CanWrite indica si el usuario puede registrar movimientos en la bodega.
	CanWrite(ctx context.Context, userID, warehouseID string) (bool, error)
}

// AllowAll implementación permisiva de PermissionChecker, para despliegues
// donde la autorización ya ocurrió en el gateway (el middleware RBAC) y para
// tests.
type AllowAll struct{}

func (AllowAll) CanWrite(context.Context, string, string) (bool, error) { return true, nil }
