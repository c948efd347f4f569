package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega,
// multi-organización). Una bodega con historial en el ledger nunca se borra
// físicamente: se desactiva (Active=false) y deja de admitir movimientos.
type Warehouse struct {
	ID        string
	OrgID     string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
