package entity

import "time"

// Organization tenant dueño de bodegas, partes y movimientos. Su CRUD vive en
// el servicio administrativo; el kardex solo la consulta para el scoping.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
