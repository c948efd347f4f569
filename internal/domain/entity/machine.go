package entity

import "time"

// Machine equipo contra el que se registran consumos de partes
// (mantenimiento, operación). Solo lectura desde el kardex.
type Machine struct {
	ID        string
	OrgID     string
	Name      string
	Code      string
	CreatedAt time.Time
}
