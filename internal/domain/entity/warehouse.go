package entity

import "time"

// Warehouse representa una bodega o planta donde se almacena inventario.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
