package entity

// Vendor proveedor del directorio externo (solo lectura).
type Vendor struct {
	ID     string
	Name   string
	Active bool
}
