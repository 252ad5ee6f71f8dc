package entity

import "time"

// Roles de la aplicación. El claim de rol viaja en el JWT para que el
// middleware RBAC decida sin consultar la DB.
const (
	RoleAdmin     = "admin"
	RoleComprador = "comprador" // compras y recepción
	RoleCocinero  = "cocinero"  // registra mermas y consumos
)

// User usuario del sistema; Operator en el libro de inventario es su ID.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
