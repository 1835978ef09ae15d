package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator" // operario de bodega: crea demanda y envíos
	RoleViewer   = "viewer"   // solo lectura (reportes)
)

// User representa un operador del sistema. El motor confía en esta identidad
// para los campos operator/created_by; no hace autorización propia.
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, operator, viewer
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
