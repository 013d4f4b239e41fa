package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

// User representa un usuario del sistema (bibliotecario admin o lector).
type User struct {
	ID           string
	FullName     string
	Email        string // único, siempre en minúsculas
	Phone        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, reader
	CreatedAt    time.Time
}
