package repository

import "github.com/jhoicas/Biblioteca-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	List(role string) ([]*entity.User, error) // role vacío = todos
	CountByRole(role string) (int, error)
}
