package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Biblioteca-api/internal/domain"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, full_name, email, phone, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.FullName, user.Email, user.Phone, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. (nil, nil) si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `
		SELECT id, full_name, email, phone, password_hash, role, created_at
		FROM users WHERE id = $1`
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&u.ID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

// GetByEmail obtiene un usuario por email (siempre almacenado en minúsculas).
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := `
		SELECT id, full_name, email, phone, password_hash, role, created_at
		FROM users WHERE email = $1 LIMIT 1`
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, email).Scan(
		&u.ID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// List lista usuarios; role vacío devuelve todos.
func (r *UserRepo) List(role string) ([]*entity.User, error) {
	query := `
		SELECT id, full_name, email, phone, password_hash, role, created_at
		FROM users WHERE ($1 = '' OR role = $1) ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// CountByRole cuenta usuarios con un rol (para la ventana bootstrap).
func (r *UserRepo) CountByRole(role string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}
