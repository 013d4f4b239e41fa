package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Biblioteca-api/internal/application/dto"
	"github.com/jhoicas/Biblioteca-api/internal/domain"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
	"github.com/jhoicas/Biblioteca-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro (con ventana bootstrap),
// login, perfil propio y listado de usuarios.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// NeedsBootstrap indica si todavía no existe ningún admin (ventana bootstrap abierta).
func (uc *AuthUseCase) NeedsBootstrap() (bool, error) {
	n, err := uc.userRepo.CountByRole(entity.RoleAdmin)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
//
// Regla bootstrap: el rol admin solicitado solo se respeta mientras no exista
// ningún admin; en cuanto hay uno, todo registro queda forzado a reader aunque
// el cliente pida otra cosa. La regla vive aquí, en el servidor: el selector de
// rol del front es solo cosmético.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" || email == "" || in.Phone == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	role := entity.RoleReader
	if strings.ToLower(strings.TrimSpace(in.Role)) == entity.RoleAdmin {
		open, err := uc.NeedsBootstrap()
		if err != nil {
			return nil, err
		}
		if open {
			role = entity.RoleAdmin
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		FullName:     in.FullName,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// El mismo error cubre email desconocido y password incorrecto.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// ListUsers lista usuarios, opcionalmente filtrados por rol (ej. role=reader
// para el selector de lectores del panel admin).
func (uc *AuthUseCase) ListUsers(role string) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List(strings.ToLower(strings.TrimSpace(role)))
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// ToUserResponse convierte la entidad a su DTO público (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: dto.FormatDate(u.CreatedAt),
	}
}
