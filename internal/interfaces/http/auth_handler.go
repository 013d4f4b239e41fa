package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Biblioteca-api/internal/application/auth"
	"github.com/jhoicas/Biblioteca-api/internal/application/dto"
)

// AuthHandler maneja registro, login, perfil propio y metadatos de bootstrap.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Meta godoc
// @Summary      Estado de bootstrap
// @Tags         meta
// @Produce      json
// @Success      200  {object}  dto.MetaResponse
// @Router       /api/meta [get]
func (h *AuthHandler) Meta(c *fiber.Ctx) error {
	open, err := h.uc.NeedsBootstrap()
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.MetaResponse{NeedBootstrapAdmin: open})
}

// Register godoc
// @Summary      Registrar usuario
// @Description  El rol admin solo se respeta mientras no exista ningún admin (bootstrap).
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "fullName, email, phone, password, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.uc.RegisterUser(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: "email y password son requeridos"})
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.Me(GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(user)
}

// ListUsers godoc
// @Summary      Listar usuarios (solo admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role  query  string  false  "filtrar por rol (ej. reader)"
// @Success      200  {array}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.Query("role"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(users)
}
