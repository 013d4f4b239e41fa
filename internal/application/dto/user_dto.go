package dto

// RegisterRequest entrada para registro (password en texto, se hashea en use case).
// Role solo se respeta durante la ventana bootstrap; después siempre se fuerza a reader.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin reader"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
