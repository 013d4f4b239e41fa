package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Biblioteca-api/internal/application/auth"
	"github.com/jhoicas/Biblioteca-api/internal/application/dto"
	"github.com/jhoicas/Biblioteca-api/internal/domain"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Biblioteca-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio de usuarios
// ──────────────────────────────────────────────────────────────────────────────

type userRepoFake struct {
	users []*entity.User
}

func (r *userRepoFake) Create(u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *userRepoFake) GetByID(id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepoFake) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepoFake) List(role string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *userRepoFake) CountByRole(role string) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

const testSecret = "test-secret-key-for-unit-tests"

func newUseCase() (*auth.AuthUseCase, *userRepoFake) {
	repo := &userRepoFake{}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "biblioteca-test",
	})
	return uc, repo
}

func registerReq(email, role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		FullName: "Usuario de Prueba",
		Email:    email,
		Phone:    "3000000000",
		Password: "password123",
		Role:     role,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ventana bootstrap
// ──────────────────────────────────────────────────────────────────────────────

// Sin admins: el primer registro puede pedir rol admin y lo obtiene.
func TestRegister_BootstrapPrimerAdmin(t *testing.T) {
	uc, _ := newUseCase()

	open, err := uc.NeedsBootstrap()
	require.NoError(t, err)
	assert.True(t, open, "sin usuarios la ventana bootstrap está abierta")

	user, err := uc.RegisterUser(registerReq("admin@biblio.test", "admin"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)

	open, err = uc.NeedsBootstrap()
	require.NoError(t, err)
	assert.False(t, open, "con un admin creado la ventana se cierra")
}

// Con un admin existente, pedir rol admin se fuerza a reader en el servidor.
func TestRegister_SegundoAdminForzadoAReader(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.RegisterUser(registerReq("admin@biblio.test", "admin"))
	require.NoError(t, err)

	user, err := uc.RegisterUser(registerReq("intruso@biblio.test", "admin"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleReader, user.Role,
		"después del bootstrap todo registro queda en reader aunque pida admin")
}

func TestRegister_RolPorDefectoEsReader(t *testing.T) {
	uc, _ := newUseCase()

	user, err := uc.RegisterUser(registerReq("lector@biblio.test", ""))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleReader, user.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.RegisterUser(registerReq("uno@biblio.test", ""))
	require.NoError(t, err)
	_, err = uc.RegisterUser(registerReq("uno@biblio.test", ""))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// El email se normaliza: mayúsculas y espacios no crean cuentas distintas.
func TestRegister_EmailNormalizado(t *testing.T) {
	uc, repo := newUseCase()

	_, err := uc.RegisterUser(registerReq("  Ana@Biblio.Test ", ""))
	require.NoError(t, err)
	assert.Equal(t, "ana@biblio.test", repo.users[0].Email)

	_, err = uc.RegisterUser(registerReq("ANA@BIBLIO.TEST", ""))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_CamposRequeridos(t *testing.T) {
	uc, _ := newUseCase()

	in := registerReq("x@biblio.test", "")
	in.FullName = ""
	_, err := uc.RegisterUser(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = registerReq("x@biblio.test", "")
	in.Password = "corta"
	_, err = uc.RegisterUser(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "password de menos de 8 caracteres")
}

// El hash bcrypt se persiste; el plano jamás.
func TestRegister_NoGuardaPasswordPlano(t *testing.T) {
	uc, repo := newUseCase()

	_, err := uc.RegisterUser(registerReq("ana@biblio.test", ""))
	require.NoError(t, err)
	require.Len(t, repo.users, 1)
	assert.NotEqual(t, "password123", repo.users[0].PasswordHash)
	assert.NotEmpty(t, repo.users[0].PasswordHash)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenConClaims(t *testing.T) {
	uc, _ := newUseCase()

	created, err := uc.RegisterUser(registerReq("ana@biblio.test", ""))
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@biblio.test", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, created.ID, out.User.ID)

	userID, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, entity.RoleReader, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.RegisterUser(registerReq("ana@biblio.test", ""))
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@biblio.test", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailDesconocido(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@biblio.test", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized,
		"email desconocido y password malo deben ser el mismo error")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests listado y perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestListUsers_FiltraPorRol(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.RegisterUser(registerReq("admin@biblio.test", "admin"))
	require.NoError(t, err)
	_, err = uc.RegisterUser(registerReq("ana@biblio.test", ""))
	require.NoError(t, err)
	_, err = uc.RegisterUser(registerReq("beto@biblio.test", ""))
	require.NoError(t, err)

	readers, err := uc.ListUsers("reader")
	require.NoError(t, err)
	assert.Len(t, readers, 2)
	for _, u := range readers {
		assert.Equal(t, entity.RoleReader, u.Role)
	}

	all, err := uc.ListUsers("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMe_UsuarioInexistente(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Me("no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
