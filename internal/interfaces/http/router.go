package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Biblioteca-api/internal/application/auth"
	"github.com/jhoicas/Biblioteca-api/internal/application/catalog"
	"github.com/jhoicas/Biblioteca-api/internal/application/lending"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CatalogUC *catalog.CatalogUseCase
	LendingUC *lending.LendingUseCase
	ReportUC  *lending.ReportUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	bookHandler := NewBookHandler(deps.CatalogUC)
	loanHandler := NewLoanHandler(deps.LendingUC, deps.ReportUC)

	authRequired := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)
	readerOnly := RequireRole(entity.RoleReader)

	// Público: metadatos de bootstrap y auth
	api.Get("/meta", authHandler.Meta)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Perfil propio (cualquier rol autenticado)
	api.Get("/me", authRequired, authHandler.Me)

	// Usuarios (solo admin; el panel lo usa con ?role=reader)
	api.Get("/users", authRequired, adminOnly, authHandler.ListUsers)

	// Catálogo: lectura para ambos roles, mutaciones solo admin
	books := api.Group("/books")
	books.Get("/", authRequired, bookHandler.List)
	books.Post("/", authRequired, adminOnly, bookHandler.Create)
	books.Patch("/:id", authRequired, adminOnly, bookHandler.Update)
	books.Delete("/:id", authRequired, adminOnly, bookHandler.Delete)

	// Préstamos: flujo mediado por admin
	loans := api.Group("/loans", authRequired, adminOnly)
	loans.Get("/", loanHandler.ListAll)
	loans.Get("/report", loanHandler.Report)
	loans.Post("/borrow", loanHandler.Borrow)
	loans.Post("/return", loanHandler.Return)
	loans.Post("/lost", loanHandler.Lost)

	// Vista del lector sobre sus propios préstamos
	api.Get("/myloans", authRequired, readerOnly, loanHandler.MyLoans)
}
