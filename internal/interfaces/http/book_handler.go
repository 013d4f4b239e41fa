package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Biblioteca-api/internal/application/catalog"
	"github.com/jhoicas/Biblioteca-api/internal/application/dto"
)

// BookHandler maneja el catálogo de libros.
type BookHandler struct {
	uc *catalog.CatalogUseCase
}

// NewBookHandler construye el handler del catálogo.
func NewBookHandler(uc *catalog.CatalogUseCase) *BookHandler {
	return &BookHandler{uc: uc}
}

// List godoc
// @Summary      Listar libros con contadores
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.BookResponse
// @Router       /api/books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	books, err := h.uc.List()
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(books)
}

// Create godoc
// @Summary      Crear libro (solo admin)
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateBookRequest  true  "bookCode, title, author, price, totalQty"
// @Success      201   {object}  dto.BookResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBookRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	book, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

// Update godoc
// @Summary      Actualizar libro (solo admin, parcial)
// @Description  Si totalQty cambia, el delta se aplica a availableQty; reducir por debajo de los ejemplares prestados es 409.
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "id del libro"
// @Param        body  body  dto.UpdateBookRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.BookResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/books/{id} [patch]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBookRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	book, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(book)
}

// Delete godoc
// @Summary      Eliminar libro (solo admin)
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "id del libro"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "tiene préstamos activos"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
