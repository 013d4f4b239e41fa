package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Biblioteca-api/internal/application/dto"
	"github.com/jhoicas/Biblioteca-api/internal/domain"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

// CatalogUseCase casos de uso del catálogo de libros (CRUD de admin + listado).
// Las mutaciones que tocan contadores corren en transacción con la fila del
// libro bloqueada, para que el invariante 0 <= availableQty <= totalQty
// sobreviva a peticiones concurrentes.
type CatalogUseCase struct {
	txRunner TxRunner
	bookRepo repository.BookRepository
}

// NewCatalogUseCase construye el caso de uso del catálogo.
func NewCatalogUseCase(txRunner TxRunner, bookRepo repository.BookRepository) *CatalogUseCase {
	return &CatalogUseCase{txRunner: txRunner, bookRepo: bookRepo}
}

// Create da de alta un libro; availableQty arranca igual a totalQty.
// ErrDuplicate si el bookCode ya existe.
func (uc *CatalogUseCase) Create(in dto.CreateBookRequest) (*dto.BookResponse, error) {
	code := strings.TrimSpace(in.BookCode)
	if code == "" || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TotalQty < 0 || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.bookRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	book := &entity.Book{
		ID:           uuid.New().String(),
		BookCode:     code,
		Title:        in.Title,
		Author:       in.Author,
		Price:        in.Price,
		TotalQty:     in.TotalQty,
		AvailableQty: in.TotalQty,
		CreatedAt:    time.Now(),
	}
	if err := uc.bookRepo.Create(book); err != nil {
		return nil, err
	}
	return ToBookResponse(book), nil
}

// Update aplica cambios parciales. Si totalQty cambia, el delta se traslada a
// availableQty; reducir el total por debajo de los ejemplares prestados
// devuelve ErrConflict (nunca se recorta silenciosamente).
func (uc *CatalogUseCase) Update(ctx context.Context, id string, in dto.UpdateBookRequest) (*dto.BookResponse, error) {
	if in.Price != nil && in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.TotalQty != nil && *in.TotalQty < 0 {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Book
	err := uc.txRunner.Run(ctx, func(books repository.BookRepository, _ repository.LoanRepository) error {
		book, err := books.GetForUpdate(id)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}

		if in.TotalQty != nil {
			delta := *in.TotalQty - book.TotalQty
			newAvail := book.AvailableQty + delta
			if newAvail < 0 {
				// delta negativo mayor que los ejemplares libres: hay préstamos activos de por medio
				return domain.ErrConflict
			}
			book.TotalQty = *in.TotalQty
			book.AvailableQty = newAvail
		}
		if in.Title != nil {
			book.Title = *in.Title
		}
		if in.Author != nil {
			book.Author = *in.Author
		}
		if in.Price != nil {
			book.Price = *in.Price
		}

		if err := books.Update(book); err != nil {
			return err
		}
		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToBookResponse(updated), nil
}

// Delete elimina un libro; ErrConflict si tiene préstamos activos.
func (uc *CatalogUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(books repository.BookRepository, loans repository.LoanRepository) error {
		book, err := books.GetForUpdate(id)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}
		active, err := loans.ExistsBorrowedByBook(id)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrConflict
		}
		return books.Delete(id)
	})
}

// List devuelve el catálogo completo con contadores (lectura de ambos roles).
func (uc *CatalogUseCase) List() ([]dto.BookResponse, error) {
	books, err := uc.bookRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, *ToBookResponse(b))
	}
	return out, nil
}

// ToBookResponse convierte la entidad a su DTO público.
func ToBookResponse(b *entity.Book) *dto.BookResponse {
	if b == nil {
		return nil
	}
	return &dto.BookResponse{
		ID:           b.ID,
		BookCode:     b.BookCode,
		Title:        b.Title,
		Author:       b.Author,
		Price:        b.Price,
		TotalQty:     b.TotalQty,
		AvailableQty: b.AvailableQty,
		CreatedAt:    dto.FormatDate(b.CreatedAt),
	}
}
