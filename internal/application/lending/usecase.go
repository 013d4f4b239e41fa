package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Biblioteca-api/internal/application/catalog"
	"github.com/jhoicas/Biblioteca-api/internal/application/dto"
	"github.com/jhoicas/Biblioteca-api/internal/domain"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/Biblioteca-api/internal/domain/fine"
	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

// DefaultLoanDays plazo de devolución cuando el admin no indica dueDate.
const DefaultLoanDays = 7

// LendingUseCase orquesta el ciclo de vida del préstamo:
// borrowed (entrada única) -> returned | lost (terminales).
//
// Todas las transiciones corren dentro de una transacción: la fila del
// préstamo se bloquea antes de decidir, y los contadores del libro se mueven
// en la misma unidad atómica. Dos borrow concurrentes sobre el último
// ejemplar se serializan en la DB y exactamente uno recibe ErrOutOfStock.
type LendingUseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
	bookRepo repository.BookRepository
	loanRepo repository.LoanRepository
}

// NewLendingUseCase construye el caso de uso de préstamos.
func NewLendingUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
) *LendingUseCase {
	return &LendingUseCase{
		txRunner: txRunner,
		userRepo: userRepo,
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// Borrow presta un ejemplar a un lector (flujo mediado por admin).
//
// Reserva el ejemplar con un decremento condicional atómico; si no queda
// ninguno, la operación completa falla con ErrOutOfStock y no se crea Loan.
func (uc *LendingUseCase) Borrow(ctx context.Context, in dto.BorrowRequest) (*dto.LoanResponse, error) {
	if in.ReaderID == "" || in.BookID == "" {
		return nil, domain.ErrInvalidInput
	}

	reader, err := uc.userRepo.GetByID(in.ReaderID)
	if err != nil {
		return nil, err
	}
	if reader == nil || reader.Role != entity.RoleReader {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, DefaultLoanDays)
	if in.DueDate != "" {
		d, err := time.Parse(dto.DateLayout, in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		dueDate = d
	}

	loan := &entity.Loan{
		ID:         uuid.New().String(),
		ReaderID:   in.ReaderID,
		BookID:     in.BookID,
		Status:     entity.LoanStatusBorrowed,
		LoanDate:   now,
		DueDate:    dueDate,
		FineAmount: decimal.Zero,
	}

	err = uc.txRunner.Run(ctx, func(books repository.BookRepository, loans repository.LoanRepository) error {
		if err := books.ReserveCopy(in.BookID); err != nil {
			return err
		}
		return loans.Create(loan)
	})
	if err != nil {
		return nil, err
	}
	return toLoanResponse(loan), nil
}

// Return cierra un préstamo activo y devuelve el ejemplar al inventario.
// ErrNotFound si el préstamo no existe; ErrConflict si ya está cerrado.
func (uc *LendingUseCase) Return(ctx context.Context, in dto.ReturnRequest) (*dto.LoanResponse, error) {
	if in.LoanID == "" {
		return nil, domain.ErrInvalidInput
	}

	var closed *entity.Loan
	err := uc.txRunner.Run(ctx, func(books repository.BookRepository, loans repository.LoanRepository) error {
		loan, err := loans.GetForUpdate(in.LoanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if !loan.IsActive() {
			return domain.ErrConflict
		}

		now := time.Now()
		loan.Status = entity.LoanStatusReturned
		loan.ReturnDate = &now
		if err := loans.Update(loan); err != nil {
			return err
		}
		if err := books.ReleaseCopy(loan.BookID); err != nil {
			return err
		}
		closed = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toLoanResponse(closed), nil
}

// MarkLost cierra un préstamo activo como pérdida.
//
// El ejemplar perdido sale de circulación: totalQty baja en uno y no se llama
// a ReleaseCopy (el ejemplar nunca vuelve a estar disponible). La multa es el
// override del admin o, en su defecto, el precio del libro.
func (uc *LendingUseCase) MarkLost(ctx context.Context, in dto.LostRequest) (*dto.LoanResponse, error) {
	if in.LoanID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FineAmount != nil && in.FineAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var closed *entity.Loan
	err := uc.txRunner.Run(ctx, func(books repository.BookRepository, loans repository.LoanRepository) error {
		loan, err := loans.GetForUpdate(in.LoanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if !loan.IsActive() {
			return domain.ErrConflict
		}

		book, err := books.GetForUpdate(loan.BookID)
		if err != nil {
			return err
		}

		now := time.Now()
		loan.Status = entity.LoanStatusLost
		loan.ReturnDate = &now
		loan.FineAmount = fine.Resolve(book, in.FineAmount)
		if err := loans.Update(loan); err != nil {
			return err
		}

		if book != nil && book.TotalQty > 0 {
			book.TotalQty--
			if book.AvailableQty > book.TotalQty {
				book.AvailableQty = book.TotalQty
			}
			if err := books.UpdateQuantities(book.ID, book.TotalQty, book.AvailableQty); err != nil {
				return err
			}
		}
		closed = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toLoanResponse(closed), nil
}

// ListAll devuelve todos los préstamos con datos del lector y del libro (solo admin).
func (uc *LendingUseCase) ListAll() ([]dto.LoanDetailResponse, error) {
	details, err := uc.loanRepo.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LoanDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, dto.LoanDetailResponse{
			LoanResponse: *toLoanResponse(&d.Loan),
			ReaderName:   d.ReaderName,
			ReaderPhone:  d.ReaderPhone,
			ReaderEmail:  d.ReaderEmail,
			BookCode:     d.BookCode,
			BookTitle:    d.BookTitle,
			BookAuthor:   d.BookAuthor,
		})
	}
	return out, nil
}

// ListForReader devuelve los préstamos del propio lector con el libro embebido.
// El readerID sale siempre del token, nunca del request: un lector no puede
// consultar los préstamos de otro.
func (uc *LendingUseCase) ListForReader(readerID string) ([]dto.MyLoanResponse, error) {
	loans, err := uc.loanRepo.ListByReader(readerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MyLoanResponse, 0, len(loans))
	for _, l := range loans {
		book, err := uc.bookRepo.GetByID(l.BookID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.MyLoanResponse{
			ID:         l.ID,
			Status:     l.Status,
			LoanDate:   dto.FormatDate(l.LoanDate),
			DueDate:    dto.FormatDate(l.DueDate),
			ReturnDate: dto.FormatDatePtr(l.ReturnDate),
			FineAmount: l.FineAmount,
			Book:       catalog.ToBookResponse(book),
		})
	}
	return out, nil
}

func toLoanResponse(l *entity.Loan) *dto.LoanResponse {
	if l == nil {
		return nil
	}
	return &dto.LoanResponse{
		ID:         l.ID,
		ReaderID:   l.ReaderID,
		BookID:     l.BookID,
		Status:     l.Status,
		LoanDate:   dto.FormatDate(l.LoanDate),
		DueDate:    dto.FormatDate(l.DueDate),
		ReturnDate: dto.FormatDatePtr(l.ReturnDate),
		FineAmount: l.FineAmount,
	}
}
