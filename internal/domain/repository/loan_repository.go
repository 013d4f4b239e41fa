package repository

import "github.com/jhoicas/Biblioteca-api/internal/domain/entity"

// LoanRepository define el puerto de persistencia para Loan (DIP).
// Los préstamos nunca se borran: solo se crean en "borrowed" y se cierran
// vía Update a "returned" o "lost".
type LoanRepository interface {
	Create(loan *entity.Loan) error
	GetByID(id string) (*entity.Loan, error)
	// GetForUpdate bloquea la fila del préstamo para aplicar la transición sin carreras.
	GetForUpdate(id string) (*entity.Loan, error)
	Update(loan *entity.Loan) error
	ListAll() ([]*entity.LoanDetail, error)
	ListByReader(readerID string) ([]*entity.Loan, error)
	// ExistsBorrowedByBook indica si el libro tiene algún préstamo activo.
	ExistsBorrowedByBook(bookID string) (bool, error)
	// CountBorrowedByBook cuenta los préstamos activos de un libro.
	CountBorrowedByBook(bookID string) (int, error)
}
