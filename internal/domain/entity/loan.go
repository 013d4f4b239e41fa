package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del préstamo. "borrowed" es el único estado de entrada;
// "returned" y "lost" son terminales, no hay transiciones que salgan de ellos.
const (
	LoanStatusBorrowed = "borrowed"
	LoanStatusReturned = "returned"
	LoanStatusLost     = "lost"
)

// Loan registra el préstamo de un ejemplar a un lector.
type Loan struct {
	ID         string
	ReaderID   string
	BookID     string
	Status     string // borrowed, returned, lost
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time // nil hasta que el préstamo cierra
	FineAmount decimal.Decimal
}

// IsActive indica si el préstamo sigue abierto (única condición bajo la que admite transición).
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusBorrowed
}

// LoanDetail es la proyección del préstamo con datos del lector y del libro,
// tal como la consume la tabla del panel de administración.
type LoanDetail struct {
	Loan
	ReaderName  string
	ReaderPhone string
	ReaderEmail string
	BookCode    string
	BookTitle   string
	BookAuthor  string
}
