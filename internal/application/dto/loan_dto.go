package dto

import "github.com/shopspring/decimal"

// BorrowRequest entrada para POST /api/loans/borrow (flujo mediado por admin).
// DueDate en formato 2006-01-02; vacío = hoy + 7 días.
type BorrowRequest struct {
	ReaderID string `json:"readerId" validate:"required"`
	BookID   string `json:"bookId" validate:"required"`
	DueDate  string `json:"dueDate"`
}

// ReturnRequest entrada para POST /api/loans/return.
type ReturnRequest struct {
	LoanID string `json:"loanId" validate:"required"`
}

// LostRequest entrada para POST /api/loans/lost.
// FineAmount nil = multa por defecto (precio del libro).
type LostRequest struct {
	LoanID     string           `json:"loanId" validate:"required"`
	FineAmount *decimal.Decimal `json:"fineAmount"`
}

// LoanResponse salida de un préstamo.
type LoanResponse struct {
	ID         string          `json:"id"`
	ReaderID   string          `json:"readerId"`
	BookID     string          `json:"bookId"`
	Status     string          `json:"status"`
	LoanDate   string          `json:"loanDate"`
	DueDate    string          `json:"dueDate"`
	ReturnDate string          `json:"returnDate"` // vacío mientras el préstamo está abierto
	FineAmount decimal.Decimal `json:"fineAmount"`
}

// LoanDetailResponse préstamo con datos del lector y del libro (tabla del admin).
type LoanDetailResponse struct {
	LoanResponse
	ReaderName  string `json:"readerName"`
	ReaderPhone string `json:"readerPhone"`
	ReaderEmail string `json:"readerEmail"`
	BookCode    string `json:"bookCode"`
	BookTitle   string `json:"bookTitle"`
	BookAuthor  string `json:"bookAuthor"`
}

// MyLoanResponse préstamo visto por el propio lector, con el libro embebido.
type MyLoanResponse struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	LoanDate   string          `json:"loanDate"`
	DueDate    string          `json:"dueDate"`
	ReturnDate string          `json:"returnDate"`
	FineAmount decimal.Decimal `json:"fineAmount"`
	Book       *BookResponse   `json:"book"`
}
