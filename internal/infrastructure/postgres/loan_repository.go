package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

var _ repository.LoanRepository = (*LoanRepo)(nil)

const loanColumns = `id, reader_id, book_id, status, loan_date, due_date, return_date, fine_amount`

// LoanRepo implementación del puerto LoanRepository sobre PostgreSQL (usable con pool o tx).
type LoanRepo struct {
	q Querier
}

// NewLoanRepository construye el adaptador de persistencia para préstamos.
func NewLoanRepository(q Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

// Create persiste un nuevo préstamo (siempre nace en "borrowed").
func (r *LoanRepo) Create(loan *entity.Loan) error {
	query := `
		INSERT INTO loans (id, reader_id, book_id, status, loan_date, due_date, return_date, fine_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		loan.ID, loan.ReaderID, loan.BookID, loan.Status,
		loan.LoanDate, loan.DueDate, loan.ReturnDate, loan.FineAmount,
	)
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

// GetByID obtiene un préstamo por ID. (nil, nil) si no existe.
func (r *LoanRepo) GetByID(id string) (*entity.Loan, error) {
	return r.scanOne(`SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

// GetForUpdate obtiene el préstamo y bloquea la fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción; evita dobles devoluciones concurrentes.
func (r *LoanRepo) GetForUpdate(id string) (*entity.Loan, error) {
	return r.scanOne(`SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
}

func (r *LoanRepo) scanOne(query string, args ...any) (*entity.Loan, error) {
	var l entity.Loan
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&l.ID, &l.ReaderID, &l.BookID, &l.Status,
		&l.LoanDate, &l.DueDate, &l.ReturnDate, &l.FineAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return &l, nil
}

// Update persiste la transición de estado del préstamo.
func (r *LoanRepo) Update(loan *entity.Loan) error {
	query := `
		UPDATE loans SET status = $2, return_date = $3, fine_amount = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		loan.ID, loan.Status, loan.ReturnDate, loan.FineAmount,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	return nil
}

// ListAll devuelve todos los préstamos con lector y libro resueltos (tabla del admin).
// LEFT JOIN: un libro ya borrado del catálogo no esconde su historial de préstamos.
func (r *LoanRepo) ListAll() ([]*entity.LoanDetail, error) {
	query := `
		SELECT l.id, l.reader_id, l.book_id, l.status, l.loan_date, l.due_date, l.return_date, l.fine_amount,
		       COALESCE(u.full_name, ''), COALESCE(u.phone, ''), COALESCE(u.email, ''),
		       COALESCE(b.book_code, ''), COALESCE(b.title, ''), COALESCE(b.author, '')
		FROM loans l
		LEFT JOIN users u ON u.id = l.reader_id
		LEFT JOIN books b ON b.id = l.book_id
		ORDER BY l.loan_date DESC, l.id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()
	var list []*entity.LoanDetail
	for rows.Next() {
		var d entity.LoanDetail
		if err := rows.Scan(
			&d.ID, &d.ReaderID, &d.BookID, &d.Status, &d.LoanDate, &d.DueDate, &d.ReturnDate, &d.FineAmount,
			&d.ReaderName, &d.ReaderPhone, &d.ReaderEmail,
			&d.BookCode, &d.BookTitle, &d.BookAuthor,
		); err != nil {
			return nil, fmt.Errorf("scan loan detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListByReader devuelve los préstamos de un lector.
func (r *LoanRepo) ListByReader(readerID string) ([]*entity.Loan, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+loanColumns+` FROM loans WHERE reader_id = $1 ORDER BY loan_date DESC, id`, readerID)
	if err != nil {
		return nil, fmt.Errorf("list loans by reader: %w", err)
	}
	defer rows.Close()
	var list []*entity.Loan
	for rows.Next() {
		var l entity.Loan
		if err := rows.Scan(&l.ID, &l.ReaderID, &l.BookID, &l.Status,
			&l.LoanDate, &l.DueDate, &l.ReturnDate, &l.FineAmount); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ExistsBorrowedByBook indica si el libro tiene algún préstamo activo.
func (r *LoanRepo) ExistsBorrowedByBook(bookID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM loans WHERE book_id = $1 AND status = $2)`,
		bookID, entity.LoanStatusBorrowed).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists borrowed by book: %w", err)
	}
	return exists, nil
}

// CountBorrowedByBook cuenta los préstamos activos de un libro.
func (r *LoanRepo) CountBorrowedByBook(bookID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM loans WHERE book_id = $1 AND status = $2`,
		bookID, entity.LoanStatusBorrowed).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count borrowed by book: %w", err)
	}
	return n, nil
}
