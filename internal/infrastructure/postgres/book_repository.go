package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Biblioteca-api/internal/domain"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

var _ repository.BookRepository = (*BookRepo)(nil)

const bookColumns = `id, book_code, title, author, price, total_qty, available_qty, created_at`

// BookRepo implementación del puerto BookRepository sobre PostgreSQL (usable con pool o tx).
type BookRepo struct {
	q Querier
}

// NewBookRepository construye el adaptador de persistencia para libros.
func NewBookRepository(q Querier) *BookRepo {
	return &BookRepo{q: q}
}

// Create persiste un nuevo libro.
func (r *BookRepo) Create(book *entity.Book) error {
	query := `
		INSERT INTO books (id, book_code, title, author, price, total_qty, available_qty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		book.ID, book.BookCode, book.Title, book.Author, book.Price,
		book.TotalQty, book.AvailableQty, book.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// GetByID obtiene un libro por ID. (nil, nil) si no existe.
func (r *BookRepo) GetByID(id string) (*entity.Book, error) {
	return r.scanOne(`SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

// GetByCode obtiene un libro por su código legible.
func (r *BookRepo) GetByCode(bookCode string) (*entity.Book, error) {
	return r.scanOne(`SELECT `+bookColumns+` FROM books WHERE book_code = $1`, bookCode)
}

// GetForUpdate obtiene el libro y bloquea la fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción.
func (r *BookRepo) GetForUpdate(id string) (*entity.Book, error) {
	return r.scanOne(`SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookRepo) scanOne(query string, args ...any) (*entity.Book, error) {
	var b entity.Book
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&b.ID, &b.BookCode, &b.Title, &b.Author, &b.Price,
		&b.TotalQty, &b.AvailableQty, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

// List devuelve el catálogo completo.
func (r *BookRepo) List() ([]*entity.Book, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()
	var list []*entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.BookCode, &b.Title, &b.Author, &b.Price,
			&b.TotalQty, &b.AvailableQty, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Update actualiza todos los campos editables del libro.
func (r *BookRepo) Update(book *entity.Book) error {
	query := `
		UPDATE books SET title = $2, author = $3, price = $4, total_qty = $5, available_qty = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		book.ID, book.Title, book.Author, book.Price, book.TotalQty, book.AvailableQty,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// UpdateQuantities actualiza solo los contadores (transición de pérdida).
func (r *BookRepo) UpdateQuantities(id string, totalQty, availableQty int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE books SET total_qty = $2, available_qty = $3 WHERE id = $1`,
		id, totalQty, availableQty,
	)
	if err != nil {
		return fmt.Errorf("update book quantities: %w", err)
	}
	return nil
}

// Delete elimina un libro por ID.
func (r *BookRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// ReserveCopy decrementa available_qty en una sola sentencia condicional:
// dos borrow concurrentes sobre el último ejemplar se serializan en la DB y
// solo uno pasa el predicado available_qty > 0.
func (r *BookRepo) ReserveCopy(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE books SET available_qty = available_qty - 1 WHERE id = $1 AND available_qty > 0`, id)
	if err != nil {
		return fmt.Errorf("reserve copy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguir libro inexistente de libro agotado
		book, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}
		return domain.ErrOutOfStock
	}
	return nil
}

// ReleaseCopy incrementa available_qty con tope en total_qty.
func (r *BookRepo) ReleaseCopy(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE books SET available_qty = LEAST(available_qty + 1, total_qty) WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("release copy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
