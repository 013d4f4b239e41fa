package repository

import "github.com/jhoicas/Biblioteca-api/internal/domain/entity"

// BookRepository define el puerto de persistencia para Book (DIP).
//
// ReserveCopy y ReleaseCopy son operaciones atómicas de una sola sentencia
// sobre available_qty; GetForUpdate bloquea la fila cuando hay que mover
// ambos contadores en la misma transacción.
type BookRepository interface {
	Create(book *entity.Book) error
	GetByID(id string) (*entity.Book, error)
	GetByCode(bookCode string) (*entity.Book, error)
	GetForUpdate(id string) (*entity.Book, error)
	List() ([]*entity.Book, error)
	Update(book *entity.Book) error
	UpdateQuantities(id string, totalQty, availableQty int) error
	Delete(id string) error
	// ReserveCopy decrementa available_qty solo si hay ejemplares; si no, ErrOutOfStock.
	ReserveCopy(id string) error
	// ReleaseCopy incrementa available_qty con tope en total_qty.
	ReleaseCopy(id string) error
}
