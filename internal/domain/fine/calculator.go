// Package fine centraliza la política de multas por pérdida de ejemplares.
// La multa por defecto es el precio de reposición del libro; el admin puede
// sobreescribirla al marcar la pérdida, pero el valor por defecto sale siempre
// de aquí para que ambos caminos no diverjan.
package fine

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
)

// Default devuelve la multa por defecto para la pérdida de un ejemplar del libro.
func Default(book *entity.Book) decimal.Decimal {
	if book == nil {
		return decimal.Zero
	}
	return book.Price
}

// Resolve devuelve la multa efectiva: el override del admin si viene, si no la por defecto.
func Resolve(book *entity.Book, override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return Default(book)
}
