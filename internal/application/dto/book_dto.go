package dto

import "github.com/shopspring/decimal"

// CreateBookRequest entrada para crear un libro. availableQty arranca igual a totalQty.
type CreateBookRequest struct {
	BookCode string          `json:"bookCode" validate:"required,min=1,max=100"`
	Title    string          `json:"title" validate:"required,min=1,max=300"`
	Author   string          `json:"author" validate:"required,min=1,max=200"`
	Price    decimal.Decimal `json:"price"`
	TotalQty int             `json:"totalQty" validate:"min=0"`
}

// UpdateBookRequest entrada parcial para PATCH /api/books/:id.
// Si TotalQty cambia, el delta se aplica también a availableQty;
// reducir por debajo de los ejemplares prestados es un conflicto.
type UpdateBookRequest struct {
	Title    *string          `json:"title"`
	Author   *string          `json:"author"`
	Price    *decimal.Decimal `json:"price"`
	TotalQty *int             `json:"totalQty"`
}

// BookResponse salida de un libro con sus contadores.
type BookResponse struct {
	ID           string          `json:"id"`
	BookCode     string          `json:"bookCode"`
	Title        string          `json:"title"`
	Author       string          `json:"author"`
	Price        decimal.Decimal `json:"price"`
	TotalQty     int             `json:"totalQty"`
	AvailableQty int             `json:"availableQty"`
	CreatedAt    string          `json:"createdAt"`
}
