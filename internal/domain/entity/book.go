package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book representa un título del catálogo con sus contadores de ejemplares.
// Invariante: 0 <= AvailableQty <= TotalQty. TotalQty cuenta ejemplares en
// propiedad; AvailableQty los que no están prestados ahora mismo.
type Book struct {
	ID           string
	BookCode     string // código único legible (ej. "ISBN-123")
	Title        string
	Author       string
	Price        decimal.Decimal // precio de reposición; base de la multa por pérdida
	TotalQty     int
	AvailableQty int
	CreatedAt    time.Time
}
