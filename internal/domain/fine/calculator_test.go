package fine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/Biblioteca-api/internal/domain/fine"
)

func TestDefault_EsElPrecioDelLibro(t *testing.T) {
	book := &entity.Book{Price: decimal.NewFromFloat(33.50)}
	assert.True(t, fine.Default(book).Equal(decimal.NewFromFloat(33.50)))
}

func TestDefault_LibroNil(t *testing.T) {
	assert.True(t, fine.Default(nil).IsZero())
}

func TestResolve_OverrideManda(t *testing.T) {
	book := &entity.Book{Price: decimal.NewFromFloat(33.50)}
	override := decimal.NewFromInt(5)
	assert.True(t, fine.Resolve(book, &override).Equal(override))
}

func TestResolve_SinOverrideUsaDefault(t *testing.T) {
	book := &entity.Book{Price: decimal.NewFromFloat(33.50)}
	assert.True(t, fine.Resolve(book, nil).Equal(book.Price))
}
