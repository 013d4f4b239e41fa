package catalog

import (
	"context"

	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Lo implementa postgres.TxRunner; la interfaz local evita el import circular.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		bookRepo repository.BookRepository,
		loanRepo repository.LoanRepository,
	) error) error
}
