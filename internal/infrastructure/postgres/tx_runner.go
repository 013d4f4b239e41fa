package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Biblioteca-api/internal/application/catalog"
	"github.com/jhoicas/Biblioteca-api/internal/application/lending"
	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

var _ catalog.TxRunner = (*TxRunner)(nil)
var _ lending.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	bookRepo := NewBookRepository(tx)
	loanRepo := NewLoanRepository(tx)

	if err := fn(bookRepo, loanRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
