package lending

import (
	"context"

	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
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

// LoanReportGenerator genera el informe PDF de préstamos para el panel admin.
// Lo implementa pdf.MarotoReportGenerator.
type LoanReportGenerator interface {
	GenerateLoanReport(ctx context.Context, loans []*entity.LoanDetail) ([]byte, error)
}
