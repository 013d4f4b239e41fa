package lending

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

// ReportUseCase genera el informe PDF de préstamos (descarga del panel admin).
type ReportUseCase struct {
	loanRepo  repository.LoanRepository
	generator LoanReportGenerator
}

// NewReportUseCase construye el caso de uso inyectando sus dependencias.
func NewReportUseCase(loanRepo repository.LoanRepository, generator LoanReportGenerator) *ReportUseCase {
	return &ReportUseCase{loanRepo: loanRepo, generator: generator}
}

// DownloadLoanReport carga todos los préstamos y genera el PDF.
// Retorna (pdfBytes, filename, nil) si todo sale bien.
func (uc *ReportUseCase) DownloadLoanReport(ctx context.Context) ([]byte, string, error) {
	details, err := uc.loanRepo.ListAll()
	if err != nil {
		return nil, "", fmt.Errorf("report: listar préstamos: %w", err)
	}
	pdfBytes, err := uc.generator.GenerateLoanReport(ctx, details)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("prestamos-%s.pdf", time.Now().Format("20060102"))
	return pdfBytes, filename, nil
}
