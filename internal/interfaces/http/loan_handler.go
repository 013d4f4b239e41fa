package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Biblioteca-api/internal/application/dto"
	"github.com/jhoicas/Biblioteca-api/internal/application/lending"
)

// LoanHandler maneja el ciclo de vida de los préstamos.
type LoanHandler struct {
	uc       *lending.LendingUseCase
	reportUC *lending.ReportUseCase
}

// NewLoanHandler construye el handler de préstamos.
func NewLoanHandler(uc *lending.LendingUseCase, reportUC *lending.ReportUseCase) *LoanHandler {
	return &LoanHandler{uc: uc, reportUC: reportUC}
}

// Borrow godoc
// @Summary      Prestar un ejemplar (solo admin)
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BorrowRequest  true  "readerId, bookId, dueDate opcional"
// @Success      201   {object}  dto.LoanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "OUT_OF_STOCK"
// @Router       /api/loans/borrow [post]
func (h *LoanHandler) Borrow(c *fiber.Ctx) error {
	var in dto.BorrowRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	loan, err := h.uc.Borrow(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(loan)
}

// Return godoc
// @Summary      Devolver un préstamo (solo admin)
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ReturnRequest  true  "loanId"
// @Success      200   {object}  dto.LoanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "el préstamo ya está cerrado"
// @Router       /api/loans/return [post]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	loan, err := h.uc.Return(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(loan)
}

// Lost godoc
// @Summary      Marcar préstamo como perdido (solo admin)
// @Description  El ejemplar sale de circulación (totalQty baja en uno); la multa es el override o el precio del libro.
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.LostRequest  true  "loanId, fineAmount opcional"
// @Success      200   {object}  dto.LoanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/loans/lost [post]
func (h *LoanHandler) Lost(c *fiber.Ctx) error {
	var in dto.LostRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	loan, err := h.uc.MarkLost(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(loan)
}

// ListAll godoc
// @Summary      Listar todos los préstamos (solo admin)
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.LoanDetailResponse
// @Router       /api/loans [get]
func (h *LoanHandler) ListAll(c *fiber.Ctx) error {
	loans, err := h.uc.ListAll()
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(loans)
}

// MyLoans godoc
// @Summary      Préstamos del lector autenticado
// @Description  Siempre filtrado al readerId del token; un lector no ve préstamos ajenos.
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.MyLoanResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/myloans [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	loans, err := h.uc.ListForReader(GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(loans)
}

// Report godoc
// @Summary      Descargar informe PDF de préstamos (solo admin)
// @Tags         loans
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/loans/report [get]
func (h *LoanHandler) Report(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.reportUC.DownloadLoanReport(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
