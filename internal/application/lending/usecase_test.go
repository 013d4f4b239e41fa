package lending_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Biblioteca-api/internal/application/dto"
	"github.com/jhoicas/Biblioteca-api/internal/application/lending"
	"github.com/jhoicas/Biblioteca-api/internal/domain"
	"github.com/jhoicas/Biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/Biblioteca-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore emula la DB; los repos no sincronizan nada y fakeTxRunner toma el
// lock durante todo el callback, igual que una transacción serializa el acceso
// a las filas bloqueadas.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu    sync.Mutex
	users map[string]*entity.User
	books map[string]*entity.Book
	loans map[string]*entity.Loan
	order []string // ids de préstamos en orden de inserción
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*entity.User{},
		books: map[string]*entity.Book{},
		loans: map[string]*entity.Loan{},
	}
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(role string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		if role == "" || u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountByRole(role string) (int, error) {
	n := 0
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeBookRepo struct{ s *memStore }

func (r *fakeBookRepo) Create(b *entity.Book) error {
	cp := *b
	r.s.books[b.ID] = &cp
	return nil
}

func (r *fakeBookRepo) GetByID(id string) (*entity.Book, error) {
	b, ok := r.s.books[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookRepo) GetByCode(code string) (*entity.Book, error) {
	for _, b := range r.s.books {
		if b.BookCode == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) GetForUpdate(id string) (*entity.Book, error) { return r.GetByID(id) }

func (r *fakeBookRepo) List() ([]*entity.Book, error) {
	var out []*entity.Book
	for _, b := range r.s.books {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBookRepo) Update(b *entity.Book) error {
	cp := *b
	r.s.books[b.ID] = &cp
	return nil
}

func (r *fakeBookRepo) UpdateQuantities(id string, totalQty, availableQty int) error {
	b, ok := r.s.books[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.TotalQty = totalQty
	b.AvailableQty = availableQty
	return nil
}

func (r *fakeBookRepo) Delete(id string) error {
	delete(r.s.books, id)
	return nil
}

func (r *fakeBookRepo) ReserveCopy(id string) error {
	b, ok := r.s.books[id]
	if !ok {
		return domain.ErrNotFound
	}
	if b.AvailableQty <= 0 {
		return domain.ErrOutOfStock
	}
	b.AvailableQty--
	return nil
}

func (r *fakeBookRepo) ReleaseCopy(id string) error {
	b, ok := r.s.books[id]
	if !ok {
		return domain.ErrNotFound
	}
	if b.AvailableQty < b.TotalQty {
		b.AvailableQty++
	}
	return nil
}

type fakeLoanRepo struct{ s *memStore }

func (r *fakeLoanRepo) Create(l *entity.Loan) error {
	cp := *l
	r.s.loans[l.ID] = &cp
	r.s.order = append(r.s.order, l.ID)
	return nil
}

func (r *fakeLoanRepo) GetByID(id string) (*entity.Loan, error) {
	l, ok := r.s.loans[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLoanRepo) GetForUpdate(id string) (*entity.Loan, error) { return r.GetByID(id) }

func (r *fakeLoanRepo) Update(l *entity.Loan) error {
	cp := *l
	r.s.loans[l.ID] = &cp
	return nil
}

func (r *fakeLoanRepo) ListAll() ([]*entity.LoanDetail, error) {
	var out []*entity.LoanDetail
	for _, id := range r.s.order {
		l := r.s.loans[id]
		d := &entity.LoanDetail{Loan: *l}
		if u, ok := r.s.users[l.ReaderID]; ok {
			d.ReaderName, d.ReaderPhone, d.ReaderEmail = u.FullName, u.Phone, u.Email
		}
		if b, ok := r.s.books[l.BookID]; ok {
			d.BookCode, d.BookTitle, d.BookAuthor = b.BookCode, b.Title, b.Author
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeLoanRepo) ListByReader(readerID string) ([]*entity.Loan, error) {
	var out []*entity.Loan
	for _, id := range r.s.order {
		if l := r.s.loans[id]; l.ReaderID == readerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ExistsBorrowedByBook(bookID string) (bool, error) {
	n, _ := r.CountBorrowedByBook(bookID)
	return n > 0, nil
}

func (r *fakeLoanRepo) CountBorrowedByBook(bookID string) (int, error) {
	n := 0
	for _, l := range r.s.loans {
		if l.BookID == bookID && l.Status == entity.LoanStatusBorrowed {
			n++
		}
	}
	return n, nil
}

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.BookRepository, repository.LoanRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return fn(&fakeBookRepo{s: t.s}, &fakeLoanRepo{s: t.s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newFixture() (*lending.LendingUseCase, *memStore) {
	s := newMemStore()
	uc := lending.NewLendingUseCase(&fakeTxRunner{s: s}, &fakeUserRepo{s: s}, &fakeBookRepo{s: s}, &fakeLoanRepo{s: s})
	return uc, s
}

func seedReader(s *memStore, id string) {
	s.users[id] = &entity.User{
		ID: id, FullName: "Lector " + id, Email: id + "@test.local",
		Phone: "300000", Role: entity.RoleReader, CreatedAt: time.Now(),
	}
}

func seedBook(s *memStore, id string, price float64, totalQty int) {
	s.books[id] = &entity.Book{
		ID: id, BookCode: "C-" + id, Title: "Título " + id, Author: "Autor",
		Price: decimal.NewFromFloat(price), TotalQty: totalQty, AvailableQty: totalQty,
		CreatedAt: time.Now(),
	}
}

// invariante de contadores: 0 <= availableQty <= totalQty y
// totalQty - availableQty == préstamos activos del libro.
func assertCounters(t *testing.T, s *memStore, bookID string) {
	t.Helper()
	b := s.books[bookID]
	require.NotNil(t, b)
	assert.GreaterOrEqual(t, b.AvailableQty, 0)
	assert.LessOrEqual(t, b.AvailableQty, b.TotalQty)
	active := 0
	for _, l := range s.loans {
		if l.BookID == bookID && l.Status == entity.LoanStatusBorrowed {
			active++
		}
	}
	assert.Equal(t, b.TotalQty-b.AvailableQty, active,
		"totalQty - availableQty debe igualar los préstamos activos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Escenario completo: 2 ejemplares, dos préstamos, tercero agotado,
// una devolución y una pérdida con multa por defecto.
func TestLending_EscenarioCompleto(t *testing.T) {
	uc, s := newFixture()
	ctx := context.Background()
	seedReader(s, "r1")
	seedBook(s, "b1", 25.50, 2)

	loan1, err := uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
	require.NoError(t, err)
	loan2, err := uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
	require.NoError(t, err)

	assert.Equal(t, 0, s.books["b1"].AvailableQty)
	assertCounters(t, s, "b1")

	// Tercer préstamo: agotado, y no debe quedar Loan creado
	_, err = uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Len(t, s.loans, 2, "un borrow fallido no debe crear préstamo")

	// Devolución del primero
	out, err := uc.Return(ctx, dto.ReturnRequest{LoanID: loan1.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.LoanStatusReturned, out.Status)
	assert.NotEmpty(t, out.ReturnDate)
	assert.Equal(t, 1, s.books["b1"].AvailableQty)
	assertCounters(t, s, "b1")

	// Pérdida del segundo sin override: multa = precio del libro,
	// totalQty baja a 1 y availableQty se queda en 1 (el ejemplar nunca se liberó)
	out, err = uc.MarkLost(ctx, dto.LostRequest{LoanID: loan2.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.LoanStatusLost, out.Status)
	assert.True(t, out.FineAmount.Equal(decimal.NewFromFloat(25.50)),
		"la multa por defecto debe ser el precio del libro")
	assert.Equal(t, 1, s.books["b1"].TotalQty)
	assert.Equal(t, 1, s.books["b1"].AvailableQty)
	assertCounters(t, s, "b1")
}

// N borrows concurrentes con un solo ejemplar: exactamente uno gana.
func TestLending_BorrowConcurrente_UnSoloGanador(t *testing.T) {
	uc, s := newFixture()
	ctx := context.Background()
	seedReader(s, "r1")
	seedBook(s, "b1", 10, 1)

	const n = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount, outOfStock := 0, 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				okCount++
			case errors.Is(err, domain.ErrOutOfStock):
				outOfStock++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okCount, "exactamente un borrow debe ganar el último ejemplar")
	assert.Equal(t, n-1, outOfStock)
	assert.Equal(t, 0, s.books["b1"].AvailableQty)
	assertCounters(t, s, "b1")
}

// returned y lost son terminales: cualquier transición posterior es conflicto.
func TestLending_TransicionesTerminales(t *testing.T) {
	uc, s := newFixture()
	ctx := context.Background()
	seedReader(s, "r1")
	seedBook(s, "b1", 10, 2)

	returned, err := uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
	require.NoError(t, err)
	lost, err := uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
	require.NoError(t, err)

	_, err = uc.Return(ctx, dto.ReturnRequest{LoanID: returned.ID})
	require.NoError(t, err)
	_, err = uc.MarkLost(ctx, dto.LostRequest{LoanID: lost.ID})
	require.NoError(t, err)

	availBefore := s.books["b1"].AvailableQty
	totalBefore := s.books["b1"].TotalQty

	_, err = uc.Return(ctx, dto.ReturnRequest{LoanID: returned.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.MarkLost(ctx, dto.LostRequest{LoanID: returned.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Return(ctx, dto.ReturnRequest{LoanID: lost.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Las transiciones rechazadas no deben mover contadores
	assert.Equal(t, availBefore, s.books["b1"].AvailableQty)
	assert.Equal(t, totalBefore, s.books["b1"].TotalQty)
}

func TestLending_MarkLost_ConOverrideDeMulta(t *testing.T) {
	uc, s := newFixture()
	ctx := context.Background()
	seedReader(s, "r1")
	seedBook(s, "b1", 99.99, 1)

	loan, err := uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
	require.NoError(t, err)

	override := decimal.NewFromFloat(5.00)
	out, err := uc.MarkLost(ctx, dto.LostRequest{LoanID: loan.ID, FineAmount: &override})
	require.NoError(t, err)
	assert.True(t, out.FineAmount.Equal(override), "el override del admin manda sobre la multa por defecto")
}

func TestLending_Borrow_LectorDesconocido(t *testing.T) {
	uc, s := newFixture()
	seedBook(s, "b1", 10, 1)

	_, err := uc.Borrow(context.Background(), dto.BorrowRequest{ReaderID: "nadie", BookID: "b1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, s.loans)
}

func TestLending_Borrow_AdminNoPuedeSerLector(t *testing.T) {
	uc, s := newFixture()
	s.users["a1"] = &entity.User{ID: "a1", Role: entity.RoleAdmin, Email: "a@test.local"}
	seedBook(s, "b1", 10, 1)

	_, err := uc.Borrow(context.Background(), dto.BorrowRequest{ReaderID: "a1", BookID: "b1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLending_Borrow_DueDatePorDefecto(t *testing.T) {
	uc, s := newFixture()
	seedReader(s, "r1")
	seedBook(s, "b1", 10, 1)

	loan, err := uc.Borrow(context.Background(), dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
	require.NoError(t, err)

	want := time.Now().AddDate(0, 0, lending.DefaultLoanDays).Format("2006-01-02")
	assert.Equal(t, want, loan.DueDate)
	assert.Equal(t, entity.LoanStatusBorrowed, loan.Status)
	assert.Empty(t, loan.ReturnDate)
	assert.True(t, loan.FineAmount.IsZero())
}

func TestLending_Return_PrestamoInexistente(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.Return(context.Background(), dto.ReturnRequest{LoanID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un lector solo ve sus propios préstamos, nunca los de otro.
func TestLending_ListForReader_SoloPropios(t *testing.T) {
	uc, s := newFixture()
	ctx := context.Background()
	seedReader(s, "ana")
	seedReader(s, "beto")
	seedBook(s, "b1", 10, 5)

	_, err := uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "ana", BookID: "b1"})
	require.NoError(t, err)
	_, err = uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "beto", BookID: "b1"})
	require.NoError(t, err)
	_, err = uc.Borrow(ctx, dto.BorrowRequest{ReaderID: "beto", BookID: "b1"})
	require.NoError(t, err)

	mine, err := uc.ListForReader("ana")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	require.NotNil(t, mine[0].Book)
	assert.Equal(t, "C-b1", mine[0].Book.BookCode)

	theirs, err := uc.ListForReader("beto")
	require.NoError(t, err)
	assert.Len(t, theirs, 2)
}

func TestLending_ListAll_IncluyeLectorYLibro(t *testing.T) {
	uc, s := newFixture()
	seedReader(s, "r1")
	seedBook(s, "b1", 10, 1)

	_, err := uc.Borrow(context.Background(), dto.BorrowRequest{ReaderID: "r1", BookID: "b1"})
	require.NoError(t, err)

	all, err := uc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Lector r1", all[0].ReaderName)
	assert.Equal(t, "C-b1", all[0].BookCode)
	assert.Equal(t, "Título b1", all[0].BookTitle)
}
