package handler

import (
	"context"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"github.com/Eursukkul/hotel-pms/internal/service"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn func(ctx context.Context, in service.BookingInput) (*service.BookingResult, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, in service.BookingInput) (*service.BookingResult, error) {
	return m.createFn(ctx, in)
}

// --- Mock ReservationService ---

type mockReservationService struct {
	getFn          func(ctx context.Context, id uint) (*models.Reservation, error)
	listFn         func(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error)
	updateFn       func(ctx context.Context, id uint, upd service.ReservationUpdate) (*models.Reservation, error)
	updateStatusFn func(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error)
	deleteFn       func(ctx context.Context, id uint) error
	availableFn    func(ctx context.Context, roomID uint, in, out time.Time, excludeID *uint) (bool, error)
	addItemFn      func(ctx context.Context, reservationID uint, item *models.InvoiceItem) error
	listItemsFn    func(ctx context.Context, reservationID uint) ([]models.InvoiceItem, error)
}

func (m *mockReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	return m.getFn(ctx, id)
}
func (m *mockReservationService) List(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error) {
	return m.listFn(ctx, f)
}
func (m *mockReservationService) Update(ctx context.Context, id uint, upd service.ReservationUpdate) (*models.Reservation, error) {
	return m.updateFn(ctx, id, upd)
}
func (m *mockReservationService) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	return m.updateStatusFn(ctx, id, status)
}
func (m *mockReservationService) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockReservationService) CheckAvailability(ctx context.Context, roomID uint, in, out time.Time, excludeID *uint) (bool, error) {
	return m.availableFn(ctx, roomID, in, out, excludeID)
}
func (m *mockReservationService) AddItem(ctx context.Context, reservationID uint, item *models.InvoiceItem) error {
	return m.addItemFn(ctx, reservationID, item)
}
func (m *mockReservationService) ListItems(ctx context.Context, reservationID uint) ([]models.InvoiceItem, error) {
	return m.listItemsFn(ctx, reservationID)
}

// --- Mock PaymentService ---

type mockPaymentService struct {
	createFn func(ctx context.Context, p *models.Payment) error
	getFn    func(ctx context.Context, id uint) (*models.Payment, error)
	listFn   func(ctx context.Context, reservationID *uint) ([]models.Payment, error)
	updateFn func(ctx context.Context, id uint, p *models.Payment) (*models.Payment, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockPaymentService) Create(ctx context.Context, p *models.Payment) error {
	return m.createFn(ctx, p)
}
func (m *mockPaymentService) Get(ctx context.Context, id uint) (*models.Payment, error) {
	return m.getFn(ctx, id)
}
func (m *mockPaymentService) List(ctx context.Context, reservationID *uint) ([]models.Payment, error) {
	return m.listFn(ctx, reservationID)
}
func (m *mockPaymentService) Update(ctx context.Context, id uint, p *models.Payment) (*models.Payment, error) {
	return m.updateFn(ctx, id, p)
}
func (m *mockPaymentService) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

// --- Mock FinanceService ---

type mockFinanceService struct {
	dashboardFn func(ctx context.Context, year, month int) (*service.Dashboard, error)
	budgetFn    func(ctx context.Context, year, month int, amount float64) (*models.MonthlyBudget, error)
	targetFn    func(ctx context.Context, year, month int, amount float64) (*models.RevenueTarget, error)
	revenueFn   func(ctx context.Context, year int) ([]service.MonthlyRevenue, error)
}

func (m *mockFinanceService) Dashboard(ctx context.Context, year, month int) (*service.Dashboard, error) {
	return m.dashboardFn(ctx, year, month)
}
func (m *mockFinanceService) SetBudget(ctx context.Context, year, month int, amount float64) (*models.MonthlyBudget, error) {
	return m.budgetFn(ctx, year, month, amount)
}
func (m *mockFinanceService) SetTarget(ctx context.Context, year, month int, amount float64) (*models.RevenueTarget, error) {
	return m.targetFn(ctx, year, month, amount)
}
func (m *mockFinanceService) RevenueByMonth(ctx context.Context, year int) ([]service.MonthlyRevenue, error) {
	return m.revenueFn(ctx, year)
}

// --- Mock MemberService ---

type mockMemberService struct {
	listFn func(ctx context.Context) ([]models.LoyaltyMember, error)
	getFn  func(ctx context.Context, code string) (*models.LoyaltyMember, error)
}

func (m *mockMemberService) List(ctx context.Context) ([]models.LoyaltyMember, error) {
	return m.listFn(ctx)
}
func (m *mockMemberService) Get(ctx context.Context, code string) (*models.LoyaltyMember, error) {
	return m.getFn(ctx, code)
}

// --- Mock CatalogService ---

type mockCatalog[T any] struct {
	createFn func(ctx context.Context, e *T) error
	getFn    func(ctx context.Context, id uint) (*T, error)
	listFn   func(ctx context.Context, q repository.ListQuery) ([]T, error)
	updateFn func(ctx context.Context, id uint, e *T) (*T, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockCatalog[T]) Create(ctx context.Context, e *T) error { return m.createFn(ctx, e) }
func (m *mockCatalog[T]) Get(ctx context.Context, id uint) (*T, error) {
	return m.getFn(ctx, id)
}
func (m *mockCatalog[T]) List(ctx context.Context, q repository.ListQuery) ([]T, error) {
	return m.listFn(ctx, q)
}
func (m *mockCatalog[T]) Update(ctx context.Context, id uint, e *T) (*T, error) {
	return m.updateFn(ctx, id, e)
}
func (m *mockCatalog[T]) Delete(ctx context.Context, id uint) error { return m.deleteFn(ctx, id) }
