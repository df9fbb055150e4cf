package service

import (
	"context"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mock Transactor ---

type mockTx struct {
	calls   int
	inTxFn  func(ctx context.Context, parent *gorm.DB, fn func(tx *gorm.DB) error) error
	nesting []bool
}

func (m *mockTx) InTx(ctx context.Context, parent *gorm.DB, fn func(tx *gorm.DB) error) error {
	m.calls++
	m.nesting = append(m.nesting, parent != nil)
	if m.inTxFn != nil {
		return m.inTxFn(ctx, parent, fn)
	}
	if parent == nil {
		parent = &gorm.DB{}
	}
	return fn(parent)
}

// --- Mock RoomRepository ---

type mockRoomRepo struct {
	findByIDFn     func(ctx context.Context, id uint) (*models.Room, error)
	findForUpdate  func(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error)
	updateStatusFn func(ctx context.Context, tx *gorm.DB, id uint, status models.RoomStatus) error
	countFn        func(ctx context.Context) (map[models.RoomStatus]int64, error)
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockRoomRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	return m.findForUpdate(ctx, tx, id)
}
func (m *mockRoomRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RoomStatus) error {
	return m.updateStatusFn(ctx, tx, id, status)
}
func (m *mockRoomRepo) CountByStatus(ctx context.Context) (map[models.RoomStatus]int64, error) {
	return m.countFn(ctx)
}

// --- Mock GuestRepository ---

type mockGuestRepo struct {
	createFn func(ctx context.Context, tx *gorm.DB, g *models.Guest) error
}

func (m *mockGuestRepo) Create(ctx context.Context, tx *gorm.DB, g *models.Guest) error {
	return m.createFn(ctx, tx, g)
}

// --- Mock ReservationRepository ---

type mockReservationRepo struct {
	createFn        func(ctx context.Context, tx *gorm.DB, r *models.Reservation) error
	findByIDFn      func(ctx context.Context, id uint) (*models.Reservation, error)
	findForUpdateFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error)
	listFn          func(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error)
	updateFn        func(ctx context.Context, tx *gorm.DB, r *models.Reservation) error
	updateStatusFn  func(ctx context.Context, tx *gorm.DB, id uint, status models.ReservationStatus) error
	deleteFn        func(ctx context.Context, tx *gorm.DB, id uint) error
	hasOverlapFn    func(ctx context.Context, tx *gorm.DB, roomID uint, in, out time.Time, excludeID *uint) (bool, error)
	sumFn           func(ctx context.Context, tx *gorm.DB, code string) (float64, error)
	createItemFn    func(ctx context.Context, item *models.InvoiceItem) error
	listItemsFn     func(ctx context.Context, reservationID uint) ([]models.InvoiceItem, error)
	deleteItemsFn   func(ctx context.Context, tx *gorm.DB, reservationID uint) error
}

func (m *mockReservationRepo) Create(ctx context.Context, tx *gorm.DB, r *models.Reservation) error {
	return m.createFn(ctx, tx, r)
}
func (m *mockReservationRepo) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockReservationRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error) {
	return m.findForUpdateFn(ctx, tx, id)
}
func (m *mockReservationRepo) List(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error) {
	return m.listFn(ctx, f)
}
func (m *mockReservationRepo) Update(ctx context.Context, tx *gorm.DB, r *models.Reservation) error {
	return m.updateFn(ctx, tx, r)
}
func (m *mockReservationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ReservationStatus) error {
	return m.updateStatusFn(ctx, tx, id, status)
}
func (m *mockReservationRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return m.deleteFn(ctx, tx, id)
}
func (m *mockReservationRepo) HasOverlap(ctx context.Context, tx *gorm.DB, roomID uint, in, out time.Time, excludeID *uint) (bool, error) {
	return m.hasOverlapFn(ctx, tx, roomID, in, out, excludeID)
}
func (m *mockReservationRepo) SumTotalByMemberCode(ctx context.Context, tx *gorm.DB, code string) (float64, error) {
	return m.sumFn(ctx, tx, code)
}
func (m *mockReservationRepo) CreateItem(ctx context.Context, item *models.InvoiceItem) error {
	return m.createItemFn(ctx, item)
}
func (m *mockReservationRepo) ListItems(ctx context.Context, reservationID uint) ([]models.InvoiceItem, error) {
	return m.listItemsFn(ctx, reservationID)
}
func (m *mockReservationRepo) DeleteItems(ctx context.Context, tx *gorm.DB, reservationID uint) error {
	return m.deleteItemsFn(ctx, tx, reservationID)
}

// --- Mock PaymentRepository ---

type mockPaymentRepo struct {
	createFn     func(ctx context.Context, tx *gorm.DB, p *models.Payment) error
	findByIDFn   func(ctx context.Context, id uint) (*models.Payment, error)
	listFn       func(ctx context.Context, reservationID *uint) ([]models.Payment, error)
	updateFn     func(ctx context.Context, p *models.Payment) error
	deleteFn     func(ctx context.Context, id uint) error
	deleteByResv func(ctx context.Context, tx *gorm.DB, reservationID uint) (int64, error)
}

func (m *mockPaymentRepo) Create(ctx context.Context, tx *gorm.DB, p *models.Payment) error {
	return m.createFn(ctx, tx, p)
}
func (m *mockPaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockPaymentRepo) List(ctx context.Context, reservationID *uint) ([]models.Payment, error) {
	return m.listFn(ctx, reservationID)
}
func (m *mockPaymentRepo) Update(ctx context.Context, p *models.Payment) error {
	return m.updateFn(ctx, p)
}
func (m *mockPaymentRepo) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockPaymentRepo) DeleteByReservation(ctx context.Context, tx *gorm.DB, reservationID uint) (int64, error) {
	return m.deleteByResv(ctx, tx, reservationID)
}

// --- Mock LoyaltyRepository ---

type mockLoyaltyRepo struct {
	upsertFn     func(ctx context.Context, tx *gorm.DB, m *models.LoyaltyMember) error
	findByCodeFn func(ctx context.Context, code string) (*models.LoyaltyMember, error)
	listFn       func(ctx context.Context) ([]models.LoyaltyMember, error)
}

func (m *mockLoyaltyRepo) Upsert(ctx context.Context, tx *gorm.DB, member *models.LoyaltyMember) error {
	return m.upsertFn(ctx, tx, member)
}
func (m *mockLoyaltyRepo) FindByCode(ctx context.Context, code string) (*models.LoyaltyMember, error) {
	return m.findByCodeFn(ctx, code)
}
func (m *mockLoyaltyRepo) List(ctx context.Context) ([]models.LoyaltyMember, error) {
	return m.listFn(ctx)
}

// --- Mock EventPublisher ---

type published struct {
	key     string
	payload any
}

type mockPublisher struct {
	sent []published
	err  error
}

func (m *mockPublisher) Publish(_ context.Context, key string, payload any) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, published{key: key, payload: payload})
	return nil
}

// hotel is an in-memory stand-in for the database behind the booking
// repositories. Writes made inside a failed transaction are discarded.
type hotel struct {
	rooms        map[uint]*models.Room
	guests       []models.Guest
	reservations []models.Reservation
	payments     []models.Payment
	items        []models.InvoiceItem
	members      map[string]models.LoyaltyMember

	tx        *mockTx
	roomRepo  *mockRoomRepo
	guestRepo *mockGuestRepo
	resvRepo  *mockReservationRepo
	payRepo   *mockPaymentRepo
	loyalty   *mockLoyaltyRepo
	pub       *mockPublisher
}

func overlaps(r models.Reservation, roomID uint, in, out time.Time) bool {
	return r.RoomID == roomID &&
		r.Status != models.StatusCancelled &&
		r.CheckIn.Time().Before(out) &&
		r.CheckOut.Time().After(in)
}

func newHotel(roomIDs ...uint) *hotel {
	h := &hotel{
		rooms:   map[uint]*models.Room{},
		members: map[string]models.LoyaltyMember{},
		pub:     &mockPublisher{},
	}
	for _, id := range roomIDs {
		h.rooms[id] = &models.Room{ID: id, RoomNumber: "R", Status: models.RoomAvailable}
	}

	h.tx = &mockTx{}
	h.tx.inTxFn = func(ctx context.Context, parent *gorm.DB, fn func(tx *gorm.DB) error) error {
		snapshot := h.snapshot()
		if parent == nil {
			parent = &gorm.DB{}
		}
		if err := fn(parent); err != nil {
			h.restore(snapshot)
			return err
		}
		return nil
	}

	findRoom := func(_ context.Context, id uint) (*models.Room, error) {
		r, ok := h.rooms[id]
		if !ok {
			return nil, gorm.ErrRecordNotFound
		}
		cp := *r
		return &cp, nil
	}
	h.roomRepo = &mockRoomRepo{
		findByIDFn: findRoom,
		findForUpdate: func(ctx context.Context, _ *gorm.DB, id uint) (*models.Room, error) {
			return findRoom(ctx, id)
		},
		updateStatusFn: func(_ context.Context, _ *gorm.DB, id uint, status models.RoomStatus) error {
			r, ok := h.rooms[id]
			if !ok {
				return gorm.ErrRecordNotFound
			}
			r.Status = status
			return nil
		},
		countFn: func(context.Context) (map[models.RoomStatus]int64, error) {
			out := map[models.RoomStatus]int64{}
			for _, r := range h.rooms {
				out[r.Status]++
			}
			return out, nil
		},
	}

	h.guestRepo = &mockGuestRepo{createFn: func(_ context.Context, _ *gorm.DB, g *models.Guest) error {
		g.ID = uint(len(h.guests) + 1)
		h.guests = append(h.guests, *g)
		return nil
	}}

	findResv := func(id uint) (*models.Reservation, error) {
		for _, r := range h.reservations {
			if r.ID == id {
				cp := r
				return &cp, nil
			}
		}
		return nil, gorm.ErrRecordNotFound
	}
	h.resvRepo = &mockReservationRepo{
		createFn: func(_ context.Context, _ *gorm.DB, r *models.Reservation) error {
			for _, existing := range h.reservations {
				if existing.OrderCode == r.OrderCode {
					return errUniqueOrderCode
				}
			}
			r.ID = uint(len(h.reservations) + 1)
			h.reservations = append(h.reservations, *r)
			return nil
		},
		findByIDFn: func(_ context.Context, id uint) (*models.Reservation, error) { return findResv(id) },
		findForUpdateFn: func(_ context.Context, _ *gorm.DB, id uint) (*models.Reservation, error) {
			return findResv(id)
		},
		listFn: func(context.Context, repository.ReservationFilter) ([]models.Reservation, error) {
			return h.reservations, nil
		},
		updateFn: func(_ context.Context, _ *gorm.DB, r *models.Reservation) error {
			for i := range h.reservations {
				if h.reservations[i].ID == r.ID {
					h.reservations[i] = *r
					return nil
				}
			}
			return gorm.ErrRecordNotFound
		},
		updateStatusFn: func(_ context.Context, _ *gorm.DB, id uint, status models.ReservationStatus) error {
			for i := range h.reservations {
				if h.reservations[i].ID == id {
					h.reservations[i].Status = status
					return nil
				}
			}
			return gorm.ErrRecordNotFound
		},
		deleteFn: func(_ context.Context, _ *gorm.DB, id uint) error {
			for i := range h.reservations {
				if h.reservations[i].ID == id {
					h.reservations = append(h.reservations[:i:i], h.reservations[i+1:]...)
					return nil
				}
			}
			return gorm.ErrRecordNotFound
		},
		hasOverlapFn: func(_ context.Context, _ *gorm.DB, roomID uint, in, out time.Time, excludeID *uint) (bool, error) {
			for _, r := range h.reservations {
				if excludeID != nil && r.ID == *excludeID {
					continue
				}
				if overlaps(r, roomID, in, out) {
					return true, nil
				}
			}
			return false, nil
		},
		sumFn: func(_ context.Context, _ *gorm.DB, code string) (float64, error) {
			var sum float64
			for _, r := range h.reservations {
				if r.LoyaltyMemberCode != nil && *r.LoyaltyMemberCode == code {
					sum += r.TotalAmount
				}
			}
			return sum, nil
		},
		createItemFn: func(_ context.Context, item *models.InvoiceItem) error {
			item.ID = uint(len(h.items) + 1)
			h.items = append(h.items, *item)
			return nil
		},
		listItemsFn: func(_ context.Context, reservationID uint) ([]models.InvoiceItem, error) {
			var out []models.InvoiceItem
			for _, it := range h.items {
				if it.ReservationID == reservationID {
					out = append(out, it)
				}
			}
			return out, nil
		},
		deleteItemsFn: func(_ context.Context, _ *gorm.DB, reservationID uint) error {
			kept := h.items[:0:0]
			for _, it := range h.items {
				if it.ReservationID != reservationID {
					kept = append(kept, it)
				}
			}
			h.items = kept
			return nil
		},
	}

	h.payRepo = &mockPaymentRepo{
		createFn: func(_ context.Context, _ *gorm.DB, p *models.Payment) error {
			p.ID = uint(len(h.payments) + 1)
			h.payments = append(h.payments, *p)
			return nil
		},
		deleteByResv: func(_ context.Context, _ *gorm.DB, reservationID uint) (int64, error) {
			kept := h.payments[:0:0]
			var n int64
			for _, p := range h.payments {
				if p.ReservationID == reservationID {
					n++
					continue
				}
				kept = append(kept, p)
			}
			h.payments = kept
			return n, nil
		},
	}

	h.loyalty = &mockLoyaltyRepo{
		upsertFn: func(_ context.Context, _ *gorm.DB, m *models.LoyaltyMember) error {
			if existing, ok := h.members[m.MemberCode]; ok {
				existing.Points = m.Points
				existing.LastActivityAt = m.LastActivityAt
				h.members[m.MemberCode] = existing
				return nil
			}
			h.members[m.MemberCode] = *m
			return nil
		},
	}
	return h
}

type hotelSnapshot struct {
	guests       []models.Guest
	reservations []models.Reservation
	payments     []models.Payment
	items        []models.InvoiceItem
	members      map[string]models.LoyaltyMember
	roomStatus   map[uint]models.RoomStatus
}

func (h *hotel) snapshot() hotelSnapshot {
	s := hotelSnapshot{
		guests:       append([]models.Guest(nil), h.guests...),
		reservations: append([]models.Reservation(nil), h.reservations...),
		payments:     append([]models.Payment(nil), h.payments...),
		items:        append([]models.InvoiceItem(nil), h.items...),
		members:      map[string]models.LoyaltyMember{},
		roomStatus:   map[uint]models.RoomStatus{},
	}
	for k, v := range h.members {
		s.members[k] = v
	}
	for id, r := range h.rooms {
		s.roomStatus[id] = r.Status
	}
	return s
}

func (h *hotel) restore(s hotelSnapshot) {
	h.guests, h.reservations, h.payments, h.items, h.members = s.guests, s.reservations, s.payments, s.items, s.members
	for id, st := range s.roomStatus {
		h.rooms[id].Status = st
	}
}

func (h *hotel) deps() BookingDeps {
	return BookingDeps{
		Tx:           h.tx,
		Rooms:        h.roomRepo,
		Guests:       h.guestRepo,
		Reservations: h.resvRepo,
		Payments:     h.payRepo,
		Members:      h.loyalty,
		Checker:      NewAvailabilityChecker(h.resvRepo),
		Loyalty:      NewLoyaltyCalculator(h.resvRepo, 200000, 3),
		Publisher:    h.pub,
		Log:          zap.NewNop(),
	}
}

func (h *hotel) bookingService(now time.Time) *bookingService {
	s := NewBookingService(h.deps()).(*bookingService)
	s.now = func() time.Time { return now }
	return s
}

func (h *hotel) reservationService(now time.Time) *reservationService {
	s := NewReservationService(h.deps()).(*reservationService)
	s.now = func() time.Time { return now }
	return s
}

func (h *hotel) seedReservation(id, roomID uint, in, out string, status models.ReservationStatus) {
	ci, _ := models.ParseDate(in)
	co, _ := models.ParseDate(out)
	h.reservations = append(h.reservations, models.Reservation{
		ID:        id,
		GuestID:   1,
		RoomID:    roomID,
		OrderCode: "SEED-" + in + "-" + string(rune('A'+id)),
		CheckIn:   ci,
		CheckOut:  co,
		Status:    status,
	})
}
