package service

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Prepare checks an entity before it is written and may normalise it.
// creating is false on updates.
type Prepare[T any] func(entity *T, creating bool) error

// CatalogService is CRUD over one back-office table with error
// classification. Entities with no business rules pass a nil Prepare.
type CatalogService[T any] struct {
	name    string
	store   repository.Store[T]
	prepare Prepare[T]
	log     *zap.Logger
}

func NewCatalogService[T any](name string, store repository.Store[T], prepare Prepare[T], log *zap.Logger) *CatalogService[T] {
	return &CatalogService[T]{
		name:    name,
		store:   store,
		prepare: prepare,
		log:     log.Named(name),
	}
}

func (s *CatalogService[T]) Name() string { return s.name }

func (s *CatalogService[T]) Create(ctx context.Context, entity *T) error {
	if s.prepare != nil {
		if err := s.prepare(entity, true); err != nil {
			return err
		}
	}
	if err := s.store.Create(ctx, entity); err != nil {
		return classify(s.log, "create "+s.name, err)
	}
	return nil
}

func (s *CatalogService[T]) Get(ctx context.Context, id uint) (*T, error) {
	out, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(s.name, id)
		}
		return nil, classify(s.log, "get "+s.name, err, zap.Uint("id", id))
	}
	return out, nil
}

func (s *CatalogService[T]) List(ctx context.Context, q repository.ListQuery) ([]T, error) {
	out, err := s.store.List(ctx, q)
	if err != nil {
		return nil, classify(s.log, "list "+s.name, err)
	}
	return out, nil
}

func (s *CatalogService[T]) Update(ctx context.Context, id uint, entity *T) (*T, error) {
	if s.prepare != nil {
		if err := s.prepare(entity, false); err != nil {
			return nil, err
		}
	}
	out, err := s.store.Update(ctx, id, entity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(s.name, id)
		}
		return nil, classify(s.log, "update "+s.name, err, zap.Uint("id", id))
	}
	return out, nil
}

func (s *CatalogService[T]) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(s.name, id)
		}
		return classify(s.log, "delete "+s.name, err, zap.Uint("id", id))
	}
	return nil
}

func required(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return validationf("missing required fields: %s", strings.Join(missing, ", "))
}

// PrepareRoom requires the hotel-assigned id on create.
func PrepareRoom(r *models.Room, creating bool) error {
	if creating && r.ID == 0 {
		return validationf("room id is required")
	}
	if err := required(map[string]string{"room_number": r.RoomNumber, "type": r.Type}); err != nil {
		return err
	}
	if r.Price < 0 {
		return validationf("price must not be negative")
	}
	switch r.Status {
	case "":
		r.Status = models.RoomAvailable
	case models.RoomAvailable, models.RoomOccupied, models.RoomMaintenance, models.RoomDirty:
	default:
		return validationf("unknown room status %q", r.Status)
	}
	return nil
}

func PrepareGuest(g *models.Guest, _ bool) error {
	g.ID = 0
	return required(map[string]string{"name": g.Name})
}

func PrepareExpense(e *models.Expense, _ bool) error {
	e.ID = 0
	if err := required(map[string]string{"category": e.Category}); err != nil {
		return err
	}
	if e.ExpenseDate.IsZero() {
		return validationf("expense_date is required")
	}
	if e.Amount < 0 {
		return validationf("amount must not be negative")
	}
	return nil
}

func PrepareInventoryItem(i *models.InventoryItem, _ bool) error {
	i.ID = 0
	if err := required(map[string]string{"name": i.Name}); err != nil {
		return err
	}
	if i.Quantity < 0 || i.ReorderLevel < 0 || i.UnitCost < 0 {
		return validationf("quantity, reorder_level and unit_cost must not be negative")
	}
	return nil
}

func PrepareMaintenanceTicket(t *models.MaintenanceTicket, _ bool) error {
	t.ID = 0
	if t.Priority == "" {
		t.Priority = "Normal"
	}
	if t.Status == "" {
		t.Status = "Open"
	}
	return required(map[string]string{"title": t.Title})
}

func PrepareCleaningTask(c *models.CleaningTask, _ bool) error {
	c.ID = 0
	if c.RoomID == 0 {
		return validationf("room_id is required")
	}
	switch c.Status {
	case "":
		c.Status = models.CleaningPending
	case models.CleaningPending, models.CleaningInProgress, models.CleaningDone:
	default:
		return validationf("unknown cleaning status %q", c.Status)
	}
	return nil
}

var clock = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func PrepareStaffShift(s *models.StaffShift, _ bool) error {
	s.ID = 0
	if err := required(map[string]string{"staff_name": s.StaffName}); err != nil {
		return err
	}
	if s.ShiftDate.IsZero() {
		return validationf("shift_date is required")
	}
	if !clock.MatchString(s.StartTime) || !clock.MatchString(s.EndTime) {
		return validationf("start_time and end_time must be HH:MM")
	}
	return nil
}

func PrepareCampaign(c *models.Campaign, _ bool) error {
	c.ID = 0
	if err := required(map[string]string{"name": c.Name}); err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = "Draft"
	}
	if c.Budget < 0 {
		return validationf("budget must not be negative")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.EndDate.Time().Before(c.StartDate.Time()) {
		return validationf("end_date must not be before start_date")
	}
	return nil
}

// MemberService exposes loyalty balances. Balances are only written by
// the booking orchestrator.
type MemberService interface {
	List(ctx context.Context) ([]models.LoyaltyMember, error)
	Get(ctx context.Context, memberCode string) (*models.LoyaltyMember, error)
}

type memberService struct {
	members repository.LoyaltyRepository
	log     *zap.Logger
}

func NewMemberService(members repository.LoyaltyRepository, log *zap.Logger) MemberService {
	return &memberService{members: members, log: log.Named("loyalty")}
}

func (s *memberService) List(ctx context.Context) ([]models.LoyaltyMember, error) {
	out, err := s.members.List(ctx)
	if err != nil {
		return nil, classify(s.log, "list loyalty members", err)
	}
	return out, nil
}

func (s *memberService) Get(ctx context.Context, memberCode string) (*models.LoyaltyMember, error) {
	m, err := s.members.FindByCode(ctx, memberCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("loyalty member", memberCode)
		}
		return nil, classify(s.log, "get loyalty member", err, zap.String("member_code", memberCode))
	}
	return m, nil
}
