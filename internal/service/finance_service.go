package service

import (
	"context"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Dashboard struct {
	Year            int                         `json:"year"`
	Month           int                         `json:"month"`
	RealizedRevenue float64                     `json:"realized_revenue"`
	BookedRevenue   float64                     `json:"booked_revenue"`
	PendingPayments float64                     `json:"pending_payments"`
	Expenses        float64                     `json:"expenses"`
	NetProfit       float64                     `json:"net_profit"`
	Budget          float64                     `json:"budget"`
	Target          float64                     `json:"target"`
	TargetProgress  float64                     `json:"target_progress"`
	RoomStatus      map[models.RoomStatus]int64 `json:"room_status"`
	OccupancyRate   float64                     `json:"occupancy_rate"`
}

type MonthlyRevenue struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

type FinanceService interface {
	Dashboard(ctx context.Context, year, month int) (*Dashboard, error)
	SetBudget(ctx context.Context, year, month int, amount float64) (*models.MonthlyBudget, error)
	SetTarget(ctx context.Context, year, month int, amount float64) (*models.RevenueTarget, error)
	RevenueByMonth(ctx context.Context, year int) ([]MonthlyRevenue, error)
}

type financeService struct {
	finance repository.FinanceRepository
	rooms   repository.RoomRepository
	log     *zap.Logger
}

func NewFinanceService(finance repository.FinanceRepository, rooms repository.RoomRepository, log *zap.Logger) FinanceService {
	return &financeService{finance: finance, rooms: rooms, log: log.Named("finance")}
}

func checkPeriod(year, month int) error {
	if year < 1 {
		return validationf("year must be positive")
	}
	if month < 1 || month > 12 {
		return validationf("month must be between 1 and 12")
	}
	return nil
}

func (s *financeService) Dashboard(ctx context.Context, year, month int) (*Dashboard, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Dashboard", trace.WithAttributes(
		attribute.Int("period.year", year),
		attribute.Int("period.month", month),
	))
	defer span.End()

	if err := checkPeriod(year, month); err != nil {
		return nil, err
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	fail := func(err error) (*Dashboard, error) {
		span.RecordError(err)
		return nil, classify(s.log, "finance dashboard", err, zap.Int("year", year), zap.Int("month", month))
	}

	d := &Dashboard{Year: year, Month: month}
	var err error
	if d.RealizedRevenue, err = s.finance.RealizedRevenue(ctx, from, to); err != nil {
		return fail(err)
	}
	if d.BookedRevenue, err = s.finance.BookedRevenue(ctx, from, to); err != nil {
		return fail(err)
	}
	if d.PendingPayments, err = s.finance.PendingPayments(ctx); err != nil {
		return fail(err)
	}
	if d.Expenses, err = s.finance.ExpenseTotal(ctx, from, to); err != nil {
		return fail(err)
	}
	d.NetProfit = d.RealizedRevenue - d.Expenses

	budget, err := s.finance.FindBudget(ctx, year, month)
	if err != nil {
		return fail(err)
	}
	if budget != nil {
		d.Budget = budget.Amount
	}
	target, err := s.finance.FindTarget(ctx, year, month)
	if err != nil {
		return fail(err)
	}
	if target != nil {
		d.Target = target.Amount
	}
	if d.Target > 0 {
		d.TargetProgress = d.RealizedRevenue / d.Target
	}

	counts, err := s.rooms.CountByStatus(ctx)
	if err != nil {
		return fail(err)
	}
	d.RoomStatus = counts
	var total int64
	for _, n := range counts {
		total += n
	}
	if total > 0 {
		d.OccupancyRate = float64(counts[models.RoomOccupied]) / float64(total)
	}
	return d, nil
}

func (s *financeService) SetBudget(ctx context.Context, year, month int, amount float64) (*models.MonthlyBudget, error) {
	if err := checkPeriod(year, month); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, validationf("amount must not be negative")
	}
	budget := &models.MonthlyBudget{Year: year, Month: month, Amount: amount}
	if err := s.finance.UpsertBudget(ctx, budget); err != nil {
		return nil, classify(s.log, "set budget", err, zap.Int("year", year), zap.Int("month", month))
	}
	return budget, nil
}

func (s *financeService) SetTarget(ctx context.Context, year, month int, amount float64) (*models.RevenueTarget, error) {
	if err := checkPeriod(year, month); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, validationf("amount must not be negative")
	}
	target := &models.RevenueTarget{Year: year, Month: month, Amount: amount}
	if err := s.finance.UpsertTarget(ctx, target); err != nil {
		return nil, classify(s.log, "set target", err, zap.Int("year", year), zap.Int("month", month))
	}
	return target, nil
}

// RevenueByMonth always returns twelve buckets, zero-filled.
func (s *financeService) RevenueByMonth(ctx context.Context, year int) ([]MonthlyRevenue, error) {
	if err := checkPeriod(year, 1); err != nil {
		return nil, err
	}
	byMonth, err := s.finance.MonthlyRealizedRevenue(ctx, year)
	if err != nil {
		return nil, classify(s.log, "revenue by month", err, zap.Int("year", year))
	}
	out := make([]MonthlyRevenue, 12)
	for i := range out {
		out[i] = MonthlyRevenue{Month: i + 1, Revenue: byMonth[i+1]}
	}
	return out, nil
}
