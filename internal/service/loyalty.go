package service

import (
	"context"
	"math"

	"github.com/Eursukkul/hotel-pms/internal/repository"
	"gorm.io/gorm"
)

type LoyaltyCalculator struct {
	reservations  repository.ReservationRepository
	spendStep     float64
	pointsPerStep int
}

func NewLoyaltyCalculator(reservations repository.ReservationRepository, spendStep float64, pointsPerStep int) *LoyaltyCalculator {
	return &LoyaltyCalculator{
		reservations:  reservations,
		spendStep:     spendStep,
		pointsPerStep: pointsPerStep,
	}
}

// Points converts lifetime spend into a balance: pointsPerStep for every
// full spendStep.
func (l *LoyaltyCalculator) Points(lifetimeSpend float64) int {
	if lifetimeSpend <= 0 {
		return 0
	}
	return int(math.Floor(lifetimeSpend/l.spendStep)) * l.pointsPerStep
}

// RecomputeBalance must run before the new reservation is stored: the
// incoming amount is added to the member's existing reservation totals,
// so calling it afterwards counts the reservation twice.
func (l *LoyaltyCalculator) RecomputeBalance(ctx context.Context, tx *gorm.DB, memberCode string, incomingAmount float64) (int, error) {
	spent, err := l.reservations.SumTotalByMemberCode(ctx, tx, memberCode)
	if err != nil {
		return 0, err
	}
	return l.Points(spent + incomingAmount), nil
}
