package billing

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// growthWindow is the enrollment window the growth metric is computed
// over.
const growthWindow = 30 * 24 * time.Hour

var (
	NowFunc = time.Now // mockable

	// errors
	ErrPlanNotFound = errors.New("pricing plan not found")
	ErrNoActivePlan = errors.New("no active plan")
)

type (
	Repository interface {
		QueryPricingPlans(ctx context.Context) ([]PricingPlan, error)
		GetPricingPlanByID(ctx context.Context, id int) (PricingPlan, error) // ErrPlanNotFound if absent
		GetActiveCreatorPlan(ctx context.Context, creatorID int) (CreatorPlan, error) // ErrNoActivePlan if none
		// UpgradeCreatorPlan deactivates any active subscription for the
		// creator (EndDate=now, Active=false) and inserts the new active
		// row, as a single atomic unit with respect to concurrent
		// upgrades for the same creator.
		UpgradeCreatorPlan(ctx context.Context, creatorID, planID int, now time.Time) (CreatorPlan, error)
		QueryAllCreatorPlans(ctx context.Context) ([]CreatorPlan, error)
		// QueryCreatorStats aggregates per-creator student counts,
		// enrollments since `since` and active-plan revenue.
		QueryCreatorStats(ctx context.Context, since time.Time) ([]CreatorStats, error)
	}

	ServiceInterface interface {
		QueryPlans(ctx context.Context) ([]PricingPlan, error)
		ActivePlan(ctx context.Context, creatorID int) (ActivePlan, error)
		Upgrade(ctx context.Context, creatorID, planID int) (CreatorPlan, error)
		QueryAllCreatorPlans(ctx context.Context) ([]CreatorPlan, error)
		Stats(ctx context.Context) (AdminStats, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryPlans(ctx context.Context) ([]PricingPlan, error) {
	return svc.repo.QueryPricingPlans(ctx)
}

// ActivePlan returns the creator's current subscription with its plan
// details; ErrNoActivePlan when the creator never upgraded.
func (svc *Service) ActivePlan(ctx context.Context, creatorID int) (ActivePlan, error) {
	sub, err := svc.repo.GetActiveCreatorPlan(ctx, creatorID)
	if err != nil {
		return ActivePlan{}, err
	}
	plan, err := svc.repo.GetPricingPlanByID(ctx, sub.PlanID)
	if err != nil {
		return ActivePlan{}, errors.Wrap(err, "finding subscribed plan")
	}
	return ActivePlan{Subscription: sub, Plan: plan}, nil
}

// Upgrade moves the creator onto planID. Any previously active
// subscription is superseded; upgrading to the already active plan is
// allowed and creates a new subscription row.
func (svc *Service) Upgrade(ctx context.Context, creatorID, planID int) (CreatorPlan, error) {
	if _, err := svc.repo.GetPricingPlanByID(ctx, planID); err != nil {
		return CreatorPlan{}, err
	}
	return svc.repo.UpgradeCreatorPlan(ctx, creatorID, planID, NowFunc().UTC())
}

func (svc *Service) QueryAllCreatorPlans(ctx context.Context) ([]CreatorPlan, error) {
	return svc.repo.QueryAllCreatorPlans(ctx)
}

// Stats recomputes the admin aggregate on every call. Fine at admin-panel
// traffic; cache or paginate before the creator count grows large.
func (svc *Service) Stats(ctx context.Context) (AdminStats, error) {
	since := NowFunc().UTC().Add(-growthWindow)
	creators, err := svc.repo.QueryCreatorStats(ctx, since)
	if err != nil {
		return AdminStats{}, err
	}

	stats := AdminStats{
		TotalCreators: len(creators),
		Creators:      make([]CreatorStats, 0, len(creators)),
	}
	for _, cs := range creators {
		if cs.StudentCount > 0 {
			cs.Growth = float64(cs.NewStudents) / float64(cs.StudentCount) * 100
		}
		stats.TotalStudents += cs.StudentCount
		stats.TotalRevenue += cs.Revenue
		stats.Creators = append(stats.Creators, cs)
	}
	return stats, nil
}
