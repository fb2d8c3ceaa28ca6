package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/darasa/core/billing"
	"github.com/trezcool/darasa/core/user"
)

type billingRepository struct {
	db *DB
}

var _ billing.Repository = (*billingRepository)(nil) // interface compliance check

// NewBillingRepository needs the whole DB: the admin stats aggregate
// spans users, students and subscriptions.
func NewBillingRepository(db *DB) billing.Repository {
	return &billingRepository{db: db}
}

func (repo *billingRepository) QueryPricingPlans(ctx context.Context) ([]billing.PricingPlan, error) {
	repo.db.billing.RLock()
	defer repo.db.billing.RUnlock()

	plans := make([]billing.PricingPlan, 0, len(repo.db.billing.plans))
	for _, p := range repo.db.billing.plans {
		plans = append(plans, *p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, nil
}

func (repo *billingRepository) GetPricingPlanByID(ctx context.Context, id int) (billing.PricingPlan, error) {
	repo.db.billing.RLock()
	defer repo.db.billing.RUnlock()

	if p, ok := repo.db.billing.plans[id]; ok {
		return *p, nil
	}
	return billing.PricingPlan{}, billing.ErrPlanNotFound
}

func (repo *billingRepository) GetActiveCreatorPlan(ctx context.Context, creatorID int) (billing.CreatorPlan, error) {
	repo.db.billing.RLock()
	defer repo.db.billing.RUnlock()
	return repo.activeSub(creatorID)
}

// UpgradeCreatorPlan holds the write lock across the deactivation and the
// insert: concurrent upgrades for the same creator serialize here, so the
// single-active-plan invariant holds.
func (repo *billingRepository) UpgradeCreatorPlan(ctx context.Context, creatorID, planID int, now time.Time) (billing.CreatorPlan, error) {
	repo.db.billing.Lock()
	defer repo.db.billing.Unlock()

	if cur, err := repo.activeSub(creatorID); err == nil {
		end := now
		cur.EndDate = &end
		cur.Active = false
		repo.db.billing.subs[cur.ID] = &cur
	}

	repo.db.billing.seq++
	sub := billing.CreatorPlan{
		ID:        repo.db.billing.seq,
		CreatorID: creatorID,
		PlanID:    planID,
		StartDate: now,
		Active:    true,
	}
	repo.db.billing.subs[sub.ID] = &sub
	return sub, nil
}

func (repo *billingRepository) QueryAllCreatorPlans(ctx context.Context) ([]billing.CreatorPlan, error) {
	repo.db.billing.RLock()
	defer repo.db.billing.RUnlock()

	subs := make([]billing.CreatorPlan, 0, len(repo.db.billing.subs))
	for _, s := range repo.db.billing.subs {
		subs = append(subs, *s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (repo *billingRepository) QueryCreatorStats(ctx context.Context, since time.Time) ([]billing.CreatorStats, error) {
	repo.db.user.RLock()
	creators := make([]user.User, 0)
	for _, usr := range repo.db.user.table {
		if usr.Role == user.RoleCreator {
			creators = append(creators, *usr)
		}
	}
	repo.db.user.RUnlock()
	sort.Slice(creators, func(i, j int) bool { return creators[i].ID < creators[j].ID })

	stats := make([]billing.CreatorStats, 0, len(creators))
	for _, usr := range creators {
		cs := billing.CreatorStats{CreatorID: usr.ID, Username: usr.Username}

		repo.db.student.RLock()
		for _, st := range repo.db.student.table {
			if st.CreatorID != usr.ID {
				continue
			}
			cs.StudentCount++
			if st.EnrolledAt.After(since) {
				cs.NewStudents++
			}
		}
		repo.db.student.RUnlock()

		repo.db.billing.RLock()
		if sub, err := repo.activeSub(usr.ID); err == nil {
			if plan, ok := repo.db.billing.plans[sub.PlanID]; ok {
				cs.Revenue = plan.Price
			}
		}
		repo.db.billing.RUnlock()

		stats = append(stats, cs)
	}
	return stats, nil
}

// activeSub expects the billing lock to be held.
func (repo *billingRepository) activeSub(creatorID int) (billing.CreatorPlan, error) {
	for _, s := range repo.db.billing.subs {
		if s.CreatorID == creatorID && s.Active {
			return *s, nil
		}
	}
	return billing.CreatorPlan{}, billing.ErrNoActivePlan
}
