package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/billing"
)

type billingRepository struct {
	db *sqlx.DB
}

var _ billing.Repository = (*billingRepository)(nil)

func NewBillingRepository(db *sqlx.DB) *billingRepository {
	return &billingRepository{db: db}
}

type pricingPlanRow struct {
	ID       int            `db:"id"`
	Plan     string         `db:"plan"`
	Features pq.StringArray `db:"features"`
	Price    int            `db:"price"`
}

func (row pricingPlanRow) pricingPlan() billing.PricingPlan {
	return billing.PricingPlan{
		ID:       row.ID,
		Plan:     row.Plan,
		Features: row.Features,
		Price:    row.Price,
	}
}

type creatorPlanRow struct {
	ID        int       `db:"id"`
	CreatorID int       `db:"creator_id"`
	PlanID    int       `db:"plan_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   null.Time `db:"end_date"`
	Active    bool      `db:"active"`
}

func (row creatorPlanRow) creatorPlan() billing.CreatorPlan {
	return billing.CreatorPlan{
		ID:        row.ID,
		CreatorID: row.CreatorID,
		PlanID:    row.PlanID,
		StartDate: row.StartDate,
		EndDate:   row.EndDate.Ptr(),
		Active:    row.Active,
	}
}

func (repo billingRepository) QueryPricingPlans(ctx context.Context) ([]billing.PricingPlan, error) {
	var rows []pricingPlanRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM pricing_plan ORDER BY price`); err != nil {
		return nil, errors.Wrap(err, "querying pricing plans")
	}
	plans := make([]billing.PricingPlan, len(rows))
	for i, row := range rows {
		plans[i] = row.pricingPlan()
	}
	return plans, nil
}

func (repo billingRepository) GetPricingPlanByID(ctx context.Context, id int) (billing.PricingPlan, error) {
	var row pricingPlanRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM pricing_plan WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return billing.PricingPlan{}, billing.ErrPlanNotFound
		}
		return billing.PricingPlan{}, errors.Wrap(err, "getting pricing plan by id")
	}
	return row.pricingPlan(), nil
}

func (repo billingRepository) GetActiveCreatorPlan(ctx context.Context, creatorID int) (billing.CreatorPlan, error) {
	var row creatorPlanRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM creator_plan WHERE creator_id = $1 AND active`, creatorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return billing.CreatorPlan{}, billing.ErrNoActivePlan
		}
		return billing.CreatorPlan{}, errors.Wrap(err, "getting active creator plan")
	}
	return row.creatorPlan(), nil
}

func (repo billingRepository) UpgradeCreatorPlan(ctx context.Context, creatorID, planID int, now time.Time) (billing.CreatorPlan, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return billing.CreatorPlan{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	q := `UPDATE creator_plan SET active = FALSE, end_date = $1 WHERE creator_id = $2 AND active`
	if _, err = tx.ExecContext(ctx, q, now, creatorID); err != nil {
		return billing.CreatorPlan{}, errors.Wrap(err, "deactivating current plan")
	}

	sub := billing.CreatorPlan{
		CreatorID: creatorID,
		PlanID:    planID,
		StartDate: now,
		Active:    true,
	}
	q = `
INSERT INTO creator_plan (creator_id, plan_id, start_date, active)
VALUES ($1, $2, $3, TRUE)
RETURNING id`
	if err = tx.QueryRowxContext(ctx, q, creatorID, planID, now).Scan(&sub.ID); err != nil {
		return billing.CreatorPlan{}, errors.Wrap(err, "inserting new plan")
	}

	if err = tx.Commit(); err != nil {
		return billing.CreatorPlan{}, errors.Wrap(err, "committing transaction")
	}
	return sub, nil
}

func (repo billingRepository) QueryAllCreatorPlans(ctx context.Context) ([]billing.CreatorPlan, error) {
	var rows []creatorPlanRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM creator_plan ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying creator plans")
	}
	subs := make([]billing.CreatorPlan, len(rows))
	for i, row := range rows {
		subs[i] = row.creatorPlan()
	}
	return subs, nil
}

func (repo billingRepository) QueryCreatorStats(ctx context.Context, since time.Time) ([]billing.CreatorStats, error) {
	q := `
SELECT u.id                                                AS creator_id,
       u.username                                          AS username,
       COUNT(s.id)                                         AS student_count,
       COUNT(s.id) FILTER (WHERE s.enrolled_at >= $1)      AS new_students,
       COALESCE(pp.price, 0)                               AS revenue
FROM "user" u
         LEFT JOIN student s ON s.creator_id = u.id
         LEFT JOIN creator_plan cp ON cp.creator_id = u.id AND cp.active
         LEFT JOIN pricing_plan pp ON pp.id = cp.plan_id
WHERE u.role = 'creator'
GROUP BY u.id, u.username, pp.price
ORDER BY u.id`

	var rows []struct {
		CreatorID    int    `db:"creator_id"`
		Username     string `db:"username"`
		StudentCount int    `db:"student_count"`
		NewStudents  int    `db:"new_students"`
		Revenue      int    `db:"revenue"`
	}
	if err := repo.db.SelectContext(ctx, &rows, q, since); err != nil {
		return nil, errors.Wrap(err, "querying creator stats")
	}

	stats := make([]billing.CreatorStats, len(rows))
	for i, row := range rows {
		stats[i] = billing.CreatorStats{
			CreatorID:    row.CreatorID,
			Username:     row.Username,
			StudentCount: row.StudentCount,
			NewStudents:  row.NewStudents,
			Revenue:      row.Revenue,
		}
	}
	return stats, nil
}
