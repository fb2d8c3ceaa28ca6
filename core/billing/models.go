package billing

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Plan names
const (
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// PricingPlan is static reference data seeded at install time; plans are
// not created or mutated at runtime.
type PricingPlan struct {
	ID       int      `json:"id"`
	Plan     string   `json:"plan"`
	Features []string `json:"features"` // ordered description strings
	Price    int      `json:"price"`
}

// CreatorPlan is one subscription row. At most one row per creator is
// active at any time; superseded rows keep their history with EndDate set.
type CreatorPlan struct {
	ID        int        `json:"id"`
	CreatorID int        `json:"creatorId"`
	PlanID    int        `json:"planId"`
	StartDate time.Time  `json:"startDate"` // UTC
	EndDate   *time.Time `json:"endDate"`   // nil while active
	Active    bool       `json:"active"`
}

// ActivePlan pairs a creator's current subscription with its plan details.
type ActivePlan struct {
	Subscription CreatorPlan `json:"subscription"`
	Plan         PricingPlan `json:"plan"`
}

// Upgrade is the plan-upgrade payload.
type Upgrade struct {
	PlanID int `json:"planId" validate:"required"`
}

func (up *Upgrade) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}

// CreatorStats is the per-creator slice of the admin aggregate.
type CreatorStats struct {
	CreatorID    int    `json:"creatorId"`
	Username     string `json:"username"`
	StudentCount int    `json:"studentCount"`
	// Revenue is the price of the creator's active plan, or 0.
	Revenue int `json:"revenue"`
	// NewStudents counts enrollments within the growth window.
	NewStudents int `json:"newStudents"`
	// Growth is NewStudents as a percentage of StudentCount.
	Growth float64 `json:"growth"`
}

// AdminStats is recomputed on every call; no caching.
type AdminStats struct {
	TotalCreators int            `json:"totalCreators"`
	TotalStudents int            `json:"totalStudents"`
	TotalRevenue  int            `json:"totalRevenue"`
	Creators      []CreatorStats `json:"creators"`
}
