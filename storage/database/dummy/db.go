package dummydb

import (
	"sync"

	"github.com/trezcool/darasa/core/billing"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
)

// DB is a mutex-guarded in-memory substitute for the real database; valid
// for tests and local hacking, not durable.
type (
	DB struct {
		user    *userTable
		session *sessionTable
		student *studentTable
		course  *courseTable
		billing *billingTable
	}

	userTable struct {
		sync.RWMutex
		seq   int
		table map[int]*user.User
	}

	sessionTable struct {
		sync.RWMutex
		table map[string]*user.Session // by token
	}

	studentTable struct {
		sync.RWMutex
		seq   int
		table map[int]*student.Student
	}

	courseTable struct {
		sync.RWMutex
		seq   int
		table map[int]*course.Course
	}

	billingTable struct {
		sync.RWMutex
		seq   int
		plans map[int]*billing.PricingPlan
		subs  map[int]*billing.CreatorPlan
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[int]*user.User)},
		session: &sessionTable{table: make(map[string]*user.Session)},
		student: &studentTable{table: make(map[int]*student.Student)},
		course:  &courseTable{table: make(map[int]*course.Course)},
		billing: &billingTable{
			plans: make(map[int]*billing.PricingPlan),
			subs:  make(map[int]*billing.CreatorPlan),
		},
	}
	db.seedPricingPlans()
	return db, nil
}

// seedPricingPlans mirrors the pricing reference data the SQL migrations
// seed in the real database.
func (db *DB) seedPricingPlans() {
	plans := []billing.PricingPlan{
		{Plan: billing.PlanBasic, Features: []string{"Up to 50 students", "5 courses", "Email support"}, Price: 29},
		{Plan: billing.PlanPro, Features: []string{"Up to 500 students", "Unlimited courses", "Priority support", "Custom branding"}, Price: 99},
		{Plan: billing.PlanEnterprise, Features: []string{"Unlimited students", "Unlimited courses", "Dedicated support", "Custom branding", "SLA"}, Price: 299},
	}
	for i := range plans {
		db.billing.seq++
		plans[i].ID = db.billing.seq
		db.billing.plans[plans[i].ID] = &plans[i]
	}
}
