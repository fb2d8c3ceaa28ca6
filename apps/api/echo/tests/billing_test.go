package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/billing"
	"github.com/trezcool/darasa/core/user"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_billingApi_queryPlans(t *testing.T) {
	app := setup(t)

	plans, err := billingRepo.QueryPricingPlans(context.Background())
	if err != nil {
		t.Fatalf("QueryPricingPlans() failed: %v", err)
	}

	// the catalog is public
	req, rec := newRequest(http.MethodGet, "/v1/pricing/plans")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, plans)}, rec)
}

func Test_billingApi_activePlan(t *testing.T) {
	app := setup(t)

	creator := testutil.CreateUser(t, usrRepo, "alice", "secret1", user.RoleCreator, true)
	token := getToken(t, creator)

	t.Run("requires a session", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/pricing/active-plan")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)}, rec)
	})

	t.Run("no active plan", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/pricing/active-plan", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "no active plan"})}, rec)
	})

	t.Run("returns the subscription with plan details", func(t *testing.T) {
		sub, err := billingRepo.UpgradeCreatorPlan(context.Background(), creator.ID, 2, billing.NowFunc().UTC())
		if err != nil {
			t.Fatalf("UpgradeCreatorPlan() failed: %v", err)
		}
		plan, err := billingRepo.GetPricingPlanByID(context.Background(), 2)
		if err != nil {
			t.Fatalf("GetPricingPlanByID() failed: %v", err)
		}

		req, rec := newAuthRequest(http.MethodGet, "/v1/pricing/active-plan", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, billing.ActivePlan{Subscription: sub, Plan: plan}),
		}, rec)
	})
}

func Test_billingApi_upgrade(t *testing.T) {
	app := setup(t)

	creator := testutil.CreateUser(t, usrRepo, "alice", "secret1", user.RoleCreator, true)
	token := getToken(t, creator)

	tests := []httpTest{
		{
			name:     "requires a session",
			body:     []byte(`{"planId": 1}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errNotAuthenticated),
		},
		{
			name:     "empty body",
			body:     []byte(`{}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"planId": "this field is required"}),
		},
		{
			name:     "unknown plan",
			body:     []byte(`{"planId": 666}`),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "pricing plan not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/pricing/upgrade", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("first upgrade activates the plan", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/pricing/upgrade", token, []byte(`{"planId": 1}`))
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var sub billing.CreatorPlan
		if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
			t.Fatalf("unmarshalling CreatorPlan: %v", err)
		}
		assert.Equal(t, creator.ID, sub.CreatorID)
		assert.Equal(t, 1, sub.PlanID)
		assert.True(t, sub.Active)
		assert.Nil(t, sub.EndDate)
	})

	t.Run("a new upgrade supersedes the active plan", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/pricing/upgrade", token, []byte(`{"planId": 3}`))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		subs, err := billingRepo.QueryAllCreatorPlans(context.Background())
		if err != nil {
			t.Fatalf("QueryAllCreatorPlans() failed: %v", err)
		}
		assert.Len(t, subs, 2) // history is kept

		var activeCount int
		for _, sub := range subs {
			if sub.Active {
				activeCount++
				assert.Equal(t, 3, sub.PlanID)
				assert.Nil(t, sub.EndDate)
			} else {
				assert.Equal(t, 1, sub.PlanID)
				assert.NotNil(t, sub.EndDate)
			}
		}
		assert.Equal(t, 1, activeCount) // at most one active subscription

		active, err := billingRepo.GetActiveCreatorPlan(context.Background(), creator.ID)
		if err != nil {
			t.Fatalf("GetActiveCreatorPlan() failed: %v", err)
		}
		assert.Equal(t, 3, active.PlanID)
	})
}
