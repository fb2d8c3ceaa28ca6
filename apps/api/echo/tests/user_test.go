package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/user"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_authApi_register(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, usrRepo, "taken", "secret1", user.RoleCreator, true)

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name:     "bad username characters",
			body:     []byte(`{"username": "ali ce", "password": "secret1"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "only alphanumeric characters and underscores are allowed"}),
		},
		{
			name:     "short username",
			body:     []byte(`{"username": "al", "password": "secret1"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "username must be at least 3 characters in length"}),
		},
		{
			name:     "short password",
			body:     []byte(`{"username": "alice", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password must contain at least 6 characters"}),
		},
		{
			name:     "password with whitespace",
			body:     []byte(`{"username": "alice", "password": "oh no oh no"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password must not contain whitespace"}),
		},
		{
			name:     "all numeric password",
			body:     []byte(`{"username": "alice", "password": "123456789"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name:     "password too similar to username",
			body:     []byte(`{"username": "chantal", "password": "chantal1"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password cannot be similar to the username"}),
		},
		{
			name:     "unknown role",
			body:     []byte(`{"username": "alice", "password": "secret1", "role": "boss"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"role": "invalid role"}),
		},
		{
			name:     "username already taken",
			body:     []byte(`{"username": "taken", "password": "secret1"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "username already taken"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/register", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("register succeeds and opens a session", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/register", []byte(`{"username": "alice", "password": "secret1"}`))
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp AuthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling AuthResponse: %v", err)
		}
		assert.Equal(t, "alice", resp.User.Username)
		assert.Equal(t, user.RoleCreator, resp.User.Role) // creator by default
		assert.True(t, resp.User.IsActive)
		assert.NotEmpty(t, resp.Token)

		// credentials are never exposed
		assert.NotContains(t, rec.Body.String(), "password")

		// the session is live
		req, rec = newAuthRequest(http.MethodGet, "/v1/auth/user", resp.Token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "alice", "secret1", user.RoleCreator, true)
	testutil.CreateUser(t, usrRepo, "ghost", "secret1", user.RoleCreator, false)

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name:     "unknown username",
			body:     []byte(`{"username": "bob", "password": "secret1"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "usernames are case-sensitive",
			body:     []byte(`{"username": "Alice", "password": "secret1"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"username": "alice", "password": "secret2"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "deactivated account",
			body:     []byte(`{"username": "ghost", "password": "secret1"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("login succeeds", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"username": "alice", "password": "secret1"}`))
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp AuthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling AuthResponse: %v", err)
		}
		assert.Equal(t, usr.ID, resp.User.ID)
		assert.NotEmpty(t, resp.Token)
		assert.False(t, resp.User.LastLogin.IsZero())

		// each login opens its own session
		req, rec = newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"username": "alice", "password": "secret1"}`))
		app.ServeHTTP(rec, req)
		var resp2 AuthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp2); err != nil {
			t.Fatalf("unmarshalling AuthResponse: %v", err)
		}
		assert.NotEqual(t, resp.Token, resp2.Token)
	})
}

func Test_authApi_logout(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "alice", "secret1", user.RoleCreator, true)
	token := getToken(t, usr)

	t.Run("requires a session", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/logout")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)}, rec)
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/auth/logout", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, "/v1/auth/user", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		// logging out twice is harmless but the session is gone
		req, rec = newAuthRequest(http.MethodPost, "/v1/auth/logout", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func Test_authApi_retrieve(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "alice", "secret1", user.RoleCreator, true)
	token := getToken(t, usr)

	tests := []httpTest{
		{
			name:     "no token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errNotAuthenticated),
		},
		{
			name:     "garbage token",
			token:    "lol",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errNotAuthenticated),
		},
		{
			name:     "current user",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, usr),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/auth/user", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("deactivation does not kill live sessions", func(t *testing.T) {
		active := false
		if _, err := usrRepo.UpdateUser(context.Background(), user.User{ID: usr.ID}, &active); err != nil {
			t.Fatalf("UpdateUser() failed: %v", err)
		}

		req, rec := newAuthRequest(http.MethodGet, "/v1/auth/user", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		// but a fresh login is refused
		req, rec = newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"username": "alice", "password": "secret1"}`))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
