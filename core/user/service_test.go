package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/trezcool/darasa/core/user"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewUserRepository(db)
	return user.NewService(repo), repo
}

func TestService_Register(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	usr, err := svc.Register(ctx, user.NewUser{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if usr.ID == 0 {
		t.Error("Register() did not assign an ID")
	}
	if usr.Role != user.RoleCreator {
		t.Errorf("Role = %q, want %q", usr.Role, user.RoleCreator)
	}
	if !usr.IsActive {
		t.Error("expected a new account to be active")
	}
	if usr.PasswordHash == "secret1" || !strings.Contains(usr.PasswordHash, ".") {
		t.Error("expected the password to be hashed")
	}
	if !usr.CheckPassword("secret1") {
		t.Error("CheckPassword() rejected the registration password")
	}
	if usr.CreatedAt.IsZero() || usr.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	// explicit role is kept
	admin, err := svc.Register(ctx, user.NewUser{Username: "boss", Password: "secret1", Role: user.RoleAdmin})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if !admin.IsAdmin() {
		t.Errorf("Role = %q, want %q", admin.Role, user.RoleAdmin)
	}

	// usernames are unique
	if _, err = svc.Register(ctx, user.NewUser{Username: "alice", Password: "secret2"}); err != user.ErrUsernameExists {
		t.Errorf("Register() error = %v, want %v", err, user.ErrUsernameExists)
	}

	// but case-sensitive: "Alice" is a different user
	if _, err = svc.Register(ctx, user.NewUser{Username: "Alice", Password: "secret2"}); err != nil {
		t.Errorf("Register() error = %v, want nil", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	testutil.CreateUser(t, repo, "alice", "secret1", user.RoleCreator, true)
	testutil.CreateUser(t, repo, "ghost", "secret1", user.RoleCreator, false)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "unknown user", username: "bob", password: "secret1", wantErr: user.ErrInvalidCredentials},
		{name: "wrong password", username: "alice", password: "secret2", wantErr: user.ErrInvalidCredentials},
		{name: "username case mismatch", username: "Alice", password: "secret1", wantErr: user.ErrInvalidCredentials},
		{name: "deactivated account", username: "ghost", password: "secret1", wantErr: user.ErrAccountDeactivated},
		{name: "ok", username: "alice", password: "secret1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.username, tt.password)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && usr.LastLogin.IsZero() {
				t.Error("expected LastLogin to be set")
			}
		})
	}
}

func TestService_ToggleAccess(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, repo, "alice", "secret1", user.RoleCreator, true)

	if _, err := svc.ToggleAccess(ctx, 666); err != user.ErrNotFound {
		t.Errorf("ToggleAccess() error = %v, want %v", err, user.ErrNotFound)
	}

	toggled, err := svc.ToggleAccess(ctx, usr.ID)
	if err != nil {
		t.Fatalf("ToggleAccess() failed: %v", err)
	}
	if toggled.IsActive {
		t.Error("expected the account to be deactivated")
	}

	toggled, err = svc.ToggleAccess(ctx, usr.ID)
	if err != nil {
		t.Fatalf("ToggleAccess() failed: %v", err)
	}
	if !toggled.IsActive {
		t.Error("expected the account to be reactivated")
	}
}

func TestService_QueryCreators(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, repo, "alice", "", user.RoleCreator, true)
	eve := testutil.CreateUser(t, repo, "eve", "", user.RoleCreator, false)
	testutil.CreateUser(t, repo, "admin", "", user.RoleAdmin, true)

	creators, err := svc.QueryCreators(ctx)
	if err != nil {
		t.Fatalf("QueryCreators() failed: %v", err)
	}
	if len(creators) != 2 {
		t.Fatalf("len(creators) = %d, want 2", len(creators))
	}
	for _, c := range creators {
		if c.ID != alice.ID && c.ID != eve.ID {
			t.Errorf("unexpected creator %q in listing", c.Username)
		}
	}
}
