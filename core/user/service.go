package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
)

type (
	Repository interface {
		// CreateUser inserts usr with the next sequential ID.
		// The unique-username check and the insert are a single atomic
		// unit; ErrUsernameExists on conflict.
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		// GetUserByUsername does a case-sensitive exact match.
		GetUserByUsername(ctx context.Context, username string) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		QueryUsersByRole(ctx context.Context, role string) ([]User, error)
		// UpdateUser only saves set fields; isActive is applied when non-nil.
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
	}

	ServiceInterface interface {
		Register(ctx context.Context, nu NewUser) (User, error)
		Authenticate(ctx context.Context, username, password string) (User, error)
		GetByID(ctx context.Context, id int) (User, error)
		GetByUsername(ctx context.Context, username string) (User, error)
		QueryCreators(ctx context.Context) ([]User, error)
		ToggleAccess(ctx context.Context, id int) (User, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates the User with role defaulting to creator and opens
// their account; the password is hashed before it ever reaches the repo.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	role := nu.Role
	if role == "" {
		role = RoleCreator
	}
	usr := User{
		Username:  nu.Username,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}

	return svc.repo.CreateUser(ctx, usr)
}

// Authenticate checks the password for the named user. A missing user and
// a wrong password are indistinguishable to the caller.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by username")
	}
	if !usr.CheckPassword(password) {
		return User{}, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}
	return svc.setLastLogin(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(username))
}

func (svc *Service) QueryCreators(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsersByRole(ctx, RoleCreator)
}

// ToggleAccess flips the account's active gate.
func (svc *Service) ToggleAccess(ctx context.Context, id int) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	active := !usr.IsActive
	return svc.repo.UpdateUser(ctx, User{ID: usr.ID, UpdatedAt: time.Now().UTC()}, &active)
}

func (svc *Service) setLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, User{ID: usr.ID, LastLogin: usr.LastLogin, UpdatedAt: usr.LastLogin}, nil)
}
