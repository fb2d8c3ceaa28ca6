package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")
	ErrNotOwner = errors.New("course belongs to another creator")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		QueryCoursesByCreator(ctx context.Context, creatorID int) ([]Course, error)
		DeleteCourse(ctx context.Context, id int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nc NewCourse, creatorID int) (Course, error)
		QueryByCreator(ctx context.Context, creatorID int) ([]Course, error)
		Delete(ctx context.Context, id int, actor user.User) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a course owned by creatorID; the payload cannot override
// the owner.
func (svc *Service) Create(ctx context.Context, nc NewCourse, creatorID int) (Course, error) {
	crs := Course{
		Name:      nc.Name,
		DriveLink: nc.DriveLink,
		CreatorID: creatorID,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryByCreator(ctx context.Context, creatorID int) ([]Course, error) {
	return svc.repo.QueryCoursesByCreator(ctx, creatorID)
}

// Delete removes the course. Non-admin actors must own the record.
func (svc *Service) Delete(ctx context.Context, id int, actor user.User) error {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && crs.CreatorID != actor.ID {
		return ErrNotOwner
	}
	return svc.repo.DeleteCourse(ctx, id)
}
