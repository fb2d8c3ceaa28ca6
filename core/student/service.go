package student

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
	ErrNotOwner = errors.New("student belongs to another creator")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		QueryStudentsByCreator(ctx context.Context, creatorID int) ([]Student, error)
		UpdateStudentStatus(ctx context.Context, id int, status string) (Student, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewStudent, creatorID int) (Student, error)
		QueryByCreator(ctx context.Context, creatorID int) ([]Student, error)
		UpdateStatus(ctx context.Context, id int, status string, actor user.User) (Student, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
	}
}

// Create enrolls a new Student under creatorID. The owning creator always
// comes from the authenticated caller, never from the payload.
func (svc *Service) Create(ctx context.Context, ns NewStudent, creatorID int) (Student, error) {
	status := ns.Status
	if status == "" {
		status = StatusPending
	}
	st := Student{
		Name:       ns.Name,
		Email:      ns.Email,
		Phone:      ns.Phone,
		CourseID:   ns.CourseID,
		CreatorID:  creatorID,
		Status:     status,
		EnrolledAt: time.Now().UTC(),
	}
	st, err := svc.repo.CreateStudent(ctx, st)
	if err != nil {
		return Student{}, err
	}
	svc.sendEnrollmentEmail(st)
	return st, nil
}

// QueryByCreator lists the creator's own students; the filter is applied
// at query time so cross-tenant rows are never fetched.
func (svc *Service) QueryByCreator(ctx context.Context, creatorID int) ([]Student, error) {
	return svc.repo.QueryStudentsByCreator(ctx, creatorID)
}

// UpdateStatus replaces the student's enrollment status. Non-admin actors
// must own the record.
func (svc *Service) UpdateStatus(ctx context.Context, id int, status string, actor user.User) (Student, error) {
	st, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if !actor.IsAdmin() && st.CreatorID != actor.ID {
		return Student{}, ErrNotOwner
	}
	return svc.repo.UpdateStudentStatus(ctx, id, status)
}

func (svc *Service) sendEnrollmentEmail(st Student) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: st.Name, Address: st.Email}},
		Subject:      "You have been enrolled",
		TemplateName: "enrolled",
		TemplateData: st,
	})
}
