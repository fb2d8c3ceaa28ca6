package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Enrollment statuses
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

var AllStatuses = []string{StatusPending, StatusActive, StatusCancelled}

type Student struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	CourseID   *int      `json:"courseId"`
	CreatorID  int       `json:"creatorId"` // owning creator; set at creation, immutable
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolledAt"` // UTC; set at creation, immutable
}

// NewStudent contains information needed to enroll a new Student.
// The owning creator is never part of the payload; it is stamped from the
// authenticated caller.
type NewStudent struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	CourseID *int   `json:"courseId"`
	Status   string `json:"status" validate:"omitempty,studentstatus"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	return validate.Struct(ns)
}

// StatusUpdate defines the only mutation a Student record supports.
type StatusUpdate struct {
	Status string `json:"status" validate:"required,studentstatus"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return validate.Struct(su)
}
