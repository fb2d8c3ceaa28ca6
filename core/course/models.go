package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

type Course struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	DriveLink string `json:"driveLink"` // opaque URL to externally hosted content
	CreatorID int    `json:"creatorId"` // owning creator; set at creation, immutable
}

// NewCourse contains information needed to create a new Course; the
// owning creator is stamped from the authenticated caller.
type NewCourse struct {
	Name      string `json:"name" validate:"required"`
	DriveLink string `json:"driveLink" validate:"required,url"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.DriveLink = core.CleanString(nc.DriveLink)
	return validate.Struct(nc)
}
