package echoapi

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	AuthResponse struct {
		User      user.User `json:"user"`
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	// usernames are case-sensitive; trim only
	lr.Username = core.CleanString(lr.Username)
	return validate.Struct(lr)
}
