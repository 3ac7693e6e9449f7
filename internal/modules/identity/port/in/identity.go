package in

import (
	"context"

	"vgdesk/internal/modules/identity/dto"
)

type Usecase interface {
	Signup(ctx context.Context, input dto.SignupInput) (dto.AccountOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.AccountOutput, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, input dto.UpdateProfileInput) (dto.AccountOutput, error)
	Restore(ctx context.Context) (dto.AccountOutput, bool, error)
	Current() (dto.AccountOutput, bool)
}
