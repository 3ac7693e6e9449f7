package in

import (
	"context"

	"vgdesk/internal/modules/identity/dto"
	identityin "vgdesk/internal/modules/identity/port/in"
)

type CLIHandler struct {
	usecase identityin.Usecase
}

func NewCLIHandler(usecase identityin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Signup(ctx context.Context, name, email, password string) (dto.AccountOutput, error) {
	return h.usecase.Signup(ctx, dto.SignupInput{Name: name, Email: email, Password: password})
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (dto.AccountOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

// UpdateProfile treats empty arguments as "leave unchanged".
func (h CLIHandler) UpdateProfile(ctx context.Context, name, email, password string) (dto.AccountOutput, error) {
	input := dto.UpdateProfileInput{}
	if name != "" {
		input.Name = &name
	}
	if email != "" {
		input.Email = &email
	}
	if password != "" {
		input.Password = &password
	}
	return h.usecase.UpdateProfile(ctx, input)
}

func (h CLIHandler) Whoami() (dto.AccountOutput, bool) {
	return h.usecase.Current()
}
