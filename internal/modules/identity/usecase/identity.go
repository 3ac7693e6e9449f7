package usecase

import (
	"context"
	"sync"

	"vgdesk/internal/modules/identity/domain"
	"vgdesk/internal/modules/identity/dto"
	identityin "vgdesk/internal/modules/identity/port/in"
	"vgdesk/internal/modules/identity/service"
	apperrors "vgdesk/internal/platform/errors"
)

// Interactor owns the signed-in account for the process. Other modules read
// it through Current.
type Interactor struct {
	svc *service.IdentityService

	mu      sync.RWMutex
	current *domain.User
}

func NewInteractor(svc *service.IdentityService) identityin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Signup(ctx context.Context, input dto.SignupInput) (dto.AccountOutput, error) {
	user, err := i.svc.Register(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		return dto.AccountOutput{}, err
	}
	i.setCurrent(&user)
	return toAccount(user), nil
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.AccountOutput, error) {
	user, err := i.svc.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return dto.AccountOutput{}, err
	}
	i.setCurrent(&user)
	return toAccount(user), nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	if err := i.svc.EndSession(ctx); err != nil {
		return err
	}
	i.setCurrent(nil)
	return nil
}

func (i *Interactor) UpdateProfile(ctx context.Context, input dto.UpdateProfileInput) (dto.AccountOutput, error) {
	i.mu.RLock()
	current := i.current
	i.mu.RUnlock()
	if current == nil {
		return dto.AccountOutput{}, apperrors.ErrNotAuthenticated
	}
	user, err := i.svc.Update(ctx, current.ID, service.Changes{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return dto.AccountOutput{}, err
	}
	i.setCurrent(&user)
	return toAccount(user), nil
}

func (i *Interactor) Restore(ctx context.Context) (dto.AccountOutput, bool, error) {
	user, ok, err := i.svc.Resolve(ctx)
	if err != nil || !ok {
		return dto.AccountOutput{}, false, err
	}
	i.setCurrent(&user)
	return toAccount(user), true, nil
}

func (i *Interactor) Current() (dto.AccountOutput, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.current == nil {
		return dto.AccountOutput{}, false
	}
	return toAccount(*i.current), true
}

func (i *Interactor) setCurrent(user *domain.User) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.current = user
}

func toAccount(user domain.User) dto.AccountOutput {
	return dto.AccountOutput{ID: user.ID, Name: user.Name, Email: user.Email, CreatedAt: user.CreatedAt}
}
