package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vgdesk/internal/modules/identity/domain"
	identityout "vgdesk/internal/modules/identity/port/out"
	"vgdesk/internal/platform/clock"
	apperrors "vgdesk/internal/platform/errors"
	"vgdesk/internal/platform/id"
)

type IdentityService struct {
	clock    clock.Clock
	idGen    id.Generator
	hasher   identityout.PasswordHasher
	users    identityout.UserStore
	sessions identityout.SessionStore
	flusher  identityout.Flusher
}

func NewIdentityService(clock clock.Clock, idGen id.Generator, hasher identityout.PasswordHasher, users identityout.UserStore, sessions identityout.SessionStore, flusher identityout.Flusher) *IdentityService {
	return &IdentityService{clock: clock, idGen: idGen, hasher: hasher, users: users, sessions: sessions, flusher: flusher}
}

// Changes carries the profile fields to overwrite; nil means keep.
type Changes struct {
	Name     *string
	Email    *string
	Password *string
}

func (s *IdentityService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if domain.IndexByEmail(users, email) >= 0 {
		return domain.User{}, apperrors.ErrDuplicateEmail
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           s.idGen.New(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.SaveUsers(ctx, append(users, user)); err != nil {
		return domain.User{}, err
	}
	// A signup without its session is undone so the email stays free.
	if err := s.sessions.SaveSession(ctx, domain.Session{UserID: user.ID}); err != nil {
		if rollbackErr := s.users.SaveUsers(ctx, users); rollbackErr != nil {
			return domain.User{}, errors.Join(err, fmt.Errorf("roll back signup: %w", rollbackErr))
		}
		return domain.User{}, err
	}
	if err := s.flusher.Flush(ctx); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	idx := domain.IndexByEmail(users, email)
	if idx < 0 {
		return domain.User{}, apperrors.ErrUserNotFound
	}
	user := users[idx]
	if !s.hasher.Compare(user.PasswordHash, password) {
		return domain.User{}, apperrors.ErrInvalidCredentials
	}
	if err := s.sessions.SaveSession(ctx, domain.Session{UserID: user.ID}); err != nil {
		return domain.User{}, err
	}
	if err := s.flusher.Flush(ctx); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *IdentityService) EndSession(ctx context.Context) error {
	if err := s.sessions.ClearSession(ctx); err != nil {
		return err
	}
	return s.flusher.Flush(ctx)
}

func (s *IdentityService) Update(ctx context.Context, userID string, changes Changes) (domain.User, error) {
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	idx := domain.IndexByID(users, userID)
	if idx < 0 {
		return domain.User{}, apperrors.ErrUserNotFound
	}
	user := users[idx]
	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		if email == "" {
			return domain.User{}, fmt.Errorf("%w: email cannot be empty", apperrors.ErrInvalidInput)
		}
		if domain.EmailTakenByOther(users, email, userID) {
			return domain.User{}, apperrors.ErrEmailInUse
		}
		user.Email = email
	}
	if changes.Name != nil {
		user.Name = strings.TrimSpace(*changes.Name)
	}
	if changes.Password != nil && *changes.Password != "" {
		hash, err := s.hasher.Hash(*changes.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	users[idx] = user
	if err := s.users.SaveUsers(ctx, users); err != nil {
		return domain.User{}, err
	}
	if err := s.flusher.Flush(ctx); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Resolve follows the stored session to its user. A session whose user no
// longer exists is reported as signed out and left in place.
func (s *IdentityService) Resolve(ctx context.Context) (domain.User, bool, error) {
	session, ok, err := s.sessions.LoadSession(ctx)
	if err != nil || !ok {
		return domain.User{}, false, err
	}
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return domain.User{}, false, err
	}
	idx := domain.IndexByID(users, session.UserID)
	if idx < 0 {
		return domain.User{}, false, nil
	}
	return users[idx], true, nil
}
