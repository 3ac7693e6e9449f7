package dto

import "time"

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput leaves nil fields unchanged.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// AccountOutput is the user as shown to callers; it never carries the hash.
type AccountOutput struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
