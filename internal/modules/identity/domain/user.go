package domain

import (
	"strings"
	"time"
)

// User is the stored account record. Email is unique ignoring case.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session points at the signed-in user.
type Session struct {
	UserID string `json:"userId"`
}

func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IndexByEmail returns the position of the user owning email, or -1.
func IndexByEmail(users []User, email string) int {
	for i, u := range users {
		if SameEmail(u.Email, email) {
			return i
		}
	}
	return -1
}

func IndexByID(users []User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// EmailTakenByOther reports whether email belongs to a user other than id.
func EmailTakenByOther(users []User, email, id string) bool {
	for _, u := range users {
		if u.ID != id && SameEmail(u.Email, email) {
			return true
		}
	}
	return false
}
