package models

import "strings"

// User is a registered campus member.
type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Semester   int       `json:"semester"`
	Department string    `json:"department"`
	Hostel     string    `json:"hostel"`
	CreatedAt  Timestamp `json:"created_at"`
}

// UserCreate is the registration payload.
type UserCreate struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Semester   int    `json:"semester"`
	Department string `json:"department"`
	Hostel     string `json:"hostel"`
}

// Label is how a user appears in profile selectors.
func (u User) Label() string {
	return u.Name + " (" + u.Department + ")"
}

// FindByEmail returns the user whose email matches, ignoring case and
// surrounding whitespace.
func FindByEmail(users []User, email string) (User, bool) {
	email = strings.TrimSpace(email)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}
