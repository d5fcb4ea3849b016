package users

import "time"

// Account status values. Only verified accounts may use products.
const (
	StatusUnverified = "unverified"
	StatusVerified   = "verified"
	StatusBlocked    = "blocked"
)

// Permission values.
const (
	PermissionUser  = "user"
	PermissionAdmin = "admin"
)

// User is a registered account. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID           string
	Name         string
	Surname      string
	Email        string
	Password     string
	Organization string
	Status       string
	Permission   string
	Picture      string
	LastLogin    *time.Time
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

// Profile is the user-facing projection of an account.
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Status       string `json:"status"`
	Permission   string `json:"permission"`
	Picture      string `json:"picture"`
}

func (u User) profile() Profile {
	return Profile{
		ID:           u.ID,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		Organization: u.Organization,
		Status:       u.Status,
		Permission:   u.Permission,
		Picture:      u.Picture,
	}
}
