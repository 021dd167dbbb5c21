package user

import "time"

// User represents the domain model for a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// New creates a User from the given parameters.
func New(username, email, passwordHash, role string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// Profile is the public view of a user, with the password hash
// stripped.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitzero"`
	Role     string `json:"role"`
}

// ToProfile converts a domain user into its public view.
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
