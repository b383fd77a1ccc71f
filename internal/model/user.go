package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleTecnico = "tecnico"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	City         *string   `json:"city"`
	Photo        *string   `json:"photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is what the authorization guard hands to handlers once a token
// has been validated.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type LoginResult struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type ProfilePatch struct {
	FullName *string
	Email    *string
	City     *string
}

func (p ProfilePatch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.City == nil
}

// Actor describes who triggered a write, for audit and installer attribution.
// A nil UserID means the request was anonymous.
type Actor struct {
	UserID    *int64
	Username  string
	Role      string
	IP        string
	UserAgent string
}

func (a Actor) Anonymous() bool {
	return a.UserID == nil
}
