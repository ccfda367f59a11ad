package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserID represents a unique user identifier
type UserID string

// NewUserID creates a new user ID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// String returns the string representation
func (u UserID) String() string {
	return string(u)
}

// User is an account able to log in to the api node.
type User struct {
	ID           UserID    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	IsAdmin      bool      `json:"is_admin" bson:"is_admin"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// NewUser creates a user with a fresh ID and a normalized email.
func NewUser(email, passwordHash string, isAdmin bool) *User {
	return &User{
		ID:           NewUserID(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
}

// NormalizeEmail lowercases and trims an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string `json:"token"`
}

// Claims is the identity carried by an auth token.
type Claims struct {
	ID      UserID `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
}
