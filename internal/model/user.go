package model

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an identity record.
type User struct {
	ID                      string     `json:"_id" gorm:"primaryKey;size:36"`
	Name                    string     `json:"name" gorm:"size:255;not null"`
	Email                   string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash            string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role                    Role       `json:"role" gorm:"size:16;not null;default:'user'"`
	IsVerified              bool       `json:"isVerified" gorm:"not null;default:false"`
	VerificationTokenHash   *string    `json:"-" gorm:"size:64;index"`
	VerificationTokenExpiry *time.Time `json:"-"`
	// Reserved for a password reset flow; nothing reads or writes them yet.
	ResetPasswordTokenHash *string    `json:"-" gorm:"size:64"`
	ResetPasswordExpiry    *time.Time `json:"-"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user may call admin-only operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ClearVerificationToken drops the pending verification token.
func (u *User) ClearVerificationToken() {
	u.VerificationTokenHash = nil
	u.VerificationTokenExpiry = nil
}

// Safe returns the projection that may leave the process and live in the cache.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// SafeUser is the externally visible user projection. It never carries the
// password hash or token fields.
type SafeUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the projected user may call admin-only operations.
func (u SafeUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}
