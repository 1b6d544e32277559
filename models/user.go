package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents an account in the community platform
type User struct {
	gorm.Model

	// Authentication fields
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Account status
	IsActive    bool `gorm:"default:true" json:"is_active"`
	IsStaff     bool `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`

	// Set by the admin-only provisioning flow; cleared on the first
	// successful password change.
	MustChangePassword bool `gorm:"default:false" json:"must_change_password"`

	// Relations
	Profile   *Profile   `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	UserRoles []UserRole `gorm:"foreignKey:UserID" json:"roles,omitempty"`
	Skills    []UserSkill `gorm:"foreignKey:UserID" json:"skills,omitempty"`
}

// SetPassword hashes and stores the given plaintext password
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RoleKeys returns the role keys attached to the user. UserRoles and their
// Role relation must be preloaded.
func (u *User) RoleKeys() []string {
	keys := make([]string, 0, len(u.UserRoles))
	for _, ur := range u.UserRoles {
		keys = append(keys, ur.Role.Key)
	}
	return keys
}

// Profile holds the member-facing part of an account
type Profile struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	DisplayName string     `gorm:"not null" json:"display_name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Profession  *string    `json:"profession,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	Location    *string    `json:"location,omitempty"`

	GithubURL   *string `json:"github_url,omitempty"`
	LinkedinURL *string `json:"linkedin_url,omitempty"`

	User User `json:"-"`
}

// Role is a named capability tag (mentor/coach/mentorado/admin/cofounder)
type Role struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null" json:"key"`
	Label string `gorm:"not null" json:"label"`
}

// UserRole links users to roles
type UserRole struct {
	gorm.Model
	UserID uint `gorm:"not null;index;uniqueIndex:uniq_user_role" json:"user_id"`
	RoleID uint `gorm:"not null;index;uniqueIndex:uniq_user_role" json:"role_id"`

	User User `json:"-"`
	Role Role `json:"role"`
}
